package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/khedut-saathi/khedut/internal/session"
)

const (
	RoleRequiredMessage = "Please select a role: Farmer or Businessman."
	// EmailTakenReply is sent with a 200 status when the email is registered.
	EmailTakenReply = "User with given email already Exist!"
)

var (
	ErrRoleRequired = errors.New(RoleRequiredMessage)
	ErrEmailTaken   = errors.New(EmailTakenReply)
)

type SignupRequest struct {
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Role     session.Role `json:"role"`
	Img      string       `json:"img"`
}

// Validate checks the form before anything is sent. The role is checked
// first, matching the order users see errors in.
func (r SignupRequest) Validate() error {
	if r.Role == session.RoleNone {
		return ErrRoleRequired
	}
	if _, err := session.ParseRole(string(r.Role)); err != nil {
		return ErrRoleRequired
	}
	switch {
	case strings.TrimSpace(r.Name) == "":
		return errors.New("name is required")
	case !strings.Contains(r.Email, "@"):
		return errors.New("a valid email address is required")
	case r.Password == "":
		return errors.New("password is required")
	}
	return nil
}

// Signup registers a new account and returns the signed-in context for it.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (session.Context, error) {
	if err := req.Validate(); err != nil {
		return session.Context{}, err
	}

	var reply json.RawMessage
	if err := c.do(ctx, http.MethodPost, []string{"signup"}, req, &reply); err != nil {
		return session.Context{}, err
	}
	var text string
	if json.Unmarshal(reply, &text) == nil && text == EmailTakenReply {
		return session.Context{}, ErrEmailTaken
	}

	return session.Context{
		Name:          strings.TrimSpace(req.Name),
		Email:         req.Email,
		Authenticated: true,
		Role:          req.Role,
	}, nil
}
