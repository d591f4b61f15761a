// Package session holds the signed-in user's context. It is loaded once at
// startup and handed to the components that need it instead of being read
// from storage wherever it is used.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Role string

const (
	RoleNone        Role = ""
	RoleFarmer      Role = "farmer"
	RoleBusinessman Role = "businessman"
)

// ParseRole accepts the marketplace role names and their producer/buyer
// aliases.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return RoleNone, nil
	case "farmer", "producer":
		return RoleFarmer, nil
	case "businessman", "buyer":
		return RoleBusinessman, nil
	default:
		return RoleNone, fmt.Errorf("unknown role %q", s)
	}
}

// Label is the role as shown to users.
func (r Role) Label() string {
	switch r {
	case RoleFarmer:
		return "producer"
	case RoleBusinessman:
		return "buyer"
	default:
		return "guest"
	}
}

type Context struct {
	Name          string `yaml:"name"`
	Email         string `yaml:"email"`
	Authenticated bool   `yaml:"auth"`
	Role          Role   `yaml:"role"`
	Token         string `yaml:"token,omitempty"`
}

// Default is the signed-out context.
func Default() Context {
	return Context{}
}

// Invalidate signs the context out.
func (c *Context) Invalidate() {
	*c = Default()
}

// Bearer returns the token to present to the backend, or "" when signed out.
func (c Context) Bearer() string {
	if !c.Authenticated {
		return ""
	}
	return c.Token
}

func (c Context) Greeting() string {
	if !c.Authenticated || c.Name == "" {
		return "Signed out"
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.Role.Label())
}

// Store persists the context to a YAML file.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns the stored context, or Default when no file exists.
func (s *Store) Load() (Context, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("read session: %w", err)
	}

	var c Context
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Default(), fmt.Errorf("parse session: %w", err)
	}
	if _, err := ParseRole(string(c.Role)); err != nil {
		return Default(), fmt.Errorf("parse session: %w", err)
	}
	return c, nil
}

func (s *Store) Save(c Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Invalidate signs out the stored session.
func (s *Store) Invalidate() error {
	c, err := s.Load()
	if err != nil {
		// A corrupt session file is replaced by the signed-out default.
		c = Default()
	}
	c.Invalidate()
	return s.Save(c)
}
