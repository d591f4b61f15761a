package cmd

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/khedut-saathi/khedut/internal/backend"
	"github.com/khedut-saathi/khedut/internal/config"
	"github.com/khedut-saathi/khedut/internal/session"
)

var signupForm struct {
	name  string
	email string
	role  string
	img   string
}

var roleChoices = []struct {
	Label string
	Role  session.Role
}{
	{"Farmer", session.RoleFarmer},
	{"Businessman", session.RoleBusinessman},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	Long:  `Create a Khedut Saathi account as a farmer or a businessman. Missing fields are prompted for.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := promptSignup()
		if err != nil {
			return err
		}

		client, err := newBackendClient()
		if err != nil {
			return err
		}
		sess, err := client.Signup(cmd.Context(), req)
		if err != nil {
			return err
		}

		dir, err := config.Dir()
		if err != nil {
			return err
		}
		if err := sessionStore(dir).Save(sess); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		fmt.Printf("Signed up as %s\n", sess.Greeting())
		return nil
	},
}

func promptSignup() (backend.SignupRequest, error) {
	var req backend.SignupRequest

	role, err := session.ParseRole(signupForm.role)
	if err != nil {
		return req, backend.ErrRoleRequired
	}
	if role == session.RoleNone {
		if role, err = selectRole(); err != nil {
			return req, err
		}
	}
	req.Role = role

	if req.Name, err = promptValue("Full name", signupForm.name, notEmpty, 0); err != nil {
		return req, err
	}
	if req.Email, err = promptValue("Email address", signupForm.email, notEmpty, 0); err != nil {
		return req, err
	}
	if req.Password, err = promptValue("Password", "", notEmpty, '*'); err != nil {
		return req, err
	}
	if signupForm.img != "" {
		req.Img = signupForm.img
	} else if req.Img, err = promptValue("Profile picture URL (optional)", "", nil, 0); err != nil {
		return req, err
	}

	return req, req.Validate()
}

func selectRole() (session.Role, error) {
	labels := make([]string, len(roleChoices))
	for i, c := range roleChoices {
		labels[i] = c.Label
	}
	prompt := promptui.Select{
		Label: "Role",
		Items: labels,
	}
	i, _, err := prompt.Run()
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return session.RoleNone, backend.ErrRoleRequired
	}
	if err != nil {
		return session.RoleNone, fmt.Errorf("selection failed: %w", err)
	}
	return roleChoices[i].Role, nil
}

// promptValue returns preset when it is set, otherwise asks for the value.
func promptValue(label, preset string, validate promptui.ValidateFunc, mask rune) (string, error) {
	if preset != "" {
		return preset, nil
	}
	prompt := promptui.Prompt{
		Label:    label,
		Validate: validate,
		Mask:     mask,
	}
	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return value, nil
}

func init() {
	signupCmd.Flags().StringVar(&signupForm.name, "name", "", "full name")
	signupCmd.Flags().StringVar(&signupForm.email, "email", "", "email address")
	signupCmd.Flags().StringVar(&signupForm.role, "role", "", "farmer or businessman")
	signupCmd.Flags().StringVar(&signupForm.img, "img", "", "profile picture URL")
	rootCmd.AddCommand(signupCmd)
}
