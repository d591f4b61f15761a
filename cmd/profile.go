package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/khedut-saathi/khedut/internal/config"
	"github.com/khedut-saathi/khedut/internal/exchange"
)

var policies = []string{
	exchange.SingleFlight.String(),
	exchange.Queue.String(),
	exchange.Concurrent.String(),
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage backend profiles",
	Long:  `Manage backend profiles: which Khedut Saathi server to talk to and how.`,
}

var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		fmt.Printf("Active Profile: %s\n\n", cfg.ActiveProfile)
		fmt.Println("Available Profiles:")
		for _, name := range cfg.ProfileNames() {
			profile := cfg.Profiles[name]
			marker := ""
			if name == cfg.ActiveProfile {
				marker = " (active)"
			}
			fmt.Printf("  %s%s\n", name, marker)
			fmt.Printf("    Backend: %s\n", profile.BackendURL)
			if profile.Policy != "" {
				fmt.Printf("    Policy: %s\n", profile.Policy)
			}
			fmt.Println()
		}
		return nil
	},
}

var showProfileCmd = &cobra.Command{
	Use:   "show [profile-name]",
	Short: "Show profile details",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		profileName := cfg.ActiveProfile
		if len(args) > 0 {
			profileName = args[0]
		}
		profile, exists := cfg.Profiles[profileName]
		if !exists {
			return fmt.Errorf("profile '%s' does not exist", profileName)
		}

		timeout := profile.Timeout
		if timeout <= 0 {
			timeout = config.DefaultTimeout
		}
		policy := profile.Policy
		if policy == "" {
			policy = exchange.SingleFlight.String()
		}

		fmt.Printf("Profile: %s\n", profileName)
		fmt.Printf("Backend URL: %s\n", profile.BackendURL)
		fmt.Printf("Timeout: %s\n", timeout)
		fmt.Printf("Policy: %s\n", policy)
		fmt.Printf("Model (dev backend): %s\n", profile.Model)
		hasKey := "Not set"
		if profile.APIKey != "" {
			hasKey = "Set (hidden for security)"
		}
		fmt.Printf("API Key (dev backend): %s\n", hasKey)
		return nil
	},
}

var addProfileCmd = &cobra.Command{
	Use:   "add [profile-name]",
	Short: "Add a new profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			prompt := promptui.Prompt{
				Label:    "Profile name",
				Validate: notEmpty,
			}
			if profileName, err = prompt.Run(); err != nil {
				return fmt.Errorf("prompt failed: %w", err)
			}
		}

		if _, exists := cfg.Profiles[profileName]; exists {
			return fmt.Errorf("profile '%s' already exists", profileName)
		}

		profile, err := promptProfile(config.Profile{Model: config.DefaultModel})
		if err != nil {
			return err
		}

		if cfg.Profiles == nil {
			cfg.Profiles = make(map[string]config.Profile)
		}
		cfg.Profiles[profileName] = profile
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("Profile '%s' added successfully!\n", profileName)
		return nil
	},
}

var editProfileCmd = &cobra.Command{
	Use:   "edit [profile-name]",
	Short: "Edit an existing profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		profileName, err := pickProfile(cfg, args, "Select profile to edit")
		if err != nil {
			return err
		}
		profile, exists := cfg.Profiles[profileName]
		if !exists {
			return fmt.Errorf("profile '%s' does not exist", profileName)
		}

		if profile, err = promptProfile(profile); err != nil {
			return err
		}
		cfg.Profiles[profileName] = profile
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("Profile '%s' updated successfully!\n", profileName)
		return nil
	},
}

var removeProfileCmd = &cobra.Command{
	Use:     "remove [profile-name]",
	Aliases: []string{"delete"},
	Short:   "Remove a profile",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		profileName, err := pickProfile(cfg, args, "Select profile to remove")
		if err != nil {
			return err
		}

		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Remove profile '%s'", profileName),
			IsConfirm: true,
		}
		if _, err := confirmPrompt.Run(); err != nil {
			fmt.Println("Removal cancelled")
			return nil
		}

		if err := cfg.Remove(profileName); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("Profile '%s' removed. Active profile: %s\n", profileName, cfg.ActiveProfile)
		return nil
	},
}

func pickProfile(cfg *config.Config, args []string, label string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	names := cfg.ProfileNames()
	if len(names) == 0 {
		return "", errors.New("no profiles available")
	}
	prompt := promptui.Select{
		Label: label,
		Items: names,
	}
	_, name, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("selection failed: %w", err)
	}
	return name, nil
}

// promptProfile asks for every profile field, using p as the defaults.
func promptProfile(p config.Profile) (config.Profile, error) {
	backendPrompt := promptui.Prompt{
		Label:    "Backend URL",
		Default:  p.BackendURL,
		Validate: validBackendURL,
	}
	backend, err := backendPrompt.Run()
	if err != nil {
		return p, fmt.Errorf("prompt failed: %w", err)
	}
	p.BackendURL = backend

	timeoutDefault := ""
	if p.Timeout > 0 {
		timeoutDefault = p.Timeout.String()
	}
	timeoutPrompt := promptui.Prompt{
		Label:    "Request timeout (empty for 30s)",
		Default:  timeoutDefault,
		Validate: validTimeout,
	}
	timeout, err := timeoutPrompt.Run()
	if err != nil {
		return p, fmt.Errorf("prompt failed: %w", err)
	}
	p.Timeout = 0
	if timeout != "" {
		p.Timeout, _ = time.ParseDuration(timeout)
	}

	policySelect := promptui.Select{
		Label: "Submission policy",
		Items: policies,
	}
	_, p.Policy, err = policySelect.Run()
	if err != nil {
		return p, fmt.Errorf("selection failed: %w", err)
	}

	apiKeyPrompt := promptui.Prompt{
		Label:   "OpenAI API key for the dev backend (optional)",
		Default: p.APIKey,
		Mask:    '*',
	}
	if p.APIKey, err = apiKeyPrompt.Run(); err != nil {
		return p, fmt.Errorf("prompt failed: %w", err)
	}

	modelPrompt := promptui.Prompt{
		Label:   "Model for the dev backend",
		Default: p.Model,
	}
	if p.Model, err = modelPrompt.Run(); err != nil {
		return p, fmt.Errorf("prompt failed: %w", err)
	}

	return p, nil
}

func notEmpty(s string) error {
	if s == "" {
		return errors.New("value is required")
	}
	return nil
}

func validBackendURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("backend URL must start with http:// or https://")
	}
	if u.Host == "" {
		return errors.New("backend URL needs a host")
	}
	return nil
}

func validTimeout(s string) error {
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

func init() {
	profileCmd.AddCommand(listProfilesCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(addProfileCmd)
	profileCmd.AddCommand(editProfileCmd)
	profileCmd.AddCommand(removeProfileCmd)
}
