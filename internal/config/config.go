package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTimeout = 30 * time.Second
	DefaultModel   = "gpt-4o-mini"
)

type Profile struct {
	BackendURL string        `yaml:"backend_url"`
	Timeout    time.Duration `yaml:"timeout,omitempty"`
	Policy     string        `yaml:"policy,omitempty"`
	// Used by the development backend only.
	APIKey string `yaml:"api_key,omitempty"`
	Model  string `yaml:"model,omitempty"`
}

// Overrides are read from the environment (and .env) on every load and win
// over the active profile.
type Overrides struct {
	BackendURL    string        `env:"KHEDUT_BACKEND"`
	Timeout       time.Duration `env:"KHEDUT_TIMEOUT"`
	Policy        string        `env:"KHEDUT_POLICY"`
	APIKey        string        `env:"OPENAI_API_KEY"`
	Model         string        `env:"OPENAI_MODEL"`
	ListenAddr    string        `env:"KHEDUT_LISTEN" envDefault:":8080"`
	AllowedOrigin string        `env:"KHEDUT_ALLOWED_ORIGIN" envDefault:"*"`
}

type Config struct {
	Profiles       map[string]Profile `yaml:"profiles"`
	ActiveProfile  string             `yaml:"active_profile"`
	currentProfile *Profile
	env            Overrides
}

func LoadConfig() (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := env.Parse(&config.env); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}

	return config, nil
}

// IsValid reports whether a backend is configured.
func (c *Config) IsValid() bool {
	return c.GetBackendURL() != ""
}

func (c *Config) GetBackendURL() string {
	if c.env.BackendURL != "" {
		return c.env.BackendURL
	}
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.BackendURL
}

func (c *Config) GetTimeout() time.Duration {
	if c.env.Timeout > 0 {
		return c.env.Timeout
	}
	if c.currentProfile == nil || c.currentProfile.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.currentProfile.Timeout
}

func (c *Config) GetPolicy() string {
	if c.env.Policy != "" {
		return c.env.Policy
	}
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.Policy
}

func (c *Config) GetAPIKey() string {
	if c.env.APIKey != "" {
		return c.env.APIKey
	}
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.APIKey
}

func (c *Config) GetModel() string {
	if c.env.Model != "" {
		return c.env.Model
	}
	if c.currentProfile == nil || c.currentProfile.Model == "" {
		return DefaultModel
	}
	return c.currentProfile.Model
}

func (c *Config) GetListenAddr() string {
	return c.env.ListenAddr
}

func (c *Config) GetAllowedOrigin() string {
	return c.env.AllowedOrigin
}

// ProfileNames returns the profile names in sorted order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Use makes name the active profile.
func (c *Config) Use(name string) error {
	if _, exists := c.Profiles[name]; !exists {
		return fmt.Errorf("profile '%s' does not exist", name)
	}
	c.ActiveProfile = name
	return c.setCurrentProfile()
}

// Remove deletes a profile. Removing the active profile activates another
// one, recreating the default profile if none is left.
func (c *Config) Remove(name string) error {
	if _, exists := c.Profiles[name]; !exists {
		return fmt.Errorf("profile '%s' does not exist", name)
	}
	delete(c.Profiles, name)

	if c.ActiveProfile == name {
		if len(c.Profiles) == 0 {
			c.Profiles["default"] = defaultProfile()
		}
		c.ActiveProfile = c.ProfileNames()[0]
	}
	return c.setCurrentProfile()
}

// Dir is the directory holding the config file, the session and the logs.
func Dir() (string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(configPath), nil
}

func getConfigPath() (string, error) {
	var configDir string

	// Use KHEDUT_HOME if set, otherwise use user's home directory
	if home := os.Getenv("KHEDUT_HOME"); home != "" {
		configDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".khedut", "config.yaml"), nil
}

func ensureConfigDir(configPath string) error {
	configDir := filepath.Dir(configPath)
	return os.MkdirAll(configDir, 0755)
}

func loadConfigFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func defaultProfile() Profile {
	return Profile{
		BackendURL: "http://localhost:8080",
		Timeout:    DefaultTimeout,
		Model:      DefaultModel,
	}
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: map[string]Profile{
			"default": defaultProfile(),
		},
		ActiveProfile: "default",
	}

	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}

	return config, nil
}

func saveConfig(config *Config, configPath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	return saveConfig(c, configPath)
}

func (c *Config) setCurrentProfile() error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// Fall back to the first profile by name
		c.ActiveProfile = c.ProfileNames()[0]
		profile = c.Profiles[c.ActiveProfile]
	}

	c.currentProfile = &profile
	return nil
}
