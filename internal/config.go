package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"promptvault/internal/guard"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Store    StoreConfig       `yaml:"store"`
	Media    MediaConfig       `yaml:"media"`
	Auth     AuthConfig        `yaml:"auth"`
	Backup   BackupConfig      `yaml:"backup"`
	Enhancer EnhancerConfig    `yaml:"enhancer"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig holds the SQLite state store configuration.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// MediaConfig holds the external media host that bare image identifiers
// resolve against.
type MediaConfig struct {
	BaseURL string `yaml:"base_url"`
}

// AuthConfig holds the admin identity configuration.
//
// Mode selects the identity strategy that runs before the PIN gate:
//   - "local" (default): submitted username/password are hashed and compared
//     against the hashes stored in the state blob.
//   - "delegated": an external identity provider vouches for an email, which
//     must appear on AllowedEmails.
//
// The PIN guard layer is identical in both modes.
type AuthConfig struct {
	Mode          string   `yaml:"mode"`
	AllowedEmails []string `yaml:"allowed_emails"`
	SessionSecret string   `yaml:"session_secret"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "local" for backward compatibility.
	if c.Mode == "" {
		c.Mode = guard.ModeLocal
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(guard.ModeLocal, guard.ModeDelegated)),
		validation.Field(&c.SessionSecret, validation.Required),
	); err != nil {
		return err
	}
	if c.Mode == guard.ModeDelegated && len(c.AllowedEmails) == 0 {
		return fmt.Errorf("auth: mode is %q but allowed_emails is empty", guard.ModeDelegated)
	}
	return nil
}

// BackupConfig holds the restore drop-directory configuration. An empty
// RestoreDir disables the watcher.
type BackupConfig struct {
	RestoreDir string `yaml:"restore_dir"`
}

// EnhancerConfig holds the content-enhancement provider configuration. An
// empty BaseURL disables enhancement.
type EnhancerConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// Enabled returns true when an enhancement provider is configured.
func (c *EnhancerConfig) Enabled() bool {
	return c.BaseURL != ""
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Store: StoreConfig{
			Path: "./promptvault.db",
		},
		Auth: AuthConfig{
			Mode:          guard.ModeLocal,
			SessionSecret: "promptvault-dev-secret",
		},
	}
}
