package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/halvard/munin/internal/store"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Vault   VaultConfig       `yaml:"vault"`
	Storage StorageConfig     `yaml:"storage"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
	MCP      MCPConfig  `yaml:"mcp"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Address returns the HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// MCPConfig controls the MCP stdio server.
type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// VaultConfig describes the source document tree and how it is scanned.
type VaultConfig struct {
	Path string `yaml:"path"`
	// Include lists glob patterns for candidate files.
	Include []string `yaml:"include"`
	// Exclude lists glob patterns removed from the candidate set.
	Exclude []string `yaml:"exclude"`
	// MaxFileSize in bytes; larger files are skipped with a recorded error.
	MaxFileSize int64 `yaml:"max_file_size"`
	// ArchiveFolder is excluded from query results unless a query opts in.
	ArchiveFolder string `yaml:"archive_folder"`
	// Workers bounds concurrent file reads during indexing.
	Workers int `yaml:"workers"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.MaxFileSize, validation.Min(int64(0))),
		validation.Field(&c.Workers, validation.Min(0)),
	)
}

// StorageConfig selects and configures the storage backend.
type StorageConfig struct {
	Backend    string `yaml:"backend"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required,
			validation.In(store.BackendSQLite, store.BackendMemory)),
	); err != nil {
		return err
	}
	if c.Backend == store.BackendSQLite && c.SQLitePath == "" {
		return fmt.Errorf("storage: backend is %q but sqlite_path is empty", store.BackendSQLite)
	}
	return nil
}

// AuthConfig holds HTTP authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Enabled: true,
				Port:    8080,
			},
		},
		Vault: VaultConfig{
			Path:          "./vault",
			Include:       []string{"**/*.md"},
			Exclude:       []string{".obsidian/**", ".git/**", ".trash/**"},
			MaxFileSize:   1 << 20,
			ArchiveFolder: "Archive",
		},
		Storage: StorageConfig{
			Backend:    store.BackendSQLite,
			SQLitePath: "./munin.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
