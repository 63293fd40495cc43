package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	// APIBaseURL is the root of the external REST backend (no trailing slash).
	APIBaseURL string `json:"api_base_url" mapstructure:"api_base_url"`

	// Bind and Port control where `folio serve` listens.
	Bind string `json:"bind" mapstructure:"bind"`
	Port int    `json:"port" mapstructure:"port"`

	// DefaultAuthor pre-fills the author field of new posts.
	DefaultAuthor string `json:"default_author" mapstructure:"default_author"`

	// AdminListPath is the backend path listing every post, hidden ones included.
	AdminListPath string `json:"admin_list_path" mapstructure:"admin_list_path"`

	// TogglePath is the backend path flipping a post's visibility; "{id}" is substituted.
	TogglePath string `json:"toggle_path" mapstructure:"toggle_path"`

	// RequestTimeoutSeconds bounds backend calls. 0 means no timeout.
	RequestTimeoutSeconds int `json:"request_timeout_seconds,omitempty" mapstructure:"request_timeout_seconds"`

	// LoginRatePerMinute limits admin login attempts across the whole server.
	LoginRatePerMinute int `json:"login_rate_per_minute" mapstructure:"login_rate_per_minute"`

	// LogFile is the rotated JSON log file. Empty disables file logging.
	LogFile string `json:"log_file,omitempty" mapstructure:"log_file"`

	// LogDev switches the console encoder to the human-readable development format.
	LogDev bool `json:"log_dev,omitempty" mapstructure:"log_dev"`

	// DevAPIPort is where `folio devapi` listens.
	DevAPIPort int `json:"devapi_port" mapstructure:"devapi_port"`

	// DevAPIUsername and DevAPIPassword seed the stand-in backend's admin account.
	DevAPIUsername string `json:"devapi_username" mapstructure:"devapi_username"`
	DevAPIPassword string `json:"devapi_password,omitempty" mapstructure:"devapi_password"`

	// DevAPIJWTSecret signs tokens issued by the stand-in backend.
	DevAPIJWTSecret string `json:"devapi_jwt_secret,omitempty" mapstructure:"devapi_jwt_secret"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty" mapstructure:"disabled_tools"`
}

// envKeys are the keys that may be overridden from FOLIO_* environment variables.
var envKeys = []string{
	"api_base_url", "bind", "port", "default_author",
	"admin_list_path", "toggle_path", "request_timeout_seconds",
	"login_rate_per_minute", "log_file", "log_dev",
	"devapi_port", "devapi_username", "devapi_password", "devapi_jwt_secret",
	"disabled_tools",
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:         "http://localhost:5000/api",
		Bind:               "127.0.0.1",
		Port:               8080,
		DefaultAuthor:      "Peter",
		AdminListPath:      "/blogs/admin/all",
		TogglePath:         "/blogs/{id}/toggle-visibility",
		LoginRatePerMinute: 10,
		DevAPIPort:         5000,
		DevAPIUsername:     "admin",
		DevAPIPassword:     "password123",
		DevAPIJWTSecret:    "folio-dev-secret",
	}
}

// RequestTimeout returns the backend call timeout; zero means none.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Addr returns the bind:port listen address for the web server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

// String renders the config with secrets masked.
func (c *Config) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "api_base_url: %s\n", c.APIBaseURL)
	fmt.Fprintf(&sb, "listen: %s\n", c.Addr())
	fmt.Fprintf(&sb, "default_author: %s\n", c.DefaultAuthor)
	fmt.Fprintf(&sb, "admin_list_path: %s\n", c.AdminListPath)
	fmt.Fprintf(&sb, "toggle_path: %s\n", c.TogglePath)
	fmt.Fprintf(&sb, "devapi_port: %d\n", c.DevAPIPort)
	if c.DevAPIPassword != "" {
		sb.WriteString("devapi_password: ********\n")
	} else {
		sb.WriteString("devapi_password: (empty)\n")
	}
	return sb.String()
}

// Load loads configuration from baseDir/config.json and then applies
// environment overrides. Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.folio.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	env, err := LoadFromEnv()
	if err != nil {
		return nil, err
	}
	return Merge(cfg, env), nil
}

// LoadFromEnv reads FOLIO_* variables (and a local .env file if present).
// Unset variables yield zero values so Merge keeps the file/default value.
func LoadFromEnv() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("folio")
	v.AutomaticEnv()
	for _, k := range envKeys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode env config: %w", err)
	}
	return cfg, nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{
		APIBaseURL:            pickString(overlay.APIBaseURL, base.APIBaseURL),
		Bind:                  pickString(overlay.Bind, base.Bind),
		Port:                  pickInt(overlay.Port, base.Port),
		DefaultAuthor:         pickString(overlay.DefaultAuthor, base.DefaultAuthor),
		AdminListPath:         pickString(overlay.AdminListPath, base.AdminListPath),
		TogglePath:            pickString(overlay.TogglePath, base.TogglePath),
		RequestTimeoutSeconds: pickInt(overlay.RequestTimeoutSeconds, base.RequestTimeoutSeconds),
		LoginRatePerMinute:    pickInt(overlay.LoginRatePerMinute, base.LoginRatePerMinute),
		LogFile:               pickString(overlay.LogFile, base.LogFile),
		DevAPIPort:            pickInt(overlay.DevAPIPort, base.DevAPIPort),
		DevAPIUsername:        pickString(overlay.DevAPIUsername, base.DevAPIUsername),
		DevAPIPassword:        pickString(overlay.DevAPIPassword, base.DevAPIPassword),
		DevAPIJWTSecret:       pickString(overlay.DevAPIJWTSecret, base.DevAPIJWTSecret),
	}

	// Booleans: overlay wins if true, else base
	result.LogDev = base.LogDev || overlay.LogDev

	result.APIBaseURL = strings.TrimRight(result.APIBaseURL, "/")
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func pickString(overlay, base string) string {
	if strings.TrimSpace(overlay) != "" {
		return overlay
	}
	return base
}

func pickInt(overlay, base int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
