// Package config loads the server configuration from a YAML file or the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// AppName is the application name.
	AppName = "taskflow"

	// DefaultPath is the configuration file read when --config is not given.
	DefaultPath = "config.yaml"
)

// HTTPConfig holds the HTTP server settings.
type HTTPConfig struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":5000"`
	Timeout         time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"5s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

// DatabaseConfig holds the task store settings.
type DatabaseConfig struct {
	// Path is a SQLite file path or DSN.
	Path string `yaml:"path" env:"DB_PATH" env-default:"taskflow.db"`
}

// SessionConfig holds the session cookie settings.
type SessionConfig struct {
	Expiration   time.Duration `yaml:"expiration" env:"SESSION_EXPIRATION" env-default:"24h"`
	CookieSecure bool          `yaml:"cookie_secure" env:"SESSION_COOKIE_SECURE" env-default:"false"`

	// RedisURL selects Redis session storage. Empty keeps sessions in memory.
	RedisURL string `yaml:"redis_url" env:"SESSION_REDIS_URL"`
}

// OAuthConfig holds the Google OAuth client settings.
// Credentials come either from ClientFile (the JSON downloaded from the
// Google Cloud console) or from ClientID and ClientSecret.
type OAuthConfig struct {
	ClientFile   string `yaml:"client_file" env:"GOOGLE_OAUTH_CLIENT_FILE"`
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `yaml:"redirect_url" env:"GOOGLE_REDIRECT_URL" env-default:"http://localhost:5000/auth/google/callback"`
}

// ChatConfig holds the chat assistant settings.
type ChatConfig struct {
	Delay time.Duration `yaml:"delay" env:"CHAT_DELAY" env-default:"1s"`
}

// Config holds the complete server configuration.
type Config struct {
	LogLevel    string         `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
	FrontendURL string         `yaml:"frontend_url" env:"FRONTEND_URL" env-default:"http://localhost:5173"`
	HTTP        HTTPConfig     `yaml:"http"`
	Database    DatabaseConfig `yaml:"database"`
	Session     SessionConfig  `yaml:"session"`
	OAuth       OAuthConfig    `yaml:"oauth"`
	Chat        ChatConfig     `yaml:"chat"`

	// Debug forces debug logging. Set from the --debug flag.
	Debug bool `yaml:"-"`
}

// Load reads the configuration from path.
// If path is empty or the file does not exist, only the environment is read.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read env: %w", err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return nil, fmt.Errorf("cannot read config %q: %w", path, err)
		}
		// No file: fall back to the environment
		cfg = Config{}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read env: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.OAuth.ClientFile == "" && (c.OAuth.ClientID == "" || c.OAuth.ClientSecret == "") {
		return errors.New("google oauth credentials missing: set oauth.client_file or oauth.client_id and oauth.client_secret")
	}
	if c.OAuth.ClientFile != "" && !c.HasOAuthClient() {
		return fmt.Errorf("oauth client file not found: %s", c.OAuth.ClientFile)
	}
	if c.FrontendURL == "" {
		return errors.New("frontend_url is required")
	}
	// Credentialed CORS needs a concrete origin
	if c.FrontendURL == "*" {
		return errors.New("frontend_url must be a single origin, not *")
	}
	return nil
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	if c.OAuth.ClientFile == "" {
		return false
	}
	_, err := os.Stat(c.OAuth.ClientFile)
	return err == nil
}

// UsesRedisSessions reports whether sessions are kept in Redis.
func (c *Config) UsesRedisSessions() bool {
	return c.Session.RedisURL != ""
}
