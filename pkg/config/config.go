// Package config provides the account configuration for pullreq.
// It is loaded once at startup from a YAML file and PULLREQ_* environment
// variables, with precedence: CLI flags > environment > config file > defaults.
// The resulting Config is read-only for the rest of the invocation.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	prerrors "github.com/holon-run/pullreq/pkg/errors"
)

const (
	// AppName names the configuration directory.
	AppName = "pullreq"
	// ConfigFile is the name of the configuration file.
	ConfigFile = "config.yaml"
	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "PULLREQ"
	// PathEnv overrides the configuration file location.
	PathEnv = "PULLREQ_CONFIG"
	// TokenEnv is the fallback environment variable for the OAuth token.
	TokenEnv = "GITHUB_TOKEN"

	// DefaultRemote is the remote used for branch arguments without a remote prefix.
	DefaultRemote = "origin"
	// DefaultLogLevel is the log level when none is configured.
	DefaultLogLevel = "info"
)

// Config is the account configuration shared by all commands.
type Config struct {
	// Login is the GitHub account login. It is also the name of the remote
	// that holds the user's fork when no head branch is given.
	Login string `mapstructure:"login" yaml:"login,omitempty"`

	// Token is the OAuth token sent as a bearer token.
	Token string `mapstructure:"token" yaml:"token,omitempty"`

	// Signature is appended to every pull request body when set.
	Signature string `mapstructure:"signature" yaml:"signature,omitempty"`

	// DefaultRemote is the remote alias for bare branch names.
	DefaultRemote string `mapstructure:"default_remote" yaml:"default_remote,omitempty"`

	// APIURL replaces https://api.<host> when building endpoints (GitHub Enterprise).
	APIURL string `mapstructure:"api_url" yaml:"api_url,omitempty"`

	// LogLevel is the default log level (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level" yaml:"log_level,omitempty"`
}

// DefaultPath returns the configuration file location: $PULLREQ_CONFIG if set,
// otherwise <user config dir>/pullreq/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, AppName, ConfigFile), nil
}

// Load reads the configuration file at path and overlays environment variables.
// An empty path means DefaultPath. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetDefault("default_remote", DefaultRemote)
	v.SetDefault("log_level", DefaultLogLevel)

	for _, key := range []string{"login", "signature", "default_remote", "api_url", "log_level"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	if err := v.BindEnv("token", EnvPrefix+"_TOKEN", TokenEnv); err != nil {
		return nil, fmt.Errorf("failed to bind token: %w", err)
	}

	return read(v, path)
}

// LoadFile reads only the configuration file at path: no environment
// variables, no defaults. It returns what Save last wrote, so callers that
// rewrite the file do not persist values that came from the environment.
func LoadFile(path string) (*Config, error) {
	return read(viper.New(), path)
}

func read(v *viper.Viper, path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	v.SetConfigType("yaml")
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Save writes cfg to path as YAML. The file holds a token, so it is created
// with owner-only permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks that the account login and token are present. It must be
// called before any request is attempted.
func (c *Config) Validate() error {
	if c.Login == "" {
		return &prerrors.PreconditionError{
			Key:  "login",
			Hint: "run 'pullreq setup', set PULLREQ_LOGIN or 'git config --global github.user'",
		}
	}
	if c.Token == "" {
		return &prerrors.PreconditionError{
			Key:  "token",
			Hint: "run 'pullreq setup', set PULLREQ_TOKEN or " + TokenEnv,
		}
	}
	return nil
}

// ResolveString returns the effective value for a string configuration field.
// Precedence: cliValue > configValue > defaultValue.
// Returns the effective value and its source ("cli", "config", or "default").
func ResolveString(cliValue, configValue, defaultValue string) (string, string) {
	if cliValue != "" {
		return cliValue, "cli"
	}
	if configValue != "" {
		return configValue, "config"
	}
	return defaultValue, "default"
}

// ResolveRemote returns the effective default remote and its source.
func (c *Config) ResolveRemote(cliValue string) (string, string) {
	return ResolveString(cliValue, c.DefaultRemote, DefaultRemote)
}

// ResolveLogLevel returns the effective log level and its source.
func (c *Config) ResolveLogLevel(cliValue string) (string, string) {
	return ResolveString(cliValue, c.LogLevel, DefaultLogLevel)
}
