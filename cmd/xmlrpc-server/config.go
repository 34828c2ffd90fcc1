package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xmlrpc-protocol/xmlrpc-go/pkg/wire"
)

// Config holds the server configuration.
type Config struct {
	// Listen is the address to listen on (e.g., ":8080").
	Listen string `yaml:"listen"`

	// Capabilities controls the accepted value extensions.
	Capabilities CapabilitiesConfig `yaml:"capabilities"`

	// Users lists Basic-Auth accounts. An empty list disables auth.
	Users []UserConfig `yaml:"users"`

	// LogFile is the protocol event log path. Empty disables file logging.
	LogFile string `yaml:"log_file"`

	// MaxRequestSize caps the request body in bytes (0 = default).
	MaxRequestSize int64 `yaml:"max_request_size"`
}

// CapabilitiesConfig mirrors wire.Capabilities in YAML form.
type CapabilitiesConfig struct {
	AllowNil        bool `yaml:"allow_nil"`
	AllowBigInt     bool `yaml:"allow_bigint"`
	MaxNestingDepth int  `yaml:"max_nesting_depth"`
}

// UserConfig is one Basic-Auth account with a bcrypt password hash.
type UserConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Listen: ":8080",
		Capabilities: CapabilitiesConfig{
			MaxNestingDepth: wire.DefaultMaxNestingDepth,
		},
	}
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.Capabilities.MaxNestingDepth < 0 {
		return fmt.Errorf("max_nesting_depth must not be negative")
	}
	for i, u := range c.Users {
		if u.Username == "" {
			return fmt.Errorf("user %d: username must not be empty", i)
		}
		if u.PasswordHash == "" {
			return fmt.Errorf("user %q: password_hash must not be empty", u.Username)
		}
	}
	return nil
}

// Wire returns the wire-level capability set.
func (c *CapabilitiesConfig) Wire() wire.Capabilities {
	return wire.Capabilities{
		AllowNil:        c.AllowNil,
		AllowBigInt:     c.AllowBigInt,
		MaxNestingDepth: c.MaxNestingDepth,
	}
}
