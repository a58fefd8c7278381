// Package config loads the demail CLI configuration: a set of mail
// accounts, each with IMAP and SMTP connection settings, from a JSON
// file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// EnvConfigPath is the env var pointing at the config file when the
// --config flag is not given.
const EnvConfigPath = "DEMAIL_CONFIG"

// ProtocolSettings holds connection settings common to IMAP and SMTP.
type ProtocolSettings struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password,omitempty"`

	// SSL enables implicit TLS (connect directly over TLS).
	SSL bool `json:"ssl"`
	// StartTLS enables opportunistic TLS upgrade after connecting in plaintext.
	StartTLS bool `json:"starttls"`
}

// AccountConfig holds one mail account.
type AccountConfig struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	FromName string `json:"from_name,omitempty"`

	IMAP ProtocolSettings `json:"imap"`
	SMTP ProtocolSettings `json:"smtp"`
}

// Config holds the application configuration: accounts keyed by name,
// plus the account selected when none is specified.
type Config struct {
	Accounts       map[string]AccountConfig `json:"accounts"`
	DefaultAccount string                   `json:"default_account,omitempty"`
}

// Load reads configuration from the given path; an empty path falls back
// to the DEMAIL_CONFIG env var.
func Load(path string) (*Config, error) {
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigPath))
		if path == "" {
			return nil, fmt.Errorf("no config file given and %s is not set", EnvConfigPath)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetAccount returns an account by name or email. An empty identifier
// selects the default account, falling back to the first account name in
// sorted order.
func (c *Config) GetAccount(identifier string) (*AccountConfig, error) {
	if len(c.Accounts) == 0 {
		return nil, fmt.Errorf("no accounts configured")
	}

	if identifier == "" {
		if c.DefaultAccount != "" {
			identifier = c.DefaultAccount
		} else {
			keys := make([]string, 0, len(c.Accounts))
			for k := range c.Accounts {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			identifier = keys[0]
		}
	}

	if acc, ok := c.Accounts[identifier]; ok {
		if acc.Name == "" {
			acc.Name = identifier
		}
		return &acc, nil
	}

	for name, acc := range c.Accounts {
		if acc.Name == identifier || acc.Email == identifier {
			if acc.Name == "" {
				acc.Name = name
			}
			return &acc, nil
		}
	}

	return nil, fmt.Errorf("account not found: %s", identifier)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if len(c.Accounts) == 0 {
		return fmt.Errorf("no accounts configured")
	}

	for name, acc := range c.Accounts {
		if acc.Name == "" {
			acc.Name = name
		}
		if acc.Email == "" {
			return fmt.Errorf("account %s: email is required", acc.Name)
		}
		if acc.IMAP.Host == "" && acc.SMTP.Host == "" {
			return fmt.Errorf("account %s: at least one of IMAP or SMTP must be configured", acc.Name)
		}
	}

	if c.DefaultAccount != "" {
		if _, ok := c.Accounts[c.DefaultAccount]; !ok {
			return fmt.Errorf("default_account not found: %s", c.DefaultAccount)
		}
	}
	return nil
}
