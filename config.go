package twitchirc

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvCapabilities = "CAPABILITIES"
	EnvChannel      = "BROADCASTER"
	EnvUsername     = "BOTNAME"
	EnvToken        = "TOKEN"
)

// Config holds the values needed to log in and join a channel.
//
// Capabilities is the space separated list sent with CAP REQ, for example
// "twitch.tv/tags twitch.tv/commands". Token is sent verbatim with PASS, so it
// usually starts with "oauth:".
type Config struct {
	Capabilities string `toml:"capabilities"`
	Channel      string `toml:"channel"`
	Username     string `toml:"username"`
	Token        string `toml:"token"`
}

// Validate returns a *ConfigError naming every empty field.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Capabilities) == "" {
		missing = append(missing, "capabilities")
	}
	if strings.TrimSpace(c.Channel) == "" {
		missing = append(missing, "channel")
	}
	if strings.TrimSpace(c.Username) == "" {
		missing = append(missing, "username")
	}
	if strings.TrimSpace(c.Token) == "" {
		missing = append(missing, "token")
	}
	if len(missing) > 0 {
		return &ConfigError{Fields: missing}
	}
	return nil
}

// ConfigFromEnv reads the configuration from the environment and validates it.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig decodes a TOML file. Non-empty environment variables take
// precedence over values from the file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("twitchirc: load config %s: %w", path, err)
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvCapabilities); v != "" {
		cfg.Capabilities = v
	}
	if v := os.Getenv(EnvChannel); v != "" {
		cfg.Channel = v
	}
	if v := os.Getenv(EnvUsername); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		cfg.Token = v
	}
}
