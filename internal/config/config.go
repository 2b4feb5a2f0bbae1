// ABOUTME: Configuration loading and parsing for teams-bridge
// ABOUTME: Supports YAML files with environment variable expansion and validation

package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// DefaultServiceURL is the Bot Framework connector endpoint for the Teams
// public cloud. It is fixed per cloud region and is not computed at runtime.
const DefaultServiceURL = "https://smba.trafficmanager.net/teams/"

// Config represents the complete teams-bridge configuration
type Config struct {
	Channels ChannelsConfig `yaml:"channels"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ChannelsConfig holds configuration for all messaging channels
type ChannelsConfig struct {
	MSTeams MSTeamsConfig `yaml:"msteams"`
}

// MSTeamsConfig holds the Microsoft Teams channel configuration
type MSTeamsConfig struct {
	Enabled     bool   `yaml:"enabled"`
	AppID       string `yaml:"app_id"`
	AppPassword string `yaml:"app_password"`
	TenantID    string `yaml:"tenant_id"`

	// ServiceURL is the connector endpoint used to post activities into
	// existing conversations. Defaults to DefaultServiceURL.
	ServiceURL string `yaml:"service_url"`
}

// DatabaseConfig holds conversation store configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyDefaults fills in values that are fixed per deployment class when the
// config file leaves them out.
func (c *Config) applyDefaults() {
	if c.Channels.MSTeams.ServiceURL == "" {
		c.Channels.MSTeams.ServiceURL = DefaultServiceURL
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	// Credentials are only required when the channel is enabled; a disabled
	// channel may carry an incomplete block.
	if c.Channels.MSTeams.Enabled {
		if c.Channels.MSTeams.AppID == "" {
			return fmt.Errorf("channels.msteams.app_id is required when msteams is enabled")
		}
		if c.Channels.MSTeams.AppPassword == "" {
			return fmt.Errorf("channels.msteams.app_password is required when msteams is enabled")
		}
		if c.Channels.MSTeams.TenantID == "" {
			return fmt.Errorf("channels.msteams.tenant_id is required when msteams is enabled")
		}
	}

	return nil
}
