package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	VINwiki VINwikiConfig `mapstructure:"vinwiki"`
	Filters FilterConfig  `mapstructure:"filters"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// VINwikiConfig holds the VINwiki API connection details and credentials
type VINwikiConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Username  string        `mapstructure:"username"`
	Password  string        `mapstructure:"password"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// HasCredentials reports whether a login can be attempted
func (c VINwikiConfig) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// FilterConfig maps saved filter names to expressions
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
