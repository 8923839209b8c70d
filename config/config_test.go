package config

import (
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigPath = "/etc/vinwiki/config.yaml"

func writeConfig(t *testing.T, fs afero.Fs, path, body string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(body), 0o600))
}

func TestLoadDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()

	cfg, err := LoadFs(fs, "")
	require.NoError(t, err)

	assert.Equal(t, "https://rest.vinwiki.com/", cfg.VINwiki.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.VINwiki.Timeout)
	assert.Equal(t, "vinwiki-go", cfg.VINwiki.UserAgent)
	assert.False(t, cfg.VINwiki.HasCredentials())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.Logging.Color)
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, testConfigPath, `
vinwiki:
  base_url: http://localhost:8080/
  username: doug
  password: hunter2
  timeout: 5s
filters:
  high_miles: Mileage > 150000
  service: isType("service")
logging:
  level: debug
  format: json
  color: false
`)

	for _, path := range []string{testConfigPath, ""} {
		cfg, err := LoadFs(fs, path)
		require.NoError(t, err, "path %q", path)

		assert.Equal(t, "http://localhost:8080/", cfg.VINwiki.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.VINwiki.Timeout)
		assert.True(t, cfg.VINwiki.HasCredentials())
		assert.Equal(t, "Mileage > 150000", cfg.Filters["high_miles"])
		assert.Len(t, cfg.Filters, 2)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.False(t, cfg.Logging.Color)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := LoadFs(afero.NewMemMapFs(), "/nowhere/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config")
}

func TestLoadEnvOverrides(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeConfig(t, fs, testConfigPath, `
vinwiki:
  username: from-file
  password: from-file
`)

	t.Setenv("VINWIKI_USERNAME", "from-env")
	t.Setenv("VINWIKI_PASSWORD", "secret")
	t.Setenv("VINWIKI_TIMEOUT", "45s")
	t.Setenv("VINWIKI_LOGGING_LEVEL", "warn")

	cfg, err := LoadFs(fs, testConfigPath)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.VINwiki.Username)
	assert.Equal(t, "secret", cfg.VINwiki.Password)
	assert.Equal(t, 45*time.Second, cfg.VINwiki.Timeout)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			VINwiki: VINwikiConfig{
				BaseURL:  "https://rest.vinwiki.com/",
				Username: "doug",
				Password: "hunter2",
				Timeout:  20 * time.Second,
			},
			Logging: LoggingConfig{Level: "info", Format: "console"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "no credentials", mutate: func(c *Config) { c.VINwiki.Username, c.VINwiki.Password = "", "" }},
		{name: "missing base URL", mutate: func(c *Config) { c.VINwiki.BaseURL = "" }, wantErr: "vinwiki.base_url is required"},
		{name: "bad base URL", mutate: func(c *Config) { c.VINwiki.BaseURL = "ftp://x" }, wantErr: "http or https URL"},
		{name: "password without username", mutate: func(c *Config) { c.VINwiki.Username = "" }, wantErr: "set together"},
		{name: "zero timeout", mutate: func(c *Config) { c.VINwiki.Timeout = 0 }, wantErr: "timeout must be positive"},
		{name: "empty filter", mutate: func(c *Config) { c.Filters = FilterConfig{"blank": " "} }, wantErr: "filters.blank"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "invalid logging level: loud"},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "invalid logging format: xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := &Config{
		VINwiki: VINwikiConfig{Username: "doug"},
		Logging: LoggingConfig{Level: "loud", Format: "xml"},
	}

	err := validate(cfg)
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 5)
}
