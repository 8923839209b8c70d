package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override
const EnvPrefix = "VINWIKI"

// Load loads the configuration from the OS file system
func Load(configPath string) (*Config, error) {
	return LoadFs(afero.NewOsFs(), configPath)
}

// LoadFs loads the configuration from fs. An explicit configPath must
// exist; without one the standard locations are searched and a missing
// file leaves defaults and environment overrides in effect.
func LoadFs(fs afero.Fs, configPath string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)

	setDefaults(v)
	bindEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".vinwiki"))
		}
		v.AddConfigPath("/etc/vinwiki/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("vinwiki.base_url", "https://rest.vinwiki.com/")
	v.SetDefault("vinwiki.timeout", 20*time.Second)
	v.SetDefault("vinwiki.user_agent", "vinwiki-go")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// bindEnv maps VINWIKI_USERNAME style variables onto the vinwiki section
// and VINWIKI_LOGGING_LEVEL style variables onto everything else.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{"base_url", "username", "password", "timeout", "user_agent"} {
		_ = v.BindEnv("vinwiki."+key, EnvPrefix+"_"+strings.ToUpper(key))
	}
}

// validate checks the configuration and reports every problem at once
func validate(cfg *Config) error {
	var result *multierror.Error

	if cfg.VINwiki.BaseURL == "" {
		result = multierror.Append(result, fmt.Errorf("vinwiki.base_url is required"))
	} else if u, err := url.Parse(cfg.VINwiki.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		result = multierror.Append(result, fmt.Errorf("vinwiki.base_url must be an http or https URL: %s", cfg.VINwiki.BaseURL))
	}

	if (cfg.VINwiki.Username == "") != (cfg.VINwiki.Password == "") {
		result = multierror.Append(result, fmt.Errorf("vinwiki.username and vinwiki.password must be set together"))
	}

	if cfg.VINwiki.Timeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("vinwiki.timeout must be positive, got %s", cfg.VINwiki.Timeout))
	}

	for name, expression := range cfg.Filters {
		if strings.TrimSpace(expression) == "" {
			result = multierror.Append(result, fmt.Errorf("filters.%s has an empty expression", name))
		}
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		result = multierror.Append(result, fmt.Errorf("invalid logging level: %s", cfg.Logging.Level))
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		result = multierror.Append(result, fmt.Errorf("invalid logging format: %s", cfg.Logging.Format))
	}

	return result.ErrorOrNil()
}
