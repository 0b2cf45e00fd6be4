package config

import (
	"fmt"
	"net/url"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string `mapstructure:"PORT"`
	Env              string `mapstructure:"ENV"`
	PredictionAPIURL string `mapstructure:"PREDICTION_API_URL"`
	UpstreamTimeout  int    `mapstructure:"UPSTREAM_TIMEOUT"`
	SchemaCacheTTL   int    `mapstructure:"SCHEMA_CACHE_TTL"`
	TLSEnabled       bool   `mapstructure:"TLS_ENABLED"`
	TLSCertFile      string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile       string `mapstructure:"TLS_KEY_FILE"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("UPSTREAM_TIMEOUT", 15)
	v.SetDefault("SCHEMA_CACHE_TTL", 300)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("PREDICTION_API_URL")
	v.BindEnv("UPSTREAM_TIMEOUT")
	v.BindEnv("SCHEMA_CACHE_TTL")
	v.BindEnv("TLS_ENABLED")
	v.BindEnv("TLS_CERT_FILE")
	v.BindEnv("TLS_KEY_FILE")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.PredictionAPIURL == "" {
		return nil, fmt.Errorf("PREDICTION_API_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	u, err := url.Parse(c.PredictionAPIURL)
	if err != nil {
		return fmt.Errorf("PREDICTION_API_URL is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("PREDICTION_API_URL must be an http or https URL, got %q", c.PredictionAPIURL)
	}

	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must not be negative, got %d", c.UpstreamTimeout)
	}

	// TLS validation: when TLS is enabled, cert and key files must be specified.
	if c.TLSEnabled {
		if c.TLSCertFile == "" {
			return fmt.Errorf("TLS_CERT_FILE is required when TLS_ENABLED is true")
		}
		if c.TLSKeyFile == "" {
			return fmt.Errorf("TLS_KEY_FILE is required when TLS_ENABLED is true")
		}
	}

	return nil
}
