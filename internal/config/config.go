// Package config loads server configuration from an optional YAML file and
// environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config is the top-level server configuration.
type Config struct {
	// DBPath is the directory holding the SQLite database file.
	DBPath string `mapstructure:"db_path"`

	// Port is the preferred listen port.
	Port int `mapstructure:"port"`

	// FallbackPort is tried once when Port is already in use.
	FallbackPort int `mapstructure:"fallback_port"`

	// LogLevel is the minimum logrus level (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`
}

func defaults() *Config {
	return &Config{
		DBPath:       "./data",
		Port:         5000,
		FallbackPort: 5001,
		LogLevel:     "info",
	}
}

// Load reads configuration from the YAML file at path (if it exists) and
// from TASKLINE_* environment variables, which take precedence. A missing
// file is not an error; defaults apply for absent keys.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("db_path", "./data")
	v.SetDefault("port", 5000)
	v.SetDefault("fallback_port", 5001)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("taskline")
	v.AutomaticEnv()
	// AutomaticEnv alone does not cover keys read via Unmarshal.
	for _, key := range []string{"db_path", "port", "fallback_port", "log_level"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(*os.PathError); !ok {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					return nil, fmt.Errorf("reading config %s: %w", path, err)
				}
			}
		}
	}

	cfg := defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.FallbackPort <= 0 || cfg.FallbackPort > 65535 {
		return nil, fmt.Errorf("invalid fallback port: %d", cfg.FallbackPort)
	}

	return cfg, nil
}
