// Package config loads service configuration from a YAML file via viper.
//
// Configuration is read once at process start; there is no runtime reload.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the service configuration.
type Config struct {
	AppName     string
	RunMode     string
	Host        string
	Port        int
	Domain      string
	CORSOrigins []string
	Auth        *Auth
	Logger      *Logger
	Data        *Data
}

// LoadConfig loads the configuration from the given file, or from the default
// search paths when the path is empty.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		ex, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Dir(ex))
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{
		AppName:     v.GetString("app_name"),
		RunMode:     v.GetString("run_mode"),
		Host:        v.GetString("server.host"),
		Port:        v.GetInt("server.port"),
		Domain:      v.GetString("server.domain"),
		CORSOrigins: v.GetStringSlice("server.cors_origins"),
		Auth:        getAuth(v),
		Logger:      getLoggerConfig(v),
		Data:        getDataConfig(v),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects fatal misconfiguration.
func (c *Config) validate() error {
	if c.Auth == nil || c.Auth.JWT == nil || c.Auth.JWT.Secret == "" {
		return errors.New("auth.jwt.secret is required")
	}
	return nil
}

// IsProd reports whether the service runs in release mode.
func (c *Config) IsProd() bool {
	return c.RunMode == "release" || c.RunMode == "prod"
}
