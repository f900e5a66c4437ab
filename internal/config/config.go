package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

const (
	// FileName is the config file searched for in the home directory.
	FileName = ".energy-cli"

	// DefaultBaseURL is the local dev proxy that forwards /api to the backend.
	DefaultBaseURL = "http://localhost:5173/api"
	DefaultTimeout = 10 * time.Second
)

// Env holds defaults taken from the process environment.
type Env struct {
	BaseURL   string        `env:"ENERGY_BASE_URL" envDefault:"http://localhost:5173/api"`
	Timeout   time.Duration `env:"ENERGY_TIMEOUT" envDefault:"10s"`
	LogLevel  string        `env:"ENERGY_LOG_LEVEL" envDefault:"info"`
	LogFormat string        `env:"ENERGY_LOG_FORMAT" envDefault:"text"`
}

// Config is the resolved client configuration.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	LogLevel  string
	LogFormat string
}

// ParseEnv loads Env from environment variables.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// InitConfig points v at the config file and reads it. Environment variables
// are parsed separately by ParseEnv and never reach v, so Save writes back
// only what the file held plus explicit Sets.
// A missing config file is not an error; it is created on the first Save.
func InitConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		// Use config file from the flag.
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}

		// Search config in home directory with name ".energy-cli" (without extension).
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(FileName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Flags are per-invocation overrides from the command line. Empty fields
// are unset.
type Flags struct {
	BaseURL  string
	LogLevel string
}

// Resolve layers flags over the config file over the environment.
func Resolve(v *viper.Viper, e Env, f Flags) Config {
	cfg := Config{
		BaseURL:   e.BaseURL,
		Timeout:   e.Timeout,
		LogLevel:  e.LogLevel,
		LogFormat: e.LogFormat,
	}
	if s := v.GetString("base_url"); v.IsSet("base_url") && s != "" {
		cfg.BaseURL = s
	}
	if d := v.GetDuration("timeout"); v.IsSet("timeout") && d > 0 {
		cfg.Timeout = d
	}
	if s := v.GetString("log_level"); v.IsSet("log_level") && s != "" {
		cfg.LogLevel = s
	}
	if s := v.GetString("log_format"); v.IsSet("log_format") && s != "" {
		cfg.LogFormat = s
	}

	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg
}

// Save writes the current settings, creating the config file when needed.
func Save(v *viper.Viper) error {
	err := v.WriteConfig()
	if err == nil {
		return nil
	}
	// If file doesn't exist, create it
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		if err := v.SafeWriteConfig(); err == nil {
			return nil
		}
	}
	// Fall back to the default path in the home directory
	home, herr := os.UserHomeDir()
	if herr != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return v.WriteConfigAs(filepath.Join(home, FileName+".yaml"))
}
