// Copyright (c) 2026 Keymaster Team
// Apppass - application password manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads Apppass settings from defaults, the apppass.yaml file,
// APPPASS_* environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configName = "apppass"
	envPrefix  = "apppass"
)

// Config is the complete, typed configuration.
type Config struct {
	Vault     VaultConfig     `mapstructure:"vault" yaml:"vault"`
	Generator GeneratorConfig `mapstructure:"generator" yaml:"generator"`
	OTP       OTPConfig       `mapstructure:"otp" yaml:"otp"`
	Lock      LockConfig      `mapstructure:"lock" yaml:"lock"`
	Clipboard ClipboardConfig `mapstructure:"clipboard" yaml:"clipboard"`
	Language  string          `mapstructure:"language" yaml:"language"`
}

type VaultConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	DBType  string `mapstructure:"db_type" yaml:"db_type"`
	DSN     string `mapstructure:"dsn" yaml:"dsn"`
}

type GeneratorConfig struct {
	DefaultLength int `mapstructure:"default_length" yaml:"default_length"`
}

// OTPConfig durations are whole seconds.
type OTPConfig struct {
	DefaultTTL int `mapstructure:"default_ttl" yaml:"default_ttl"`
}

// LockConfig.Timeout is the idle time in seconds before the UI locks;
// 0 disables auto-lock.
type LockConfig struct {
	Timeout int `mapstructure:"timeout" yaml:"timeout"`
}

type ClipboardConfig struct {
	Timeout int `mapstructure:"timeout" yaml:"timeout"`
}

// Defaults returns the built-in value for every key.
func Defaults() map[string]any {
	return map[string]any{
		"vault.backend":            "keyring",
		"vault.db_type":            "sqlite",
		"vault.dsn":                "",
		"generator.default_length": 30,
		"otp.default_ttl":          300,
		"lock.timeout":             300,
		"clipboard.timeout":        30,
		"language":                 "en",
	}
}

// Validate rejects values the rest of the program cannot work with.
func (c Config) Validate() error {
	var errs []error
	switch c.Vault.Backend {
	case "keyring", "sql", "memory":
	default:
		errs = append(errs, fmt.Errorf("vault.backend: unknown backend %q", c.Vault.Backend))
	}
	switch c.Vault.DBType {
	case "sqlite", "postgres", "mysql":
	default:
		errs = append(errs, fmt.Errorf("vault.db_type: unknown database type %q", c.Vault.DBType))
	}
	if c.Generator.DefaultLength < 1 || c.Generator.DefaultLength > 4096 {
		errs = append(errs, fmt.Errorf("generator.default_length: %d is not between 1 and 4096", c.Generator.DefaultLength))
	}
	if c.OTP.DefaultTTL < 1 {
		errs = append(errs, fmt.Errorf("otp.default_ttl: must be positive, got %d", c.OTP.DefaultTTL))
	}
	if c.Lock.Timeout < 0 {
		errs = append(errs, fmt.Errorf("lock.timeout: must not be negative, got %d", c.Lock.Timeout))
	}
	if c.Clipboard.Timeout < 0 {
		errs = append(errs, fmt.Errorf("clipboard.timeout: must not be negative, got %d", c.Clipboard.Timeout))
	}
	return errors.Join(errs...)
}

func (c Config) OTPTTL() time.Duration { return time.Duration(c.OTP.DefaultTTL) * time.Second }
func (c Config) LockTimeout() time.Duration { return time.Duration(c.Lock.Timeout) * time.Second }
func (c Config) ClipboardTimeout() time.Duration { return time.Duration(c.Clipboard.Timeout) * time.Second }

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Apppass")
		default: // Linux, macOS, etc.
			configDir = "/etc/apppass"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "apppass")
	}

	return filepath.Join(configDir, configName+".yaml"), nil
}

// LoadConfig builds a T from defaults, the config file, the environment and
// the flags of cmd. flagBindings maps config keys to flag names; a bound flag
// only overrides the key when it was set on the command line.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFile *string, flagBindings map[string]string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName(configName)
	v.SetConfigType("yaml")

	// An explicit --config path has the highest precedence for file-based
	// configuration and must exist.
	if configFile != nil && *configFile != "" {
		v.SetConfigFile(*configFile)
	}

	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		for key, name := range flagBindings {
			f := cmd.Flags().Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return c, err
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("failed to parse config: %w", err)
	}
	return c, nil
}

// WriteConfigFile writes c as YAML to the user or system config path and
// returns that path.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}
	return path, WriteConfigFileTo(c, path)
}

// WriteConfigFileTo writes c as YAML to path with mode 0600.
func WriteConfigFileTo[T any](c *T, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the file may carry a database DSN with credentials.
	return os.WriteFile(path, data, 0o600)
}
