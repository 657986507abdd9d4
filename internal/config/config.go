// Package config loads and saves the llconan CLI configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/goplus/llconan/internal/env"
	"github.com/goplus/llconan/pkgs/directive"
	"github.com/goplus/llconan/x/conan"
)

// FileName is the configuration file name inside env.ConfigDir.
const FileName = "config.yaml"

// EnvPrefix prefixes environment overrides, e.g. LLCONAN_PROFILE.
const EnvPrefix = "LLCONAN"

// Config holds defaults for CLI flags.
type Config struct {
	Profile      string   `mapstructure:"profile" yaml:"profile"`
	BuildProfile string   `mapstructure:"build_profile" yaml:"build_profile"`
	Remote       string   `mapstructure:"remote" yaml:"remote"`
	BuildPolicy  string   `mapstructure:"build_policy" yaml:"build_policy"`
	Options      []string `mapstructure:"options" yaml:"options"`
	Format       string   `mapstructure:"format" yaml:"format"`
	LogLevel     string   `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BuildPolicy: conan.BuildMissing.String(),
		Options:     []string{},
		Format:      string(directive.FormatCargo),
		LogLevel:    log.InfoLevel.String(),
	}
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := env.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the configuration at path, or at Path() when path is empty.
// A missing file yields the defaults. LLCONAN_* variables override file
// values.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = Path(); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	def := Default()
	v.SetDefault("profile", def.Profile)
	v.SetDefault("build_profile", def.BuildProfile)
	v.SetDefault("remote", def.Remote)
	v.SetDefault("build_policy", def.BuildPolicy)
	v.SetDefault("options", def.Options)
	v.SetDefault("format", def.Format)
	v.SetDefault("log_level", def.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the enumerated fields.
func (c *Config) Validate() error {
	if _, err := conan.ParseBuildPolicy(c.BuildPolicy); err != nil {
		return err
	}
	if _, err := directive.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Save writes cfg to path, or to Path() when path is empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		if path, err = Path(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
