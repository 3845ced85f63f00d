// Package config provides configuration management for the islet dispatch
// core using Viper for flexible loading from files, environment variables,
// and command-line flags.
//
// Configuration supports YAML files (.islet.yml by default), environment
// variable overrides with the ISLET_ prefix, and validation of the renderer
// integration entries that drive registry setup.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	isleterrors "github.com/conneroisu/islet/internal/errors"
	"github.com/conneroisu/islet/internal/pathfilter"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Logging     LoggingConfig     `yaml:"logging"`
	Renderers   []RendererConfig  `yaml:"renderers"`
	Development DevelopmentConfig `yaml:"development"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RendererConfig is the per-integration filter configuration captured at
// setup time. Include/Exclude entries are doublestar globs, or regular
// expressions when wrapped in slashes.
type RendererConfig struct {
	Name             string   `yaml:"name" mapstructure:"name"`
	ClientEntrypoint string   `yaml:"client_entrypoint" mapstructure:"client_entrypoint"`
	Include          []string `yaml:"include" mapstructure:"include"`
	Exclude          []string `yaml:"exclude" mapstructure:"exclude"`
	Extensions       []string `yaml:"extensions" mapstructure:"extensions"`
}

type DevelopmentConfig struct {
	LiveReload     bool `yaml:"live_reload" mapstructure:"live_reload"`
	ValidateMarkup bool `yaml:"validate_markup" mapstructure:"validate_markup"`
}

// Load builds the configuration from whatever sources viper has been
// initialized with.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Workarounds for viper's handling of values set programmatically
	// rather than through the config file.
	if viper.IsSet("server.port") && config.Server.Port == 0 {
		config.Server.Port = viper.GetInt("server.port")
	}
	if viper.IsSet("development.live_reload") {
		config.Development.LiveReload = viper.GetBool("development.live_reload")
	}
	if viper.IsSet("development.validate_markup") {
		config.Development.ValidateMarkup = viper.GetBool("development.validate_markup")
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Port == 0 {
		config.Server.Port = 4321
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "text"
	}
}

// Validate checks the loaded configuration for setup-time errors. Renderer
// entries with empty or duplicate names and unparseable filter patterns
// abort startup here rather than failing at render time.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return isleterrors.NewConfigError(fmt.Sprintf("server port %d out of range", c.Server.Port))
	}

	seen := make(map[string]bool, len(c.Renderers))
	for _, rc := range c.Renderers {
		if rc.Name == "" {
			return isleterrors.NewConfigError("renderer entry has empty name")
		}
		if seen[rc.Name] {
			return isleterrors.NewConfigError("duplicate renderer entry: " + rc.Name)
		}
		seen[rc.Name] = true

		for _, pattern := range append(append([]string{}, rc.Include...), rc.Exclude...) {
			if _, err := pathfilter.Parse(pattern); err != nil {
				return isleterrors.NewConfigError(
					fmt.Sprintf("renderer %s: invalid filter pattern %q: %v", rc.Name, pattern, err))
			}
		}
	}

	return nil
}

// Filter compiles the renderer entry's include/exclude patterns into a
// matcher, or nil when the entry has no patterns at all (an absent filter
// never gates the probe loop).
func (rc *RendererConfig) Filter() (*pathfilter.Matcher, error) {
	if len(rc.Include) == 0 && len(rc.Exclude) == 0 {
		return nil, nil
	}

	parse := func(patterns []string) ([]pathfilter.Pattern, error) {
		out := make([]pathfilter.Pattern, 0, len(patterns))
		for _, s := range patterns {
			p, err := pathfilter.Parse(s)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		return out, nil
	}

	include, err := parse(rc.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := parse(rc.Exclude)
	if err != nil {
		return nil, err
	}

	return pathfilter.New(include, exclude), nil
}

// RendererByName returns the renderer entry with the given name, if present.
func (c *Config) RendererByName(name string) (*RendererConfig, bool) {
	for i := range c.Renderers {
		if c.Renderers[i].Name == name {
			return &c.Renderers[i], true
		}
	}

	return nil, false
}
