// Package config loads the ambient settings shared by every skill binary.
//
// Settings come from an optional stepkit.yaml, STEPKIT_* environment
// variables and command-line flags, in increasing order of precedence. None
// of them changes what a skill computes; they only tune logging, tracing and
// safety limits.
package config

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "STEPKIT"
	ConfigFileName = "stepkit"

	DefaultMaxInputBytes = 10 << 20
	DefaultMaxDepth      = 64
	DefaultArgEnvPrefix  = "BOPS_ARG_"
)

// Config holds the process-level settings of a skill run
type Config struct {
	LogLevel      string        `mapstructure:"log_level" json:"log_level" yaml:"log_level"`
	LogFormat     string        `mapstructure:"log_format" json:"log_format" yaml:"log_format"`
	MaxInputBytes int64         `mapstructure:"max_input_bytes" json:"max_input_bytes" yaml:"max_input_bytes"`
	MaxDepth      int           `mapstructure:"max_depth" json:"max_depth" yaml:"max_depth"`
	ArgEnvPrefix  string        `mapstructure:"arg_env_prefix" json:"arg_env_prefix" yaml:"arg_env_prefix"`
	Tracing       TracingConfig `mapstructure:"tracing" json:"tracing" yaml:"tracing"`

	Profile  string                    `mapstructure:"profile" json:"profile,omitempty" yaml:"profile,omitempty"`
	Profiles map[string]map[string]any `mapstructure:"profiles" json:"profiles,omitempty" yaml:"profiles,omitempty"`
}

// TracingConfig controls OpenTelemetry export
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	Sampler      string  `mapstructure:"sampler" json:"sampler" yaml:"sampler"`
	SamplerRatio float64 `mapstructure:"sampler_ratio" json:"sampler_ratio" yaml:"sampler_ratio"`
}

// Default returns the baseline configuration
func Default() Config {
	return Config{
		LogLevel:      "warn",
		LogFormat:     "fmt",
		MaxInputBytes: DefaultMaxInputBytes,
		MaxDepth:      DefaultMaxDepth,
		ArgEnvPrefix:  DefaultArgEnvPrefix,
		Tracing: TracingConfig{
			Enabled:      false,
			Sampler:      "always",
			SamplerRatio: 1,
		},
	}
}

// NewViper returns a viper instance wired for stepkit: environment variables
// with the STEPKIT_ prefix, an optional stepkit.yaml and the defaults above.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.stepkit")
	v.AddConfigPath(".")

	SetDefaults(v)
	return v
}

// SetDefaults registers every default so that AutomaticEnv can see the keys
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("max_input_bytes", d.MaxInputBytes)
	v.SetDefault("max_depth", d.MaxDepth)
	v.SetDefault("arg_env_prefix", d.ArgEnvPrefix)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.sampler", d.Tracing.Sampler)
	v.SetDefault("tracing.sampler_ratio", d.Tracing.SamplerRatio)
	v.SetDefault("profile", "")
}

// Load reads the config file (if any), applies the active profile and
// validates the result. On error the returned Config is still usable: it
// holds whatever could be decoded on top of the defaults.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, errors.Wrap(err, "failed to read config file")
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Default(), errors.Wrap(err, "failed to unmarshal configuration")
	}

	if name := activeProfile(cfg.Profile); name != "" {
		profile, ok := cfg.Profiles[name]
		if !ok {
			return cfg, errors.Errorf("profile %q is not defined", name)
		}
		if err := applyProfile(&cfg, profile); err != nil {
			return cfg, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func activeProfile(name string) string {
	name = strings.TrimSpace(name)
	if name == "default" {
		return ""
	}
	return name
}

func applyProfile(cfg *Config, profile map[string]any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ZeroFields:       false,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create profile decoder")
	}

	if err := decoder.Decode(profile); err != nil {
		return errors.Wrap(err, "failed to apply profile configuration")
	}
	return nil
}

// Validate reports every invalid setting at once
func (c Config) Validate() error {
	var result *multierror.Error

	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		result = multierror.Append(result, errors.Errorf("invalid log_level %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "fmt", "text", "json":
	default:
		result = multierror.Append(result, errors.Errorf("invalid log_format %q", c.LogFormat))
	}

	if c.MaxInputBytes <= 0 {
		result = multierror.Append(result, errors.Errorf("max_input_bytes must be positive, got %d", c.MaxInputBytes))
	}
	if c.MaxDepth <= 0 {
		result = multierror.Append(result, errors.Errorf("max_depth must be positive, got %d", c.MaxDepth))
	}

	switch c.Tracing.Sampler {
	case "always", "never":
	case "ratio":
		if c.Tracing.SamplerRatio < 0 || c.Tracing.SamplerRatio > 1 {
			result = multierror.Append(result, errors.Errorf("tracing.sampler_ratio must be within [0, 1], got %v", c.Tracing.SamplerRatio))
		}
	default:
		result = multierror.Append(result, errors.Errorf("invalid tracing.sampler %q", c.Tracing.Sampler))
	}

	return result.ErrorOrNil()
}
