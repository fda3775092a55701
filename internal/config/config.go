// Package config loads the settings of the catbuffer command: defaults, an optional
// file, CATBUFFER_ environment variables and command line flags, in rising priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Vladimir7280/catbuffer-typescript-sub001/model"
)

// EnvPrefix is the prefix of environment overrides, e.g. CATBUFFER_LOG_LEVEL.
const EnvPrefix = "CATBUFFER"

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Output OutputConfig `mapstructure:"output"`
	Schema SchemaConfig `mapstructure:"schema"`
	// Network is the default network for address derivation.
	Network string `mapstructure:"network"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type OutputConfig struct {
	// Format is json or yaml.
	Format string `mapstructure:"format"`
	Indent int    `mapstructure:"indent"`
}

type SchemaConfig struct {
	// Files are extra YAML tables loaded after the built-in one.
	Files []string `mapstructure:"files"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.development", false)
	v.SetDefault("output.format", "json")
	v.SetDefault("output.indent", 2)
	v.SetDefault("schema.files", []string{})
	v.SetDefault("network", "testnet")
}

// New returns a viper instance with defaults and environment support, ready for
// flags to be bound before Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional file at path into v and returns the validated settings.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch c.Output.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("%w: output.format %q is not json or yaml", ErrInvalidConfig, c.Output.Format)
	}
	if c.Output.Indent < 0 || c.Output.Indent > 8 {
		return fmt.Errorf("%w: output.indent %d is outside 0..8", ErrInvalidConfig, c.Output.Indent)
	}
	if _, err := c.NetworkType(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// NetworkType resolves the configured network name.
func (c *Config) NetworkType() (model.NetworkType, error) {
	return model.ParseNetworkType(c.Network)
}

func (c LogConfig) level() (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return l, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Level)
	}
	return l, nil
}

// Logger builds a logger writing to stderr at the configured level.
func (c LogConfig) Logger() (*zap.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
