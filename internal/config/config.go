package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"uploadsim/internal/progress"
	"uploadsim/pkg/fileutils"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. UPLOADSIM_SIMULATION_INTERVAL
const EnvPrefix = "UPLOADSIM"

type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Log        LogConfig        `mapstructure:"log"`
	Server     ServerConfig     `mapstructure:"server"`
	S3         S3Config         `mapstructure:"s3"`
}

type SimulationConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	Increment int64         `mapstructure:"increment"`
	// Clamp cuts the width of the last step to 100 percent
	Clamp bool `mapstructure:"clamp"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text, json or logfmt
	File   string `mapstructure:"file"`
}

type ServerConfig struct {
	Address           string        `mapstructure:"address"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type S3Config struct {
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.interval", progress.DefaultInterval)
	v.SetDefault("simulation.increment", progress.DefaultIncrement)
	v.SetDefault("simulation.clamp", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	v.SetDefault("server.address", ":2053")
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("s3.region", "eu-west-1")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.prefix", "")
}

// Load reads the configuration. An explicit path must exist; without one an
// optional uploadsim.{toml,yaml,json} is looked up in the working directory
// and $HOME/.config/uploadsim. Environment variables override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if !fileutils.FileExists(path) {
			return nil, fmt.Errorf("config file '%s' does not exist", path)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("uploadsim")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/uploadsim")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values a run cannot work without
func (c *Config) Validate() error {
	if c.Simulation.Interval <= 0 {
		return fmt.Errorf("simulation.interval must be positive, got %s", c.Simulation.Interval)
	}
	if c.Simulation.Increment <= 0 {
		return fmt.Errorf("simulation.increment must be positive, got %d", c.Simulation.Increment)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log.format must be text, json or logfmt, got %q", c.Log.Format)
	}
	return nil
}
