package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type Config struct {
	Port            string        `mapstructure:"PORT" validate:"required,numeric"`
	Env             string        `mapstructure:"ENV" validate:"oneof=development production test"`
	LogLevel        string        `mapstructure:"LOG_LEVEL" validate:"required"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	BodyLimit       string        `mapstructure:"BODY_LIMIT" validate:"required"`
}

var keys = []string{
	"PORT",
	"ENV",
	"LOG_LEVEL",
	"REQUEST_TIMEOUT",
	"SHUTDOWN_TIMEOUT",
	"BODY_LIMIT",
}

// Load reads configuration from the environment and an optional .env file in
// the working directory. Environment variables win.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("BODY_LIMIT", "1M")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	// A missing .env is fine.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks struct constraints and that LOG_LEVEL names a zerolog level.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid config: LOG_LEVEL: %w", err)
	}
	return nil
}

// Level returns the configured zerolog level, defaulting to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
