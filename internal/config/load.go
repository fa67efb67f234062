package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config file. Environment variables use the SMARTASK_ prefix with
// underscores for nesting (SMARTASK_DATABASE_URL) and take precedence
// over file values. Returns a validated Config or an error.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("broker.consumer_count", 2)
	v.SetDefault("broker.prefetch", 8)
	v.SetDefault("tasks.wait_poll_interval", "2s")
	v.SetDefault("tasks.orphan_grace_period", "10m")
	v.SetDefault("tasks.orphan_check_interval", "5m")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SMARTASK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind explicitly so env-only settings survive a missing config file.
	for _, key := range []string{
		"server.port", "server.log_level",
		"database.url",
		"broker.url", "broker.consumer_count", "broker.prefetch",
		"tasks.wait_poll_interval", "tasks.orphan_grace_period", "tasks.orphan_check_interval",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
