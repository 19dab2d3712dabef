package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config file. Environment variables (prefix SLIDESMITH_, nested keys
// joined with underscores, e.g. SLIDESMITH_SERVER_PORT) take precedence
// over file values, which take precedence over defaults.
// Returns a populated Config struct or an error if loading or validation
// fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("SLIDESMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults suffice.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults installs defaults for everything that has a sensible one.
// Secrets (database URL, JWT secret, API keys) deliberately have none.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("auth.token_lifetime_minutes", 360)

	v.SetDefault("llm.provider", "bedrock")
	v.SetDefault("llm.model_id", "anthropic.claude-3-sonnet-20240229-v1:0")
	v.SetDefault("llm.region", "ap-south-1")
	v.SetDefault("llm.max_tokens", 16000)
	v.SetDefault("llm.temperature", 0.7)

	v.SetDefault("image.model_id", "stability.stable-diffusion-xl-v1")
	v.SetDefault("image.region", "ap-south-1")
	v.SetDefault("image.public_dir", "public")
	v.SetDefault("image.placeholder_path", "/public/placeholder-infographic.png")
}
