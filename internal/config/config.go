package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Image    ImageConfig    `mapstructure:"image" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains the text-generation transport settings. Provider
// selects which platform package backs the generation pipeline.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider" validate:"required,oneof=bedrock gemini openai"`
	ModelID     string  `mapstructure:"model_id" validate:"required"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Region      string  `mapstructure:"region"`
	MaxTokens   int     `mapstructure:"max_tokens" validate:"required,gt=0"`
	Temperature float64 `mapstructure:"temperature" validate:"gte=0,lte=1"`
}

// ImageConfig contains the image-generation transport and file store
// settings for the infographic path.
type ImageConfig struct {
	ModelID         string `mapstructure:"model_id"`
	Region          string `mapstructure:"region"`
	PublicDir       string `mapstructure:"public_dir" validate:"required"`
	PlaceholderPath string `mapstructure:"placeholder_path" validate:"required"`
}
