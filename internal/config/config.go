package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes is the access token lifetime in minutes.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// RefreshTokenLifetimeMinutes is the refresh token lifetime in minutes.
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`

	// BcryptCost is the cost parameter for password hashing.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	// OpenRouterAPIKey is the bearer credential for the upstream
	// chat-completions endpoint. Its absence is a configuration error and
	// is detected before any network attempt.
	OpenRouterAPIKey string `mapstructure:"openrouter_api_key" validate:"required"`

	// BaseURL is the upstream endpoint root. Defaults to the OpenRouter API.
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// DefaultModel is used when a generation request does not name a model.
	DefaultModel string `mapstructure:"default_model" validate:"required"`

	// TimeoutSeconds bounds a single generation call end to end.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"required,gt=0"`

	// MaxOutputTokens is the completion token budget forwarded upstream.
	MaxOutputTokens int `mapstructure:"max_output_tokens" validate:"required,gt=0"`
}
