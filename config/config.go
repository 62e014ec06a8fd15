package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Recommender RecommenderConfig
	Session     SessionConfig
	Fixtures    FixturesConfig
	RateLimit   RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RecommenderConfig holds recommendation webhook configuration
type RecommenderConfig struct {
	WebhookURL string        `mapstructure:"webhook_url"`
	UserID     string        `mapstructure:"user_id"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// SessionConfig holds session store configuration
type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// FixturesConfig holds fixture data service configuration
type FixturesConfig struct {
	// SimulatedLatency mimics the network delay of a real backend so the
	// mobile app's loading states stay exercised during development
	SimulatedLatency time.Duration `mapstructure:"simulated_latency"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Recommender int `mapstructure:"recommender"` // requests per hour
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/scancook/")

	// Environment variable settings
	v.SetEnvPrefix("SCANCOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*", "capacitor://*"})

	// Recommender defaults: local webhook endpoint during development
	v.SetDefault("recommender.webhook_url", "http://localhost:5678/webhook/scancook")
	v.SetDefault("recommender.user_id", "scancook-app")
	v.SetDefault("recommender.timeout", "30s")

	// Session defaults
	v.SetDefault("session.ttl", "2h")

	// Fixture defaults
	v.SetDefault("fixtures.simulated_latency", "800ms")

	// Rate limit defaults
	v.SetDefault("ratelimit.recommender", 1000)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Recommender.WebhookURL == "" {
		return fmt.Errorf("recommender webhook URL is required (set SCANCOOK_RECOMMENDER_WEBHOOK_URL)")
	}

	if config.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive, got: %s", config.Session.TTL)
	}

	if config.Fixtures.SimulatedLatency < 0 {
		return fmt.Errorf("simulated latency cannot be negative, got: %s", config.Fixtures.SimulatedLatency)
	}

	return nil
}
