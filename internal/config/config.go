package config

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Identity  IdentityConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	StaticDir    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// IdentityConfig configures the built-in identity provider: token signing,
// the custom-token/session-token exchange endpoint and an optional external
// OIDC issuer that replaces the local verifier.
type IdentityConfig struct {
	WebAPIKey       string
	TokenSecret     string
	TokenURL        string // exchange endpoint; defaults to the service's own /api/token
	IssuerURL       string
	ClientID        string
	CustomTokenTTL  time.Duration
	SessionTokenTTL time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// serviceAccount mirrors the JSON credential blob supplied via the
// IDENTITY_SERVICE_ACCOUNT environment variable.
type serviceAccount struct {
	WebAPIKey   string `json:"webApiKey"`
	TokenSecret string `json:"tokenSecret"`
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("PORT", "3000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("STATIC_DIR", "../client/dist")
	viper.SetDefault("MONGODB_DATABASE", "spilno")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CUSTOM_TOKEN_TTL", 5)
	viper.SetDefault("SESSION_TOKEN_TTL", 60)
	viper.SetDefault("RATE_LIMIT_RPS", 25)
	viper.SetDefault("RATE_LIMIT_BURST", 50)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	// credential blob first; individual env vars override its fields
	var sa serviceAccount
	if raw := os.Getenv("IDENTITY_SERVICE_ACCOUNT"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &sa); err != nil {
			log.Printf("WARNING: IDENTITY_SERVICE_ACCOUNT is not valid JSON: %v", err)
		}
	}
	if v := os.Getenv("IDENTITY_WEB_API_KEY"); v != "" {
		sa.WebAPIKey = v
	}
	if v := os.Getenv("IDENTITY_TOKEN_SECRET"); v != "" {
		sa.TokenSecret = v
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			StaticDir:    viper.GetString("STATIC_DIR"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Identity: IdentityConfig{
			WebAPIKey:       sa.WebAPIKey,
			TokenSecret:     sa.TokenSecret,
			TokenURL:        viper.GetString("IDENTITY_TOKEN_URL"),
			IssuerURL:       viper.GetString("IDENTITY_ISSUER_URL"),
			ClientID:        viper.GetString("IDENTITY_CLIENT_ID"),
			CustomTokenTTL:  time.Duration(viper.GetInt("CUSTOM_TOKEN_TTL")) * time.Minute,
			SessionTokenTTL: time.Duration(viper.GetInt("SESSION_TOKEN_TTL")) * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	// Basic validation
	if cfg.Identity.TokenSecret == "" {
		log.Println("WARNING: identity token secret is not set; set a secure value in production")
	}

	return cfg, nil
}
