package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port             string
	IsProduction     bool
	UpstreamBaseURL  string
	UpstreamTimeout  time.Duration
	UpstreamRetryMax int
	AssetBaseURL     string
	JWTSecret        string
	JWTIssuer        string
	RateLimit        string
	StagingDir       string
	CacheSize        int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("UPSTREAM_BASE_URL", "")
	viper.SetDefault("UPSTREAM_TIMEOUT", "30s")
	viper.SetDefault("UPSTREAM_RETRY_MAX", 3)
	viper.SetDefault("ASSET_BASE_URL", "")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "record-console-app")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("STAGING_DIR", "")
	viper.SetDefault("CACHE_SIZE", 512)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.UpstreamBaseURL = viper.GetString("UPSTREAM_BASE_URL")
	if cfg.UpstreamBaseURL == "" {
		log.Println("Warning: UPSTREAM_BASE_URL environment variable not set. Collaborator calls will fail.")
	}

	upstreamTimeoutStr := viper.GetString("UPSTREAM_TIMEOUT")
	upstreamTimeout, err := time.ParseDuration(upstreamTimeoutStr)
	if err != nil {
		upstreamTimeout = 30 * time.Second
		if upstreamTimeoutStr != "" {
			log.Printf("Warning: Invalid value for UPSTREAM_TIMEOUT ('%s'). Defaulting to %s.\n", upstreamTimeoutStr, upstreamTimeout.String())
		}
	}
	cfg.UpstreamTimeout = upstreamTimeout

	cfg.UpstreamRetryMax = viper.GetInt("UPSTREAM_RETRY_MAX")

	cfg.AssetBaseURL = viper.GetString("ASSET_BASE_URL")
	if cfg.AssetBaseURL == "" {
		cfg.AssetBaseURL = cfg.UpstreamBaseURL
		log.Println("Warning: ASSET_BASE_URL not set. Falling back to UPSTREAM_BASE_URL for asset uploads.")
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "record-console-app"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.StagingDir = viper.GetString("STAGING_DIR")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.CacheSize = viper.GetInt("CACHE_SIZE")

	return cfg, nil
}
