package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port           string
	DatabaseURL    string
	RedisURI       string
	RedisPassword  string
	RedisDB        int
	JWTSecret      string
	TokenTTL       time.Duration
	LogLevel       string
	MigrationsPath string
	GinMode        string
}

// LoadEnv loads a .env file into the process environment when one exists.
func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("No .env file found, using environment variables")
	}
}

func GetEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

// Load builds a Config from environment variables. DATABASE_URL and
// JWT_SECRET are required.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           GetEnv("PORT", "8080"),
		RedisURI:       GetEnv("REDIS_URI", "localhost:6379"),
		RedisPassword:  GetEnv("REDIS_PASSWORD", ""),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
		MigrationsPath: GetEnv("MIGRATIONS_PATH", "migrations"),
		GinMode:        GetEnv("GIN_MODE", "release"),
	}

	if cfg.DatabaseURL = os.Getenv("DATABASE_URL"); cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret = os.Getenv("JWT_SECRET"); cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	db, err := strconv.Atoi(GetEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = db

	ttl, err := time.ParseDuration(GetEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive, got %s", ttl)
	}
	cfg.TokenTTL = ttl

	return cfg, nil
}
