package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int
	DatabasePath   string
	SecretKey      string
	JWTSecretKey   string
	AllowedOrigins []string
	LogLevel       zerolog.Level
	Production     bool
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	secret := getEnv("SECRET_KEY", "dev")

	return &Config{
		ServerPort:     port,
		DatabasePath:   getEnv("DATABASE_PATH", "./todolist.sqlite"),
		SecretKey:      secret,
		JWTSecretKey:   getEnv("JWT_SECRET_KEY", secret), // shares the app secret unless set
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:       level,
		Production:     strings.EqualFold(os.Getenv("APP_ENV"), "production"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
