package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration. It is constructed once in main
// and passed into each component that needs it.
type Config struct {
	ServerPort   int
	DatabasePath string

	// JWT settings
	SecretKey                string
	Algorithm                string
	AccessTokenExpireMinutes int

	ProjectName string
	CORSOrigins []string
}

// Load loads configuration from a .env file (if present) and environment
// variables, falling back to defaults.
func Load() (*Config, error) {
	// A missing .env file is not an error; plain env vars still apply.
	_ = godotenv.Load()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	ttlStr := getEnv("ACCESS_TOKEN_EXPIRE_MINUTES", "30")
	ttl, err := strconv.Atoi(ttlStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:               port,
		DatabasePath:             getEnv("DATABASE_PATH", "./formbuilder.db"),
		SecretKey:                getEnv("SECRET_KEY", "default_secret"),
		Algorithm:                getEnv("ALGORITHM", "HS256"),
		AccessTokenExpireMinutes: ttl,
		ProjectName:              getEnv("PROJECT_NAME", "Form Builder API"),
		CORSOrigins:              splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
