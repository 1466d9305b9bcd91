package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For splitting the origin list

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort        string   // Application port
	StoreFile      string   // Path of the JSON document store
	JWTSecret      string   // JWT secret key
	RedisAddr      string   // Redis server address, empty disables caching
	RedisPass      string   // Redis password
	RedisDB        int      // Redis database number
	AllowedOrigins []string // CORS origin allow-list
	IsProd         bool     // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:        getEnv("APP_PORT", "5000"),     // Application port
		StoreFile:      getEnv("STORE_FILE", "db.json"), // Store document path
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret"),
		RedisAddr:      os.Getenv("REDIS_ADDR"), // Empty means no cache
		RedisPass:      os.Getenv("REDIS_PASS"),
		RedisDB:        redisDB,
		AllowedOrigins: splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		IsProd:         os.Getenv("IS_PROD") == "true", // Is production environment
	}
}

// getEnv returns the environment variable value or a fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// splitOrigins splits a comma separated origin list, trimming whitespace
func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
