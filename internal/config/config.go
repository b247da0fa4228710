package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	AllowedOrigins  []string
	RedisAddr       string
	RedisPassword   string
	SnapshotTTL     time.Duration
	JWTSecret       string
	TokenTTL        time.Duration
	CleanupInterval time.Duration
	Preferences     Preferences
}

var AppConfig *Config

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOriginsStr := GetEnv("ALLOWED_ORIGINS", "")

	allowedOrigins := []string{
		frontendURL,
		"http://localhost:5173", // Local development
	}
	if allowedOriginsStr != "" {
		extras := strings.Split(allowedOriginsStr, ",")
		for _, origin := range extras {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	// Snapshot persistence
	redisAddr := GetEnv("REDIS_URL", "localhost:6379")
	redisPassword := GetEnv("REDIS_PASSWORD", "")
	snapshotTTLHours := GetEnvAsInt("SNAPSHOT_TTL_HOURS", 48)

	// Security
	jwtSecret := GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production")
	tokenTTLHours := GetEnvAsInt("GAME_TOKEN_TTL_HOURS", 24)

	cleanupIntervalMin := GetEnvAsInt("CLEANUP_INTERVAL_MINUTES", 10)

	preferences := LoadPreferences(GetEnv("PREFERENCES_FILE", "shiftago.yaml"))

	AppConfig = &Config{
		Port:            port,
		AllowedOrigins:  allowedOrigins,
		RedisAddr:       redisAddr,
		RedisPassword:   redisPassword,
		SnapshotTTL:     time.Duration(snapshotTTLHours) * time.Hour,
		JWTSecret:       jwtSecret,
		TokenTTL:        time.Duration(tokenTTLHours) * time.Hour,
		CleanupInterval: time.Duration(cleanupIntervalMin) * time.Minute,
		Preferences:     preferences,
	}

	return AppConfig
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
