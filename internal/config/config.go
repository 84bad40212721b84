// Package config loads configuration from environment variables and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ListenAddr string
	DBPath     string
	JWTSecret  string
	UploadDir  string
	BcryptCost int
	LogLevel   string
	LogJSON    bool
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present.
func Load() (*Config, error) {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr: getEnv("REWEAR_ADDR", ":8080"),
		DBPath:     getEnv("REWEAR_DB", "rewear.sqlite3"),
		JWTSecret:  os.Getenv("REWEAR_JWT_SECRET"),
		UploadDir:  getEnv("REWEAR_UPLOAD_DIR", "uploads"),
		BcryptCost: getEnvInt("REWEAR_BCRYPT_COST", 10),
		LogLevel:   getEnv("REWEAR_LOG_LEVEL", "info"),
		LogJSON:    getEnvBool("REWEAR_LOG_JSON", false),
	}

	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, fmt.Errorf("invalid REWEAR_BCRYPT_COST: %d", cfg.BcryptCost)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
