package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultAccessTokenExpiryMin  = 15
	DefaultRefreshTokenExpiryMin = 1440
	DefaultRotateThresholdMin    = 5
	DefaultMaxFailedLogins       = 5
	DefaultLockDurationMin       = 15
)

type Config struct {
	Env                string
	Port               string
	DBURL              string
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessExpiryMin    int
	RefreshExpiryMin   int
	RotateThresholdMin int
	MaxFailedLogins    int
	LockDurationMin    int
}

// Load reads config/.env.<env> if present, then the process environment.
// DB_URL, ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required.
func Load() (*Config, error) {
	env := getEnv("ENV", "development")
	loadEnvFile(env)

	cfg := &Config{
		Env:                env,
		Port:               getEnv("PORT", "8080"),
		DBURL:              os.Getenv("DB_URL"),
		AccessTokenSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		AccessExpiryMin:    getEnvAsInt("ACCESS_TOKEN_EXPIRY", DefaultAccessTokenExpiryMin),
		RefreshExpiryMin:   getEnvAsInt("REFRESH_TOKEN_EXPIRY", DefaultRefreshTokenExpiryMin),
		RotateThresholdMin: getEnvAsInt("ROTATE_THRESHOLD_MIN", DefaultRotateThresholdMin),
		MaxFailedLogins:    getEnvAsInt("MAX_FAILED_LOGINS", DefaultMaxFailedLogins),
		LockDurationMin:    getEnvAsInt("LOCK_DURATION_MIN", DefaultLockDurationMin),
	}

	for key, val := range map[string]string{
		"DB_URL":               cfg.DBURL,
		"ACCESS_TOKEN_SECRET":  cfg.AccessTokenSecret,
		"REFRESH_TOKEN_SECRET": cfg.RefreshTokenSecret,
	} {
		if val == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", key)
		}
	}

	return cfg, nil
}

func loadEnvFile(env string) {
	suffix := "dev"
	if env == "production" {
		suffix = "prod"
	}
	// Absence of the file is fine; env vars may carry everything.
	_ = godotenv.Load(filepath.Join("config", ".env."+suffix))
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
