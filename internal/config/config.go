package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Remote API
	APIBaseURL string
	APIToken   string

	// Local surface auth
	LocalJWTSecret string

	// Local store
	StorePath string
	RedisURL  string // optional; overrides the file store when set

	// Polling
	PollInterval     time.Duration
	JobTimeout       time.Duration
	VerifyDelay      time.Duration
	VerifyRetryDelay time.Duration

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:             getEnvOrDefault("PORT", "8090"),
		Env:              getEnvOrDefault("ENV", "development"),
		APIBaseURL:       mustGetEnv("MEMODECK_API_URL"),
		APIToken:         getEnvOrDefault("MEMODECK_API_TOKEN", ""),
		LocalJWTSecret:   mustGetEnv("LOCAL_JWT_SECRET"),
		StorePath:        getEnvOrDefault("STORE_PATH", "./data/memodeck.json"),
		RedisURL:         getEnvOrDefault("REDIS_URL", ""),
		PollInterval:     getEnvAsSecondsOrDefault("POLL_INTERVAL_SECONDS", 2),
		JobTimeout:       getEnvAsSecondsOrDefault("JOB_TIMEOUT_SECONDS", 300),
		VerifyDelay:      getEnvAsSecondsOrDefault("VERIFY_DELAY_SECONDS", 1),
		VerifyRetryDelay: getEnvAsSecondsOrDefault("VERIFY_RETRY_DELAY_SECONDS", 2),
		FrontendURL:      getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsSecondsOrDefault(key string, defaultSeconds int) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return time.Duration(defaultSeconds) * time.Second
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return time.Duration(defaultSeconds) * time.Second
	}
	return time.Duration(n) * time.Second
}
