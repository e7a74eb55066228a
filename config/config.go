package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI  string
	MongoDB   string
	RedisAddr string
	HTTPPort  string

	JWTSecret     string
	OwnerAccounts map[string]string // username -> bcrypt hash
	OwnerUsername string
	OwnerPassword string

	FormCacheTTL  time.Duration
	SessionTTL    time.Duration
	SubmitLockTTL time.Duration

	WorkerConcurrency int

	CORSAllowedOrigins string
	LogLevel           string
	LogFormat          string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "formsmith"),
		RedisAddr: strings.TrimPrefix(getEnv("REDIS_ADDR", "localhost:6379"), "redis://"),
		HTTPPort:  getEnv("HTTP_PORT", "8080"),

		JWTSecret:     getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		OwnerAccounts: parseAccounts(os.Getenv("OWNER_ACCOUNTS")),
		OwnerUsername: getEnv("OWNER_USERNAME", "admin"),
		OwnerPassword: getEnv("OWNER_PASSWORD", "password123"),

		FormCacheTTL:  getDuration("FORM_CACHE_TTL", 5*time.Minute),
		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),
		SubmitLockTTL: getDuration("SUBMIT_LOCK_TTL", 30*time.Second),

		WorkerConcurrency: getInt("WORKER_CONCURRENCY", 10),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

// parseAccounts reads "alice:$2a$10$...;bob:$2a$10$..." pairs.
func parseAccounts(raw string) map[string]string {
	accounts := make(map[string]string)
	for _, pair := range strings.Split(raw, ";") {
		user, hash, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || user == "" || hash == "" {
			continue
		}
		accounts[user] = hash
	}
	return accounts
}
