package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_DB", "")
	t.Setenv("REDIS_ADDR", "redis://cache:6379")
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("WORKER_CONCURRENCY", "4")

	cfg := Load()

	assert.Equal(t, "formsmith", cfg.MongoDB)
	assert.Equal(t, "cache:6379", cfg.RedisAddr)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 4, cfg.WorkerConcurrency)
}

func TestParseAccounts(t *testing.T) {
	accounts := parseAccounts("alice:$2a$10$abc; bob:$2a$10$def;broken;:nohash")

	assert.Len(t, accounts, 2)
	assert.Equal(t, "$2a$10$abc", accounts["alice"])
	assert.Equal(t, "$2a$10$def", accounts["bob"])
}
