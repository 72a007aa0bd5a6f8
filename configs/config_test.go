package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")

	cfg := LoadConfig()

	assert.Equal(t, 3004, cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 10501, cfg.DBPort)
	assert.Equal(t, 6379, cfg.RedisPort)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 15*time.Minute, cfg.OrphanGrace)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("TOKEN_TTL", "90s")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("REDIS_HOST", "cache.internal")

	cfg := LoadConfig()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, 90*time.Second, cfg.TokenTTL)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.Equal(t, "cache.internal", cfg.RedisHost)
}
