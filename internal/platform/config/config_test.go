package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "memory")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, int64(10000), cfg.CacheMaxEntries)
	assert.Equal(t, "300-M", cfg.RateLimit)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, insecureJWTSecret, cfg.JWTSecret)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("PGSQL_URL", "postgres://localhost/treasury")
	v.Set("LOG_LEVEL", "debug")
	v.Set("JWT_SECRET", "s3cret")
	v.Set("CACHE_TTL", "30s")
	v.Set("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestFromViper_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{"postgres without url", map[string]any{}},
		{"unknown driver", map[string]any{"STORAGE_DRIVER": "mongo"}},
		{"bad ttl", map[string]any{"STORAGE_DRIVER": "memory", "CACHE_TTL": "soon"}},
		{"bad log level", map[string]any{"STORAGE_DRIVER": "memory", "LOG_LEVEL": "loud"}},
		{"insecure secret in production", map[string]any{"STORAGE_DRIVER": "memory", "IS_PRODUCTION": true}},
		{"non-positive cache size", map[string]any{"STORAGE_DRIVER": "memory", "CACHE_MAX_ENTRIES": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for key, value := range tt.values {
				v.Set(key, value)
			}
			_, err := fromViper(v)
			assert.Error(t, err)
		})
	}
}
