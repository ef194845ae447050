package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/blog")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, 60*time.Minute, cfg.JWTExpiresIn)
	assert.Equal(t, "en", cfg.DefaultLocale)
	assert.Equal(t, "go-blog-api", cfg.OTelServiceName)
	assert.Equal(t, "http://localhost:4318", cfg.OTelEndpoint)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db:5432/blog")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_EXPIRES_IN", "24h")
	t.Setenv("DEFAULT_LOCALE", "vi")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, "vi", cfg.DefaultLocale)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost/blog")
	t.Setenv("JWT_SECRET", "")

	_, err = Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadInvalidExpiry(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/blog")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRES_IN", "sixty minutes")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_EXPIRES_IN")
}
