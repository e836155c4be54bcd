package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")

	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "secret", cfg.JWTSecretKey)
	assert.Equal(t, time.Hour, cfg.AccessTokenDuration)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenDuration)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadSize)
	assert.Equal(t, 5*time.Second, cfg.Auth.AdminResolveTimeout)
	assert.False(t, cfg.Auth.AllowSelfElevation)
	assert.Equal(t, "http://localhost:9000", cfg.MinIO.PublicBaseURL)
	assert.Equal(t, "http://localhost:8080", cfg.SiteURL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("AUTH_ADMIN_RESOLVE_TIMEOUT", "250ms")
	t.Setenv("AUTH_ALLOW_SELF_ELEVATION", "true")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MINIO_ENDPOINT", "cdn.example.com")
	t.Setenv("ANALYTICS_EVENT_RATE", "0.5")
	t.Setenv("SITE_URL", "https://hub.example.com")

	cfg := LoadConfig()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 250*time.Millisecond, cfg.Auth.AdminResolveTimeout)
	assert.True(t, cfg.Auth.AllowSelfElevation)
	assert.Equal(t, "https://cdn.example.com", cfg.MinIO.PublicBaseURL)
	assert.Equal(t, 0.5, cfg.Analytics.EventRate)
	assert.Equal(t, "https://hub.example.com", cfg.SiteURL)
}

func TestParseDuration_Fallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("7d", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("-1s", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}

func TestParseMaxUploadSize(t *testing.T) {
	assert.Equal(t, int64(2048), parseMaxUploadSize("2048"))
	assert.Equal(t, int64(10*1024*1024), parseMaxUploadSize("abc"))
	assert.Equal(t, int64(10*1024*1024), parseMaxUploadSize("0"))
}
