package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("APP_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:4941/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 10, cfg.Catalog.PageSize)
	assert.Equal(t, []string{"http://localhost:3000", "https://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.NotEmpty(t, cfg.Session.Secret)
	assert.False(t, cfg.Release())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("DEFAULT_PAGE_SIZE", "25")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CSRF_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, 25, cfg.Catalog.PageSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Server.CSRFEnabled)
}

func TestReleaseNeedsSecret(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("APP_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestHTTPSNeedsCertificates(t *testing.T) {
	t.Setenv("USE_HTTPS", "true")
	t.Setenv("TLS_CERT_FILE", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestPageSizeBounds(t *testing.T) {
	t.Setenv("DEFAULT_PAGE_SIZE", "0")
	_, err := Load()
	assert.Error(t, err)
}
