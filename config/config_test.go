package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.JWT.ConfirmationTTL)
	assert.Equal(t, time.Hour, cfg.JWT.SessionTTL)
	assert.Equal(t, "jobboard", cfg.Mongo.Database)
	assert.False(t, cfg.AuditEnabled())
	assert.Empty(t, cfg.ES.Addrs)
	assert.Empty(t, cfg.TrustedProxies)
	assert.Empty(t, cfg.TrustedPlatform)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JWT_SESSION_TTL", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("ELASTICSEARCH_ADDRS", "http://es:9200")
	t.Setenv("DB_HOST", "pg")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.JWT.SessionTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, []string{"http://es:9200"}, cfg.ES.Addrs)
	assert.Equal(t, []string{"10.0.0.0/8", "172.16.0.1"}, cfg.TrustedProxies)
	assert.True(t, cfg.AuditEnabled())
	assert.Equal(t, "postgres://app:secret@pg:5432/jobboard?sslmode=disable", cfg.PostgresDSN())
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("JWT_SESSION_TTL", "soon")

	_, err := Load()
	assert.Error(t, err)
}
