package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd) //nolint:errcheck

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "sma_session", cfg.Session.CookieName)
	assert.Equal(t, "Asia/Jakarta", cfg.School.Timezone)
	assert.Equal(t, 5*time.Minute, cfg.Recap.CacheTTL)
	assert.Equal(t, 10, cfg.Login.RatePerMinute)
}

func TestLoadFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd) //nolint:errcheck

	t.Setenv("PORT", "9090")
	t.Setenv("RECAP_CACHE_TTL", "90s")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 90*time.Second, cfg.Recap.CacheTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
}

func TestSchoolLocation(t *testing.T) {
	assert.Equal(t, time.UTC, SchoolConfig{}.Location())
	assert.Equal(t, time.UTC, SchoolConfig{Timezone: "Mars/Olympus"}.Location())
}
