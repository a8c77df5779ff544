package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MEDIA_USE_SSL", "true")
	t.Setenv("MEDIA_FOLDER", "/hr/leave/")
	t.Setenv("MEDIA_PUBLIC_URL", "https://cdn.example.com/")
	t.Setenv("TZ_LOCATION", "UTC")
	t.Setenv("APP_HOST", "leave.example.com")

	cfg := Load()

	assert.Equal(t, "leave.example.com", cfg.AppHost)
	assert.Equal(t, "leavedocs", cfg.Database.ApplicationName)
	assert.Equal(t, 60, cfg.Database.ConnMaxIdleTimeSec)
	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Media.UseSSL)
	assert.Equal(t, "hr/leave", cfg.Media.Folder)
	assert.Equal(t, "https://cdn.example.com", cfg.Media.PublicURL)
	assert.Equal(t, 3600, cfg.Media.SignatureTTLSec)
	assert.False(t, cfg.Media.CleanupOnPersistFailure)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestValidate(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		cfg := &AppConfig{
			Database: DatabaseConfig{Host: "h", User: "u", Name: "n"},
			Media: MediaConfig{
				Endpoint:  "localhost:9000",
				CloudName: "leave-docs",
				APIKey:    "key",
				APISecret: "secret",
				Folder:    "leave-management",
			},
			Auth: AuthConfig{JWTSecret: "jwt"},
		}
		require.NoError(t, cfg.Validate())
	})

	t.Run("missing media credentials", func(t *testing.T) {
		cfg := &AppConfig{
			Database: DatabaseConfig{Host: "h", User: "u", Name: "n"},
			Media:    MediaConfig{Endpoint: "localhost:9000", Folder: "f"},
			Auth:     AuthConfig{JWTSecret: "jwt"},
		}
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MEDIA_CLOUD_NAME is required")
		assert.Contains(t, err.Error(), "MEDIA_API_KEY is required")
		assert.Contains(t, err.Error(), "MEDIA_API_SECRET is required")
		assert.NotContains(t, err.Error(), "DB_HOST")
	})
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvLocation(t *testing.T) {
	key := "TEST_LOCATION_VAR"

	t.Setenv(key, "not/a-zone")
	assert.Equal(t, time.UTC, getEnvLocation(key, time.UTC))

	t.Setenv(key, "")
	assert.Equal(t, time.UTC, getEnvLocation(key, time.UTC))
}
