package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
	ConnMaxIdleTimeSec int
	// ApplicationName is reported to Postgres so sessions are identifiable in pg_stat_activity.
	ApplicationName    string
}

// MediaConfig holds the account settings of the external media store.
// CloudName is the bucket that holds every uploaded binary; APIKey and APISecret
// are the S3 access credentials. Folder is the root under which destination
// profiles place their objects.
type MediaConfig struct {
	Endpoint                string
	CloudName               string
	APIKey                  string
	APISecret               string
	Folder                  string
	Region                  string
	UseSSL                  bool
	PublicURL               string
	SignatureTTLSec         int
	CleanupOnPersistFailure bool
}

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	JWTSecret string
}

// HTTPConfig holds transport limits.
type HTTPConfig struct {
	BodyLimitMB int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables once at startup. Sensitive values are not hardcoded.
type AppConfig struct {
	// AppHost is the public host advertised in the API docs when a request has no Host header.
	AppHost  string
	Port     string
	Location *time.Location
	Database DatabaseConfig
	Media    MediaConfig
	Auth     AuthConfig
	HTTP     HTTPConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		Location: getEnvLocation("TZ_LOCATION", time.UTC),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
			ConnMaxIdleTimeSec: getEnvInt("DB_CONN_MAX_IDLE_TIME_SEC", 60),
			ApplicationName:    getEnv("DB_APPLICATION_NAME", "leavedocs"),
		},
		Media: MediaConfig{
			Endpoint:                getEnv("MEDIA_ENDPOINT", ""),
			CloudName:               getEnv("MEDIA_CLOUD_NAME", ""),
			APIKey:                  getEnv("MEDIA_API_KEY", ""),
			APISecret:               getEnv("MEDIA_API_SECRET", ""),
			Folder:                  strings.Trim(getEnv("MEDIA_FOLDER", "leave-management"), "/"),
			Region:                  getEnv("MEDIA_REGION", "us-east-1"),
			UseSSL:                  getEnvBool("MEDIA_USE_SSL", false),
			PublicURL:               strings.TrimRight(getEnv("MEDIA_PUBLIC_URL", ""), "/"),
			SignatureTTLSec:         getEnvInt("MEDIA_SIGNATURE_TTL_SEC", 3600),
			CleanupOnPersistFailure: getEnvBool("MEDIA_CLEANUP_ON_PERSIST_FAILURE", false),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		HTTP: HTTPConfig{
			BodyLimitMB: getEnvInt("UPLOAD_BODY_LIMIT_MB", 55),
		},
	}
}

// Validate reports every required value that is missing so startup can fail fast.
func (c *AppConfig) Validate() error {
	var errs []error
	required := []struct {
		name  string
		value string
	}{
		{"DB_HOST", c.Database.Host},
		{"DB_USER", c.Database.User},
		{"DB_NAME", c.Database.Name},
		{"MEDIA_ENDPOINT", c.Media.Endpoint},
		{"MEDIA_CLOUD_NAME", c.Media.CloudName},
		{"MEDIA_API_KEY", c.Media.APIKey},
		{"MEDIA_API_SECRET", c.Media.APISecret},
		{"MEDIA_FOLDER", c.Media.Folder},
		{"JWT_SECRET", c.Auth.JWTSecret},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.name))
		}
	}
	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvLocation(key string, def *time.Location) *time.Location {
	if v := os.Getenv(key); v != "" {
		loc, err := time.LoadLocation(v)
		if err == nil {
			return loc
		}
	}
	return def
}
