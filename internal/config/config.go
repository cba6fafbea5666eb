package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Server struct {
		Port            string
		GinMode         string
		Environment     string
		BaseURL         string
		ShutdownTimeout time.Duration
	}

	Log struct {
		Level string
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}

	Session struct {
		Secret     string
		CookieName string
		TTL        time.Duration
	}

	// Storage configures the object store used for event exports.
	// An empty Endpoint disables exports.
	Storage struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
		URLTTL    time.Duration
	}

	Recommender struct {
		BaseURL string
		Timeout time.Duration
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "huddle")
	config.DB.Password = getEnv("DB_PASSWORD", "huddle_password")
	config.DB.Name = getEnv("DB_NAME", "huddle_db")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")
	config.Server.Environment = getEnv("APP_ENV", "development")
	config.Server.BaseURL = strings.TrimRight(getEnv("BASE_URL", getEnv("FRONTEND_URL", "http://localhost:3000")), "/")
	config.Server.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second)

	config.Log.Level = getEnv("LOG_LEVEL", "info")

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PATCH,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type")

	config.Session.Secret = getEnv("SESSION_SECRET", "change-me-in-production")
	config.Session.CookieName = getEnv("SESSION_COOKIE_NAME", "session_id")
	config.Session.TTL = getEnvAsDuration("SESSION_TTL", 30*24*time.Hour)

	config.Storage.Endpoint = getEnv("MINIO_ENDPOINT", "")
	config.Storage.AccessKey = getEnv("MINIO_ACCESS_KEY", "")
	config.Storage.SecretKey = getEnv("MINIO_SECRET_KEY", "")
	config.Storage.Bucket = getEnv("MINIO_BUCKET", "huddle-exports")
	config.Storage.UseSSL = getEnvAsBool("MINIO_USE_SSL", false)
	config.Storage.URLTTL = getEnvAsDuration("EXPORT_URL_TTL", 24*time.Hour)

	config.Recommender.BaseURL = strings.TrimRight(getEnv("RECOMMENDER_URL", ""), "/")
	config.Recommender.Timeout = getEnvAsDuration("RECOMMENDER_TIMEOUT", 15*time.Second)

	return config
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// ShareURL builds the public link for an event share token
func (c *Config) ShareURL(shareToken string) string {
	return c.Server.BaseURL + "/event/" + shareToken
}

// SplitList splits a comma separated setting, dropping empty entries
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64 gets an environment variable as int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration strings ("30s") or a plain number of seconds
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds := getEnvAsInt64(key, -1); seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
