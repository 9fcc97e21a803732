package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DatabaseURL        string
	AppEnv             string
	BaseURL            string
	LogLevel           string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	JWTSecret          string
	AdminURL           string
	AllowedEmails      []string
	UploadDir          string
	GeoAPIBaseURL      string
	GeoTimeout         time.Duration
	GACredentialsJSON  string
	GA4PropertyID      string
}

func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", "file:db.sqlite"),
		AppEnv:             getEnv("APP_ENV", "local"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback"),
		JWTSecret:          getEnv("JWT_SECRET", "secret"),
		AdminURL:           getEnv("ADMIN_URL", "http://localhost:8080/admin"),
		AllowedEmails:      splitList(getEnv("ALLOWED_EMAILS", "")),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		GeoAPIBaseURL:      getEnv("GEO_API_BASE_URL", "http://ip-api.com/json"),
		GeoTimeout:         getDuration("GEO_TIMEOUT", time.Second),
		GACredentialsJSON:  getEnv("GOOGLE_APPLICATION_CREDENTIALS_JSON", ""),
		GA4PropertyID:      getEnv("GA4_PROPERTY_ID", ""),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
