package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	API      APIConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Log      LogConfig
	Catalog  CatalogConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	AllowedOrigins []string
	CSRFEnabled    bool
	UseHTTPS       bool
	TLSCertFile    string
	TLSKeyFile     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LoginLimit     int
	LoginWindow    time.Duration
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type DatabaseConfig struct {
	URL string // empty keeps sessions in memory
}

type RedisConfig struct {
	Addr     string // empty disables Redis
	Password string
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type LogConfig struct {
	Level string
	File  string
}

type CatalogConfig struct {
	PageSize    int
	ViewTTL     time.Duration
	MaxViews    int
	CacheSize   int
	DetailsWait time.Duration
}

func (c *Config) Release() bool {
	return c.Server.Mode == "release"
}

// Load reads .env when present, then the environment over viper defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,https://localhost:3000")
	v.SetDefault("CSRF_ENABLED", false)
	v.SetDefault("USE_HTTPS", false)
	v.SetDefault("READ_TIMEOUT", 30*time.Second)
	v.SetDefault("WRITE_TIMEOUT", 30*time.Second)
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("LOGIN_RATE_WINDOW", time.Minute)
	v.SetDefault("API_BASE_URL", "http://localhost:4941/api/v1")
	v.SetDefault("API_TIMEOUT", 10*time.Second)
	v.SetDefault("SESSION_TTL", 7*24*time.Hour)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "logs/app.log")
	v.SetDefault("DEFAULT_PAGE_SIZE", 10)
	v.SetDefault("CATALOG_VIEW_TTL", 30*time.Minute)
	v.SetDefault("CATALOG_MAX_VIEWS", 10000)
	v.SetDefault("CACHE_SIZE", 4096)
	v.SetDefault("DETAILS_TIMEOUT", 5*time.Second)
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("APP_PORT"),
			Mode:           v.GetString("GIN_MODE"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
			CSRFEnabled:    v.GetBool("CSRF_ENABLED"),
			UseHTTPS:       v.GetBool("USE_HTTPS"),
			TLSCertFile:    v.GetString("TLS_CERT_FILE"),
			TLSKeyFile:     v.GetString("TLS_KEY_FILE"),
			ReadTimeout:    v.GetDuration("READ_TIMEOUT"),
			WriteTimeout:   v.GetDuration("WRITE_TIMEOUT"),
			LoginLimit:     v.GetInt("LOGIN_RATE_LIMIT"),
			LoginWindow:    v.GetDuration("LOGIN_RATE_WINDOW"),
		},
		API: APIConfig{
			BaseURL: v.GetString("API_BASE_URL"),
			Timeout: v.GetDuration("API_TIMEOUT"),
		},
		Database: DatabaseConfig{URL: v.GetString("DATABASE_URL")},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_URL"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		Session: SessionConfig{
			Secret: v.GetString("APP_SECRET"),
			TTL:    v.GetDuration("SESSION_TTL"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			File:  v.GetString("LOG_FILE"),
		},
		Catalog: CatalogConfig{
			PageSize:    v.GetInt("DEFAULT_PAGE_SIZE"),
			ViewTTL:     v.GetDuration("CATALOG_VIEW_TTL"),
			MaxViews:    v.GetInt("CATALOG_MAX_VIEWS"),
			CacheSize:   v.GetInt("CACHE_SIZE"),
			DetailsWait: v.GetDuration("DETAILS_TIMEOUT"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Session.Secret == "" {
		if c.Release() {
			return errors.New("APP_SECRET must be set in release mode")
		}
		c.Session.Secret = "dev-only-secret"
	}
	if c.Server.UseHTTPS && (c.Server.TLSCertFile == "" || c.Server.TLSKeyFile == "") {
		return errors.New("USE_HTTPS needs TLS_CERT_FILE and TLS_KEY_FILE")
	}
	if c.Catalog.PageSize <= 0 || c.Catalog.PageSize > 100 {
		return errors.New("DEFAULT_PAGE_SIZE must be between 1 and 100")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
