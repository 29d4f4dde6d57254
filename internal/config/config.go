package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
	// RateLimit is the sustained requests per second allowed per client IP
	// on /api. Zero disables limiting.
	RateLimit float64
	RateBurst int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

// RedisConfig enables the shared page cache when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type TableConfig struct {
	PageSize    int
	MaxPageSize int
	CacheTTL    time.Duration
}

// APIConfig is what the terminal client needs to reach a running service.
type APIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type Config struct {
	Environment string
	LogLevel    string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Redis       RedisConfig
	Table       TableConfig
	API         APIConfig
}

// Load reads the service configuration and fails when the database or the
// token secret is missing.
func Load() (*Config, error) {
	cfg := read()
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadClient reads the configuration for the terminal client. Database and
// auth settings are not required there. Non-zero fields of override win over
// the environment.
func LoadClient(override APIConfig) (*Config, error) {
	cfg := read()
	if override.BaseURL != "" {
		cfg.API.BaseURL = strings.TrimRight(override.BaseURL, "/")
	}
	if override.Token != "" {
		cfg.API.Token = override.Token
	}
	if override.Timeout > 0 {
		cfg.API.Timeout = override.Timeout
	}
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}
	return cfg, nil
}

// LoadAuth reads the configuration for issuing tokens; only the secret is
// required.
func LoadAuth() (*Config, error) {
	cfg := read()
	if cfg.Auth.AccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	return cfg, nil
}

func read() *Config {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		HTTP: HTTPConfig{
			Host:        v.GetString("HTTP_HOST"),
			Port:        v.GetInt("HTTP_PORT"),
			CORSOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
			RateLimit:   v.GetFloat64("API_RATE_LIMIT"),
			RateBurst:   v.GetInt("API_RATE_BURST"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Table: TableConfig{
			PageSize:    v.GetInt("TABLE_PAGE_SIZE"),
			MaxPageSize: v.GetInt("TABLE_MAX_PAGE_SIZE"),
			CacheTTL:    v.GetDuration("CACHE_TTL"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
			Token:   v.GetString("API_TOKEN"),
			Timeout: v.GetDuration("API_TIMEOUT"),
		},
	}

	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if len(cfg.HTTP.CORSOrigins) == 0 {
		cfg.HTTP.CORSOrigins = []string{"*"}
	}
	if cfg.HTTP.RateLimit < 0 {
		cfg.HTTP.RateLimit = 0
	}
	if cfg.HTTP.RateBurst <= 0 {
		cfg.HTTP.RateBurst = 20
	}
	if cfg.Table.PageSize <= 0 {
		cfg.Table.PageSize = 10
	}
	if cfg.Table.MaxPageSize <= 0 {
		cfg.Table.MaxPageSize = 200
	}
	if cfg.Table.PageSize > cfg.Table.MaxPageSize {
		cfg.Table.PageSize = cfg.Table.MaxPageSize
	}
	if cfg.Table.CacheTTL <= 0 {
		cfg.Table.CacheTTL = 30 * time.Second
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = 15 * time.Second
	}
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
