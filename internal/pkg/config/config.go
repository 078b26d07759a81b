package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	API       APIConfig       `mapstructure:"api"`
	Store     StoreConfig     `mapstructure:"store"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Map       MapConfig       `mapstructure:"map"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port               int    `mapstructure:"port"`
	ReadTimeout        int    `mapstructure:"read_timeout"`
	WriteTimeout       int    `mapstructure:"write_timeout"`
	AllowOrigins       string `mapstructure:"allow_origins"`
	RateLimitPerMinute int    `mapstructure:"rate_limit_per_minute"`
	OpenAPIPath        string `mapstructure:"openapi_path"`
}

// APIConfig points at the remote places/auth backend. A zero timeout means
// calls wait for as long as the backend takes.
type APIConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// StoreConfig selects where saved places live: "remote" (the backend API)
// or "local" (postgres).
type StoreConfig struct {
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr   string `mapstructure:"addr"`
	Prefix string `mapstructure:"prefix"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type MapConfig struct {
	AnimationMS     int     `mapstructure:"animation_ms"`
	FrameIntervalMS int     `mapstructure:"frame_interval_ms"`
	DefaultLat      float64 `mapstructure:"default_lat"`
	DefaultLng      float64 `mapstructure:"default_lng"`
	DefaultRadius   float64 `mapstructure:"default_radius"`
	MaxViews        int     `mapstructure:"max_views"`
}

type CacheConfig struct {
	SearchTTLSeconds int `mapstructure:"search_ttl_seconds"`
}

// AuthConfig holds the secret used to verify tokens in local store mode.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	StoreRemote = "remote"
	StoreLocal  = "local"
)

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.allow_origins", "http://localhost:3000, http://localhost:5173")
	v.SetDefault("server.rate_limit_per_minute", 120)
	v.SetDefault("server.openapi_path", "api/openapi.yaml")
	v.SetDefault("api.base_url", "http://localhost:8070")
	v.SetDefault("api.timeout_seconds", 0)
	v.SetDefault("api.rate_limit_rps", 10.0)
	v.SetDefault("api.rate_limit_burst", 20)
	v.SetDefault("store.mode", StoreRemote)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "placemap")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "placemap")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.prefix", "placemap:")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "localhost:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("map.animation_ms", 500)
	v.SetDefault("map.frame_interval_ms", 16)
	v.SetDefault("map.default_lat", 38.4237)
	v.SetDefault("map.default_lng", 27.1428)
	v.SetDefault("map.default_radius", 1500.0)
	v.SetDefault("map.max_views", 1000)
	v.SetDefault("cache.search_ttl_seconds", 300)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: PLACEMAP_API_BASE_URL → api.base_url
	v.SetEnvPrefix("PLACEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Server.RateLimitPerMinute < 0 {
		errs = append(errs, "server.rate_limit_per_minute must not be negative")
	}
	if c.API.BaseURL == "" {
		errs = append(errs, "api.base_url is required")
	}
	if c.API.TimeoutSeconds < 0 {
		errs = append(errs, "api.timeout_seconds must not be negative")
	}
	if c.API.RateLimitRPS <= 0 {
		errs = append(errs, "api.rate_limit_rps must be positive")
	}
	if c.API.RateLimitBurst <= 0 {
		errs = append(errs, "api.rate_limit_burst must be positive")
	}

	switch c.Store.Mode {
	case StoreRemote:
	case StoreLocal:
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required in local store mode")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required in local store mode")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required in local store mode")
		}
		if c.Auth.JWTSecret == "" {
			errs = append(errs, "auth.jwt_secret is required in local store mode")
		}
	default:
		errs = append(errs, fmt.Sprintf("store.mode must be %q or %q, got %q", StoreRemote, StoreLocal, c.Store.Mode))
	}

	if c.Map.AnimationMS <= 0 {
		errs = append(errs, "map.animation_ms must be positive")
	}
	if c.Map.FrameIntervalMS <= 0 {
		errs = append(errs, "map.frame_interval_ms must be positive")
	}
	if c.Map.DefaultRadius <= 0 {
		errs = append(errs, "map.default_radius must be positive")
	}
	if c.Map.DefaultLat < -90 || c.Map.DefaultLat > 90 || c.Map.DefaultLng < -180 || c.Map.DefaultLng > 180 {
		errs = append(errs, "map.default_lat/default_lng out of range")
	}
	if c.Map.MaxViews <= 0 {
		errs = append(errs, "map.max_views must be positive")
	}
	if c.Cache.SearchTTLSeconds < 0 {
		errs = append(errs, "cache.search_ttl_seconds must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
