package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const envPrefix = "MINTLY"

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Ledger   *LedgerConfig   `mapstructure:"ledger"`
	Redis    *RedisConfig    `mapstructure:"redis"`
	RabbitMQ *RabbitMQConfig `mapstructure:"rabbitmq"`
	Log      *LogConfig      `mapstructure:"log"`

	v  *viper.Viper
	mu sync.Mutex
}

type APIConfig struct {
	Port               string           `mapstructure:"port"`
	Environment        string           `mapstructure:"environment"`
	BaseURL            string           `mapstructure:"base_url"`
	JWTSigningKey      string           `mapstructure:"jwt_signing_key"`
	JWTExpiration      time.Duration    `mapstructure:"jwt_expiration"`
	AllowedCORSDomains []string         `mapstructure:"allowed_cors_domains"`
	RateLimit          *RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerMinute float64 `mapstructure:"requests_per_minute"`
	Burst             int     `mapstructure:"burst"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DB              string        `mapstructure:"db"`
	SSLMode         string        `mapstructure:"sslmode"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN builds a libpq style connection string.
func (c *PostgresConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.DB, c.Port, sslMode,
	)
}

type LedgerConfig struct {
	LockTimeout  time.Duration `mapstructure:"lock_timeout"`
	CodeAttempts int           `mapstructure:"code_attempts"`
}

type RedisConfig struct {
	Addr           string        `mapstructure:"addr"`
	Password       string        `mapstructure:"password"`
	DB             int           `mapstructure:"db"`
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
}

// Enabled reports whether a Redis address is configured.
func (c *RedisConfig) Enabled() bool {
	return c != nil && c.Addr != ""
}

type RabbitMQConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

func (c *RabbitMQConfig) Enabled() bool {
	return c != nil && c.URL != ""
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Load reads the YAML file at path and overlays MINTLY_* environment variables,
// e.g. MINTLY_API_JWT_SIGNING_KEY overrides api.jwt_signing_key.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf, err := decode(v)
	if err != nil {
		return nil, err
	}
	conf.v = v

	return conf, nil
}

// OnChange registers fn to be called with the re-read configuration each time
// the config file is written.
func (c *AppConfig) OnChange(fn func(*AppConfig)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.v == nil {
		return
	}

	c.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		updated, err := decode(c.v)
		if err != nil {
			return
		}
		fn(updated)
	})
	c.v.WatchConfig()
}

func decode(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if conf.API == nil || conf.API.JWTSigningKey == "" {
		return nil, fmt.Errorf("api.jwt_signing_key is required")
	}
	if conf.Gin == nil {
		conf.Gin = &GinConfig{Mode: "release"}
	}
	if conf.Postgres == nil {
		conf.Postgres = &PostgresConfig{Driver: "postgres"}
	}
	if conf.Ledger == nil {
		conf.Ledger = &LedgerConfig{}
	}
	if conf.Log == nil {
		conf.Log = &LogConfig{Level: "info"}
	}

	return conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.jwt_expiration", 24*time.Hour)
	v.SetDefault("api.rate_limit.requests_per_minute", 120)
	v.SetDefault("api.rate_limit.burst", 20)
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("postgres.driver", "postgres")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 25)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("ledger.lock_timeout", 5*time.Second)
	v.SetDefault("ledger.code_attempts", 5)
	v.SetDefault("redis.idempotency_ttl", 24*time.Hour)
	v.SetDefault("rabbitmq.exchange", "mintly.ledger")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}
