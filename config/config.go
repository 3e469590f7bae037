package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	Venue     VenueConfig     `mapstructure:"venue"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	AMQP      AMQPConfig      `mapstructure:"amqp"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// StorageConfig selects the record store backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // postgres, memory
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	// Isolation is the level every ledger transaction runs at:
	// read_committed, repeatable_read or serializable.
	Isolation       string        `mapstructure:"isolation"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // trace, debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// VenueConfig selects the external yield venue behind the vault adapter.
type VenueConfig struct {
	Kind    string        `mapstructure:"kind"` // buffer_only, reserve_ratio, exchange_price
	BaseURL string        `mapstructure:"base_url"`
	Market  string        `mapstructure:"market"` // reserve or lending-market identifier at the venue
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SchedulerConfig holds cron specs for background jobs.
type SchedulerConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	PaymentSchedule   string        `mapstructure:"payment_schedule"`
	RebalanceSchedule string        `mapstructure:"rebalance_schedule"`
	BatchSize         int           `mapstructure:"batch_size"`
	LockTTL           time.Duration `mapstructure:"lock_ttl"`
}

// AMQPConfig configures the RabbitMQ event publisher. An empty URL disables publishing.
type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// WebhookConfig enables merchant webhooks. EncryptionKey is the 64-char hex
// AES-256 key protecting endpoint secrets at rest.
type WebhookConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	EncryptionKey string        `mapstructure:"encryption_key"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: SLD_ (Subscription LeDger).
// Nested keys use underscore: SLD_DATABASE_HOST, SLD_VENUE_KIND, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "subscription_ledger")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.isolation", "read_committed")
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "2s")
	v.SetDefault("redis.write_timeout", "2s")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "subscription-ledger")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("venue.kind", "buffer_only")
	v.SetDefault("venue.base_url", "")
	v.SetDefault("venue.market", "")
	v.SetDefault("venue.api_key", "")
	v.SetDefault("venue.timeout", "10s")
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.payment_schedule", "@every 1m")
	v.SetDefault("scheduler.rebalance_schedule", "@every 15m")
	v.SetDefault("scheduler.batch_size", 50)
	v.SetDefault("scheduler.lock_ttl", "55s")
	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "ledger_events")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("webhook.enabled", false)
	v.SetDefault("webhook.encryption_key", "")
	v.SetDefault("webhook.timeout", "10s")

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: SLD_DATABASE_HOST -> database.host
	v.SetEnvPrefix("SLD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	switch c.Database.Isolation {
	case "read_committed", "repeatable_read", "serializable":
	default:
		return fmt.Errorf("unsupported database.isolation %q", c.Database.Isolation)
	}
	switch c.Venue.Kind {
	case "buffer_only":
	case "reserve_ratio", "exchange_price":
		if c.Venue.BaseURL == "" {
			return fmt.Errorf("venue.base_url is required for venue kind %q", c.Venue.Kind)
		}
	default:
		return fmt.Errorf("unsupported venue kind %q", c.Venue.Kind)
	}
	if c.Scheduler.BatchSize <= 0 {
		return fmt.Errorf("scheduler.batch_size must be positive")
	}
	if c.Webhook.Enabled && len(c.Webhook.EncryptionKey) != 64 {
		return fmt.Errorf("webhook.encryption_key must be 64 hex characters when webhooks are enabled")
	}
	return nil
}
