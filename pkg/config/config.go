package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Storage backend selectors.
const (
	StorageBackendMemory = "memory"
	StorageBackendDB     = "db"
	StorageBackendRedis  = "redis"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	DB       DBConfig
	Redis    RedisConfig
	Admin    AdminConfig
	Checkout CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type StorageConfig struct {
	Backend string `envconfig:"STOREFRONT_STORAGE_BACKEND" default:"db"`
}

func (s *StorageConfig) validate() error {
	backend := strings.ToLower(strings.TrimSpace(s.Backend))
	switch backend {
	case StorageBackendMemory, StorageBackendDB, StorageBackendRedis:
		s.Backend = backend
		return nil
	}
	return fmt.Errorf("unknown storage backend %q", s.Backend)
}

type DBConfig struct {
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"STOREFRONT_DB_DSN" default:"storefront.db"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// AdminConfig centralizes the address that used to be compared inline at
// every admin-gated view.
type AdminConfig struct {
	Email string `envconfig:"STOREFRONT_ADMIN_EMAIL" default:"khikhe@gmail.com"`
}

// CheckoutConfig carries the simulated checkout pricing knobs. Defaults
// match the storefront's historical behavior.
type CheckoutConfig struct {
	TaxRate           float64       `envconfig:"STOREFRONT_CHECKOUT_TAX_RATE" default:"0.08"`
	StandardShipping  float64       `envconfig:"STOREFRONT_CHECKOUT_SHIPPING_STANDARD" default:"5.99"`
	ExpressShipping   float64       `envconfig:"STOREFRONT_CHECKOUT_SHIPPING_EXPRESS" default:"15.99"`
	OvernightShipping float64       `envconfig:"STOREFRONT_CHECKOUT_SHIPPING_OVERNIGHT" default:"29.99"`
	AuthorizeDelay    time.Duration `envconfig:"STOREFRONT_CHECKOUT_AUTHORIZE_DELAY" default:"750ms"`
}
