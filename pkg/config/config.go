package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Stripe   StripeConfig
	Password PasswordConfig
	Public   PublicConfig
	Eventing EventingConfig
	Flags    FlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"OBSICARTE_APP_ENV" required:"true"`
	Port         string `envconfig:"OBSICARTE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"OBSICARTE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OBSICARTE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"OBSICARTE_DB_DSN"`

	Host     string `envconfig:"OBSICARTE_DB_HOST"`
	Port     int    `envconfig:"OBSICARTE_DB_PORT" default:"5432"`
	User     string `envconfig:"OBSICARTE_DB_USER"`
	Password string `envconfig:"OBSICARTE_DB_PASSWORD"`
	Name     string `envconfig:"OBSICARTE_DB_NAME"`
	SSLMode  string `envconfig:"OBSICARTE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OBSICARTE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OBSICARTE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OBSICARTE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OBSICARTE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.Host == "" || db.User == "" || db.Name == "" {
		return fmt.Errorf("either OBSICARTE_DB_DSN or host/user/name settings are required")
	}
	db.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(db.User),
		url.QueryEscape(db.Password),
		db.Host,
		db.Port,
		db.Name,
		db.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"OBSICARTE_REDIS_URL"`
	Address      string        `envconfig:"OBSICARTE_REDIS_ADDR"`
	Password     string        `envconfig:"OBSICARTE_REDIS_PASSWORD"`
	DB           int           `envconfig:"OBSICARTE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OBSICARTE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OBSICARTE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OBSICARTE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OBSICARTE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OBSICARTE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type StripeConfig struct {
	APIKey string `envconfig:"OBSICARTE_STRIPE_API_KEY"`
	Secret string `envconfig:"OBSICARTE_STRIPE_SECRET"`
	Env    string `envconfig:"OBSICARTE_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"OBSICARTE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"OBSICARTE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"OBSICARTE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"OBSICARTE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"OBSICARTE_ARGON_KEY_LEN" default:"32"`
}

type PublicConfig struct {
	// Origin is the customer-facing origin used to build public profile URLs,
	// e.g. https://obsicarte.fr.
	Origin string `envconfig:"OBSICARTE_PUBLIC_ORIGIN" default:"http://localhost:3000"`
}

type EventingConfig struct {
	WebhookIdempotencyTTL time.Duration `envconfig:"OBSICARTE_WEBHOOK_IDEMPOTENCY_TTL" default:"720h"`
}

type FlagsConfig struct {
	AutoMigrate bool `envconfig:"OBSICARTE_AUTO_MIGRATE" default:"false"`
}
