package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// EnvPrefix scopes every Tradewind environment variable.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Platform     PlatformConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Platform.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TRADEWIND_APP_ENV" required:"true"`
	Port         string `envconfig:"TRADEWIND_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TRADEWIND_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TRADEWIND_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TRADEWIND_DB_DSN"`
	Driver string `envconfig:"TRADEWIND_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"TRADEWIND_DB_HOST"`
	Port     int    `envconfig:"TRADEWIND_DB_PORT" default:"5432"`
	User     string `envconfig:"TRADEWIND_DB_USER"`
	Password string `envconfig:"TRADEWIND_DB_PASSWORD"`
	Name     string `envconfig:"TRADEWIND_DB_NAME"`
	SSLMode  string `envconfig:"TRADEWIND_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TRADEWIND_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TRADEWIND_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TRADEWIND_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TRADEWIND_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TRADEWIND_REDIS_URL"`
	Address      string        `envconfig:"TRADEWIND_REDIS_ADDR"`
	Password     string        `envconfig:"TRADEWIND_REDIS_PASSWORD"`
	DB           int           `envconfig:"TRADEWIND_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TRADEWIND_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TRADEWIND_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TRADEWIND_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TRADEWIND_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TRADEWIND_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TRADEWIND_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TRADEWIND_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TRADEWIND_JWT_EXPIRATION_MINUTES" default:"60"`
}

// PlatformConfig carries marketplace-wide commercial settings. The fee
// percent is snapshotted onto each order at creation time; changing it later
// never affects existing orders.
type PlatformConfig struct {
	FeePercent string `envconfig:"TRADEWIND_PLATFORM_FEE_PERCENT" default:"10"`
}

func (p PlatformConfig) validate() error {
	pct, err := decimal.NewFromString(p.FeePercent)
	if err != nil {
		return fmt.Errorf("invalid platform fee percent %q: %w", p.FeePercent, err)
	}
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("platform fee percent %q out of range", p.FeePercent)
	}
	return nil
}

// FeePercentDecimal returns the configured fee percent as a decimal.
func (p PlatformConfig) FeePercentDecimal() decimal.Decimal {
	pct, err := decimal.NewFromString(p.FeePercent)
	if err != nil {
		return decimal.Zero
	}
	return pct
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TRADEWIND_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TRADEWIND_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"TRADEWIND_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrderEventsTopic        string `envconfig:"TRADEWIND_PUBSUB_ORDER_EVENTS_TOPIC" default:"tw-order-events"`
	OrderEventsSubscription string `envconfig:"TRADEWIND_PUBSUB_ORDER_EVENTS_SUBSCRIPTION" default:"tw-order-events-notifications"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"TRADEWIND_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"TRADEWIND_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"TRADEWIND_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for key, value := range map[string]string{
		"TRADEWIND_DB_HOST": db.Host,
		"TRADEWIND_DB_USER": db.User,
		"TRADEWIND_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("either TRADEWIND_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
