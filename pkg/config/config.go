package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "BAKEHOUSE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "BAKEHOUSE_DB_DSN"
	EnvDBHost = "BAKEHOUSE_DB_HOST"
	EnvDBUser = "BAKEHOUSE_DB_USER"
	EnvDBName = "BAKEHOUSE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Orders       OrdersConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"BAKEHOUSE_APP_ENV" required:"true"`
	Port         string `envconfig:"BAKEHOUSE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BAKEHOUSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BAKEHOUSE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BAKEHOUSE_DB_DSN"`
	Driver string `envconfig:"BAKEHOUSE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BAKEHOUSE_DB_HOST"`
	LegacyPort     int    `envconfig:"BAKEHOUSE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BAKEHOUSE_DB_USER"`
	LegacyPassword string `envconfig:"BAKEHOUSE_DB_PASSWORD"`
	LegacyName     string `envconfig:"BAKEHOUSE_DB_NAME"`
	LegacySSLMode  string `envconfig:"BAKEHOUSE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BAKEHOUSE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BAKEHOUSE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BAKEHOUSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BAKEHOUSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BAKEHOUSE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BAKEHOUSE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BAKEHOUSE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BAKEHOUSE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BAKEHOUSE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BAKEHOUSE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BAKEHOUSE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BAKEHOUSE_ARGON_KEY_LEN" default:"32"`
}

// OrdersConfig carries order-flow settings. GuestCustomerID is the identity
// walk-in orders are attributed to; it must match the guest user seeded by the
// migrations.
type OrdersConfig struct {
	GuestCustomerID uuid.UUID `envconfig:"BAKEHOUSE_ORDERS_GUEST_CUSTOMER_ID" default:"00000000-0000-0000-0000-000000000001"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BAKEHOUSE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
