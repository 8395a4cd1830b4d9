package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	Catalog      CatalogConfig
	Widget       WidgetConfig
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
	Env          string `envconfig:"RENTALCART_APP_ENV" required:"true"`
	Port         string `envconfig:"RENTALCART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RENTALCART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RENTALCART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RENTALCART_DB_DSN"`
	Driver string `envconfig:"RENTALCART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RENTALCART_DB_HOST"`
	LegacyPort     int    `envconfig:"RENTALCART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RENTALCART_DB_USER"`
	LegacyPassword string `envconfig:"RENTALCART_DB_PASSWORD"`
	LegacyName     string `envconfig:"RENTALCART_DB_NAME"`
	LegacySSLMode  string `envconfig:"RENTALCART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RENTALCART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RENTALCART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RENTALCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RENTALCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RENTALCART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RENTALCART_REDIS_ADDR"`
	Password     string        `envconfig:"RENTALCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"RENTALCART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RENTALCART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RENTALCART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RENTALCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RENTALCART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RENTALCART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig drives the cart session lifetime and the anti-forgery token.
type SessionConfig struct {
	Secret     string `envconfig:"RENTALCART_SESSION_SECRET" required:"true"`
	Issuer     string `envconfig:"RENTALCART_SESSION_ISSUER" default:"rentalcart"`
	TTLMinutes int    `envconfig:"RENTALCART_SESSION_TTL_MINUTES" default:"2880"`
}

// TTL returns the session lifetime configured in minutes.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

type CatalogConfig struct {
	DefaultLimit   int    `envconfig:"RENTALCART_CATALOG_DEFAULT_LIMIT" default:"8"`
	RentalCategory string `envconfig:"RENTALCART_CATALOG_RENTAL_CATEGORY" default:"equipment-rental"`
}

// WidgetConfig holds the few rendering inputs the server hands to clients at
// session bootstrap.
type WidgetConfig struct {
	CurrencySymbol   string `envconfig:"RENTALCART_CURRENCY_SYMBOL" default:"$"`
	CurrencyPosition string `envconfig:"RENTALCART_CURRENCY_POSITION" default:"prefix"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"RENTALCART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"RENTALCART_AUTO_MIGRATE" default:"false"`
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
