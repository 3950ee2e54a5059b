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

	EnvAppEnv   = "ADJOURNEY_APP_ENV"
	EnvPort     = "ADJOURNEY_APP_PORT"
	EnvDBDSN    = "ADJOURNEY_DB_DSN"
	EnvDBHost   = "ADJOURNEY_DB_HOST"
	EnvDBUser   = "ADJOURNEY_DB_USER"
	EnvDBName   = "ADJOURNEY_DB_NAME"
	EnvRedisURL = "ADJOURNEY_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Journey      JourneyConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = "file::memory:?cache=shared"
		}
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ADJOURNEY_APP_ENV" required:"true"`
	Port         string `envconfig:"ADJOURNEY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ADJOURNEY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ADJOURNEY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ADJOURNEY_DB_DSN"`
	Driver string `envconfig:"ADJOURNEY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ADJOURNEY_DB_HOST"`
	LegacyPort     int    `envconfig:"ADJOURNEY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ADJOURNEY_DB_USER"`
	LegacyPassword string `envconfig:"ADJOURNEY_DB_PASSWORD"`
	LegacyName     string `envconfig:"ADJOURNEY_DB_NAME"`
	LegacySSLMode  string `envconfig:"ADJOURNEY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ADJOURNEY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ADJOURNEY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ADJOURNEY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ADJOURNEY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ADJOURNEY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ADJOURNEY_REDIS_ADDR"`
	Password     string        `envconfig:"ADJOURNEY_REDIS_PASSWORD"`
	DB           int           `envconfig:"ADJOURNEY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ADJOURNEY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ADJOURNEY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ADJOURNEY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ADJOURNEY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ADJOURNEY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	// UseSQLite swaps the datasource to sqlite (in-memory unless a DSN is
	// given); dev auto-run then migrates with gorm AutoMigrate, not goose.
	UseSQLite   bool `envconfig:"ADJOURNEY_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ADJOURNEY_AUTO_MIGRATE" default:"false"`
}

type JourneyConfig struct {
	// CacheTTL bounds how long a reconstructed journey may be served from
	// Redis before the row stores are consulted again.
	CacheTTL     time.Duration `envconfig:"ADJOURNEY_JOURNEY_CACHE_TTL" default:"5m"`
	CacheEnabled bool          `envconfig:"ADJOURNEY_JOURNEY_CACHE_ENABLED" default:"true"`
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
