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
	Ticketmaster TicketmasterConfig
	Tracking     TrackingConfig
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
	Env          string `envconfig:"TICKETTRAIL_APP_ENV" required:"true"`
	Port         string `envconfig:"TICKETTRAIL_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TICKETTRAIL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TICKETTRAIL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TICKETTRAIL_DB_DSN"`
	Driver string `envconfig:"TICKETTRAIL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TICKETTRAIL_DB_HOST"`
	LegacyPort     int    `envconfig:"TICKETTRAIL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TICKETTRAIL_DB_USER"`
	LegacyPassword string `envconfig:"TICKETTRAIL_DB_PASSWORD"`
	LegacyName     string `envconfig:"TICKETTRAIL_DB_NAME"`
	LegacySSLMode  string `envconfig:"TICKETTRAIL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TICKETTRAIL_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"TICKETTRAIL_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"TICKETTRAIL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TICKETTRAIL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TICKETTRAIL_REDIS_URL"`
	Address      string        `envconfig:"TICKETTRAIL_REDIS_ADDR"`
	Password     string        `envconfig:"TICKETTRAIL_REDIS_PASSWORD"`
	DB           int           `envconfig:"TICKETTRAIL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TICKETTRAIL_REDIS_POOL_SIZE" default:"5"`
	MinIdleConns int           `envconfig:"TICKETTRAIL_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"TICKETTRAIL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TICKETTRAIL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TICKETTRAIL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// TicketmasterConfig carries resolved credentials for the discovery
// API; nothing below pkg/ticketmaster reads the environment directly.
type TicketmasterConfig struct {
	APIKey         string        `envconfig:"TICKETTRAIL_TICKETMASTER_API_KEY" required:"true"`
	BaseURL        string        `envconfig:"TICKETTRAIL_TICKETMASTER_BASE_URL" default:"https://app.ticketmaster.com/discovery/v2"`
	RequestTimeout time.Duration `envconfig:"TICKETTRAIL_TICKETMASTER_TIMEOUT" default:"10s"`
	RetryMaxWait   time.Duration `envconfig:"TICKETTRAIL_TICKETMASTER_RETRY_MAX_WAIT" default:"30s"`
}

type TrackingConfig struct {
	Interval time.Duration `envconfig:"TICKETTRAIL_TRACKING_INTERVAL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TICKETTRAIL_AUTO_MIGRATE" default:"false"`
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
