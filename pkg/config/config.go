package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/runwaylab/outcomes-lab-backend/pkg/enums"
)

type Config struct {
	App          AppConfig
	HTTP         HTTPConfig
	DB           DBConfig
	Redis        RedisConfig
	CORS         CORSConfig
	Analytics    AnalyticsConfig
	FeatureFlags FeatureFlagsConfig
	ETL          ETLConfig
}

// Option adjusts a loaded configuration before it is validated.
type Option func(*Config)

// WithDSN replaces the database DSN, e.g. from a CLI flag.
func WithDSN(dsn string) Option {
	return func(c *Config) {
		if dsn = strings.TrimSpace(dsn); dsn != "" {
			c.DB.DSN = dsn
		}
	}
}

// WithDriver replaces the database driver.
func WithDriver(driver string) Option {
	return func(c *Config) {
		if driver = strings.TrimSpace(driver); driver != "" {
			c.DB.Driver = driver
		}
	}
}

func Load(opts ...Option) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Analytics.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"OUTCOMES_APP_ENV" default:"dev"`
	Port         string `envconfig:"OUTCOMES_APP_PORT" default:"8000"`
	LogLevel     string `envconfig:"OUTCOMES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OUTCOMES_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `envconfig:"OUTCOMES_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"OUTCOMES_HTTP_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"OUTCOMES_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	DSN    string `envconfig:"OUTCOMES_DB_DSN"`
	Driver string `envconfig:"OUTCOMES_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"OUTCOMES_DB_HOST"`
	LegacyPort     int    `envconfig:"OUTCOMES_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"OUTCOMES_DB_USER"`
	LegacyPassword string `envconfig:"OUTCOMES_DB_PASSWORD"`
	LegacyName     string `envconfig:"OUTCOMES_DB_NAME"`
	LegacySSLMode  string `envconfig:"OUTCOMES_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OUTCOMES_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OUTCOMES_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OUTCOMES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OUTCOMES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded SQLite one.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

// RedisConfig is optional; an empty URL and address disables the report cache.
type RedisConfig struct {
	URL          string        `envconfig:"OUTCOMES_REDIS_URL"`
	Address      string        `envconfig:"OUTCOMES_REDIS_ADDR"`
	Password     string        `envconfig:"OUTCOMES_REDIS_PASSWORD"`
	DB           int           `envconfig:"OUTCOMES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OUTCOMES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OUTCOMES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OUTCOMES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OUTCOMES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OUTCOMES_REDIS_WRITE_TIMEOUT" default:"5s"`
	CacheTTL     time.Duration `envconfig:"OUTCOMES_REDIS_CACHE_TTL" default:"60s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"OUTCOMES_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:3001,http://127.0.0.1:3000,http://127.0.0.1:3001"`
}

type AnalyticsConfig struct {
	// ReturnPredicate selects how breakdown reports detect a returned item.
	ReturnPredicate string `envconfig:"OUTCOMES_ANALYTICS_RETURN_PREDICATE" default:"compound"`
}

func (a AnalyticsConfig) validate() error {
	if _, err := enums.ParseReturnPredicate(a.ReturnPredicate); err != nil {
		return fmt.Errorf("%s must be %q or %q", EnvReturnPredicate, enums.ReturnPredicateCompound, enums.ReturnPredicateStatus)
	}
	return nil
}

// StatusOnlyReturns is true when breakdowns should match status == "Returned" only.
func (a AnalyticsConfig) StatusOnlyReturns() bool {
	p, err := enums.ParseReturnPredicate(a.ReturnPredicate)
	return err == nil && p == enums.ReturnPredicateStatus
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"OUTCOMES_AUTO_MIGRATE" default:"false"`
}

type ETLConfig struct {
	DataDir   string `envconfig:"OUTCOMES_ETL_DATA_DIR" default:"data/raw"`
	BatchSize int    `envconfig:"OUTCOMES_ETL_BATCH_SIZE" default:"1000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "outcomes.db"
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
