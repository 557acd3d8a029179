package config

// EnvPrefix is handed to envconfig; every field below carries an explicit name so the prefix
// only matters for fields added without one.
const EnvPrefix = "OUTCOMES"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv       = "OUTCOMES_APP_ENV"
	EnvPort         = "OUTCOMES_APP_PORT"
	EnvLogLevel     = "OUTCOMES_LOG_LEVEL"
	EnvLogWarnStack = "OUTCOMES_LOG_WARN_STACK"

	EnvDBDSN      = "OUTCOMES_DB_DSN"
	EnvDBDriver   = "OUTCOMES_DB_DRIVER"
	EnvDBHost     = "OUTCOMES_DB_HOST"
	EnvDBPort     = "OUTCOMES_DB_PORT"
	EnvDBUser     = "OUTCOMES_DB_USER"
	EnvDBPassword = "OUTCOMES_DB_PASSWORD"
	EnvDBName     = "OUTCOMES_DB_NAME"
	EnvDBSSLMode  = "OUTCOMES_DB_SSLMODE"

	EnvRedisURL      = "OUTCOMES_REDIS_URL"
	EnvRedisCacheTTL = "OUTCOMES_REDIS_CACHE_TTL"

	EnvCORSAllowedOrigins = "OUTCOMES_CORS_ALLOWED_ORIGINS"
	EnvReturnPredicate    = "OUTCOMES_ANALYTICS_RETURN_PREDICATE"
	EnvAutoMigrate        = "OUTCOMES_AUTO_MIGRATE"

	EnvETLDataDir   = "OUTCOMES_ETL_DATA_DIR"
	EnvETLBatchSize = "OUTCOMES_ETL_BATCH_SIZE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
