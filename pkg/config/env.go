package config

const (
	EnvPrefix = "MENUFLOW"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "MENUFLOW_APP_ENV"
	EnvPort     = "MENUFLOW_APP_PORT"
	EnvLogLevel = "MENUFLOW_LOG_LEVEL"

	EnvDBDSN  = "MENUFLOW_DB_DSN"
	EnvDBHost = "MENUFLOW_DB_HOST"
	EnvDBPort = "MENUFLOW_DB_PORT"
	EnvDBUser = "MENUFLOW_DB_USER"
	EnvDBPass = "MENUFLOW_DB_PASSWORD"
	EnvDBName = "MENUFLOW_DB_NAME"

	EnvRedisURL = "MENUFLOW_REDIS_URL"

	EnvJWTSecret  = "MENUFLOW_JWT_SECRET"
	EnvJWTIssuer  = "MENUFLOW_JWT_ISSUER"
	EnvJWTExpMins = "MENUFLOW_JWT_EXPIRATION_MINUTES"

	EnvUseSQLite   = "MENUFLOW_USE_SQLITE"
	EnvAutoMigrate = "MENUFLOW_AUTO_MIGRATE"

	EnvOrderingDefaultTimezone = "MENUFLOW_ORDERING_DEFAULT_TIMEZONE"
	EnvTrialDays               = "MENUFLOW_TRIAL_DAYS"
	EnvCORSAllowedOrigins      = "MENUFLOW_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
