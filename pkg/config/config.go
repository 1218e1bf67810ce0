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
	JWT          JWTConfig
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	Ordering     OrderingConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Ordering.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MENUFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"MENUFLOW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MENUFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MENUFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"MENUFLOW_DB_DSN"`
	SQLitePath string `envconfig:"MENUFLOW_SQLITE_PATH" default:"menuflow.db"`

	LegacyHost     string `envconfig:"MENUFLOW_DB_HOST"`
	LegacyPort     int    `envconfig:"MENUFLOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MENUFLOW_DB_USER"`
	LegacyPassword string `envconfig:"MENUFLOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"MENUFLOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"MENUFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MENUFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MENUFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MENUFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MENUFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"MENUFLOW_DB_SLOW_QUERY" default:"200ms"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MENUFLOW_REDIS_URL"`
	Address      string        `envconfig:"MENUFLOW_REDIS_ADDR"`
	Password     string        `envconfig:"MENUFLOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"MENUFLOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MENUFLOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MENUFLOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MENUFLOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MENUFLOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MENUFLOW_REDIS_WRITE_TIMEOUT" default:"5s"`
	KeyPrefix    string        `envconfig:"MENUFLOW_REDIS_KEY_PREFIX" default:"menuflow"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"MENUFLOW_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MENUFLOW_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MENUFLOW_JWT_EXPIRATION_MINUTES" default:"720"`
	RefreshTokenDays  int    `envconfig:"MENUFLOW_REFRESH_TOKEN_TTL_DAYS" default:"14"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns how long a refresh session survives in redis.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(j.RefreshTokenDays) * 24 * time.Hour
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MENUFLOW_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MENUFLOW_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MENUFLOW_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MENUFLOW_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MENUFLOW_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MENUFLOW_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MENUFLOW_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MENUFLOW_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	PublicOrderWindow  time.Duration `envconfig:"MENUFLOW_RATE_LIMIT_PUBLIC_ORDER_WINDOW" default:"1m"`
	PublicOrderIPLimit int           `envconfig:"MENUFLOW_RATE_LIMIT_PUBLIC_ORDER_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"MENUFLOW_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"MENUFLOW_AUTO_MIGRATE" default:"false"`
}

type OrderingConfig struct {
	DefaultTimezone string        `envconfig:"MENUFLOW_ORDERING_DEFAULT_TIMEZONE" default:"Europe/Sofia"`
	TrialDays       int           `envconfig:"MENUFLOW_TRIAL_DAYS" default:"14"`
	IdempotencyTTL  time.Duration `envconfig:"MENUFLOW_IDEMPOTENCY_TTL" default:"24h"`
}

// TrialPeriod returns the length of the trial granted to new restaurants.
func (o OrderingConfig) TrialPeriod() time.Duration {
	return time.Duration(o.TrialDays) * 24 * time.Hour
}

func (o OrderingConfig) validate() error {
	if _, err := time.LoadLocation(o.DefaultTimezone); err != nil {
		return fmt.Errorf("%s: %w", EnvOrderingDefaultTimezone, err)
	}
	if o.TrialDays <= 0 {
		return fmt.Errorf("%s must be positive", EnvTrialDays)
	}
	return nil
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"MENUFLOW_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
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
