package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Staff         StaffConfig
	Payment       PaymentConfig
	Cache         CacheConfig
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
	Env          string `envconfig:"KNIFEWORKS_APP_ENV" required:"true"`
	Port         string `envconfig:"KNIFEWORKS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KNIFEWORKS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KNIFEWORKS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KNIFEWORKS_DB_DSN"`
	Driver string `envconfig:"KNIFEWORKS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KNIFEWORKS_DB_HOST"`
	LegacyPort     int    `envconfig:"KNIFEWORKS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KNIFEWORKS_DB_USER"`
	LegacyPassword string `envconfig:"KNIFEWORKS_DB_PASSWORD"`
	LegacyName     string `envconfig:"KNIFEWORKS_DB_NAME"`
	LegacySSLMode  string `envconfig:"KNIFEWORKS_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"KNIFEWORKS_DB_SQLITE_PATH" default:"database/crm.db"`

	MaxOpenConns    int           `envconfig:"KNIFEWORKS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KNIFEWORKS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KNIFEWORKS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KNIFEWORKS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KNIFEWORKS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KNIFEWORKS_REDIS_ADDR"`
	Password     string        `envconfig:"KNIFEWORKS_REDIS_PASSWORD"`
	DB           int           `envconfig:"KNIFEWORKS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KNIFEWORKS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KNIFEWORKS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KNIFEWORKS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KNIFEWORKS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KNIFEWORKS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KNIFEWORKS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KNIFEWORKS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"KNIFEWORKS_JWT_EXPIRATION_MINUTES" default:"720"`
	SessionTTLMinutes int    `envconfig:"KNIFEWORKS_SESSION_TTL_MINUTES" default:"1440"`
}

// SessionTTL returns the Redis session lifetime configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"KNIFEWORKS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KNIFEWORKS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KNIFEWORKS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KNIFEWORKS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KNIFEWORKS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"KNIFEWORKS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"KNIFEWORKS_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"KNIFEWORKS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"KNIFEWORKS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"KNIFEWORKS_AUTO_MIGRATE" default:"false"`
}

// StaffConfig bootstraps the credential pair used until the settings row exists.
type StaffConfig struct {
	Username string `envconfig:"KNIFEWORKS_STAFF_USERNAME" default:"admin"`
	Password string `envconfig:"KNIFEWORKS_STAFF_PASSWORD"`
}

type PaymentConfig struct {
	DefaultHandle string `envconfig:"KNIFEWORKS_PAYMENT_DEFAULT_HANDLE" default:"chefknifeworks"`
	LinkBase      string `envconfig:"KNIFEWORKS_PAYMENT_LINK_BASE" default:"https://paypal.me"`
}

type CacheConfig struct {
	SnapshotTTL time.Duration `envconfig:"KNIFEWORKS_CACHE_SNAPSHOT_TTL" default:"720h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.Driver == DriverSQLite {
		return nil
	}
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
