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
	Seed          SeedConfig
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
	Env          string `envconfig:"CLINISTOCK_APP_ENV" required:"true"`
	Port         string `envconfig:"CLINISTOCK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CLINISTOCK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CLINISTOCK_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"CLINISTOCK_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CLINISTOCK_DB_DSN"`
	Driver string `envconfig:"CLINISTOCK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CLINISTOCK_DB_HOST"`
	LegacyPort     int    `envconfig:"CLINISTOCK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CLINISTOCK_DB_USER"`
	LegacyPassword string `envconfig:"CLINISTOCK_DB_PASSWORD"`
	LegacyName     string `envconfig:"CLINISTOCK_DB_NAME"`
	LegacySSLMode  string `envconfig:"CLINISTOCK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CLINISTOCK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CLINISTOCK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CLINISTOCK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CLINISTOCK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN builds a postgres DSN from the legacy host/port variables when an
// explicit DSN is not provided.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: d.LegacyHost,
		EnvDBUser: d.LegacyUser,
		EnvDBName: d.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(d.LegacyUser)
	if d.LegacyPassword != "" {
		userInfo = url.UserPassword(d.LegacyUser, d.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:   d.LegacyName,
	}

	if d.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", d.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"CLINISTOCK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CLINISTOCK_REDIS_ADDR"`
	Password     string        `envconfig:"CLINISTOCK_REDIS_PASSWORD"`
	DB           int           `envconfig:"CLINISTOCK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CLINISTOCK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CLINISTOCK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CLINISTOCK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CLINISTOCK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CLINISTOCK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CLINISTOCK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CLINISTOCK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CLINISTOCK_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"CLINISTOCK_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CLINISTOCK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CLINISTOCK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CLINISTOCK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CLINISTOCK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CLINISTOCK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CLINISTOCK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"CLINISTOCK_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"CLINISTOCK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CLINISTOCK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CLINISTOCK_AUTO_MIGRATE" default:"false"`
}

// SeedConfig parameterizes the one-time bootstrap run before the API starts.
type SeedConfig struct {
	Enabled       bool     `envconfig:"CLINISTOCK_SEED_ENABLED" default:"false"`
	AdminUsername string   `envconfig:"CLINISTOCK_SEED_ADMIN_USERNAME" default:"admin"`
	AdminEmail    string   `envconfig:"CLINISTOCK_SEED_ADMIN_EMAIL" default:"admin@local"`
	AdminPassword string   `envconfig:"CLINISTOCK_SEED_ADMIN_PASSWORD"`
	ClinicNames   []string `envconfig:"CLINISTOCK_SEED_CLINICS" default:"Clínica Centro,Clínica Norte,Clínica Sul"`
}
