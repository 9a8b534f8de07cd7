package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix mostly documents intent.
const EnvPrefix = "CLINISTOCK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv  = "CLINISTOCK_APP_ENV"
	EnvAppPort = "CLINISTOCK_APP_PORT"

	EnvDBDSN  = "CLINISTOCK_DB_DSN"
	EnvDBHost = "CLINISTOCK_DB_HOST"
	EnvDBUser = "CLINISTOCK_DB_USER"
	EnvDBName = "CLINISTOCK_DB_NAME"

	EnvRedisURL   = "CLINISTOCK_REDIS_URL"
	EnvJWTSecret  = "CLINISTOCK_JWT_SECRET"
	EnvJWTIssuer  = "CLINISTOCK_JWT_ISSUER"
	EnvJWTExpMins = "CLINISTOCK_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
