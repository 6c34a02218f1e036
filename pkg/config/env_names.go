package config

const (
	EnvPrefix = "KNIFEWORKS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvDBDSN  = "KNIFEWORKS_DB_DSN"
	EnvDBHost = "KNIFEWORKS_DB_HOST"
	EnvDBUser = "KNIFEWORKS_DB_USER"
	EnvDBName = "KNIFEWORKS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
