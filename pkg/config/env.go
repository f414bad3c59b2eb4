package config

// EnvPrefix is intentionally empty: every variable carries the full
// FURNISTOCK_ prefix in its envconfig tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "FURNISTOCK_DB_DSN"
	EnvDBHost = "FURNISTOCK_DB_HOST"
	EnvDBUser = "FURNISTOCK_DB_USER"
	EnvDBName = "FURNISTOCK_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
