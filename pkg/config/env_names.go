package config

// EnvPrefix is empty because every variable already carries the RENTALCART_
// prefix in its envconfig tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv            = "RENTALCART_APP_ENV"
	EnvPort              = "RENTALCART_APP_PORT"
	EnvDBDSN             = "RENTALCART_DB_DSN"
	EnvDBHost            = "RENTALCART_DB_HOST"
	EnvDBUser            = "RENTALCART_DB_USER"
	EnvDBName            = "RENTALCART_DB_NAME"
	EnvRedisURL          = "RENTALCART_REDIS_URL"
	EnvSessionSecret     = "RENTALCART_SESSION_SECRET"
	EnvSessionIssuer     = "RENTALCART_SESSION_ISSUER"
	EnvSessionTTLMinutes = "RENTALCART_SESSION_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
