package config

// EnvPrefix namespaces every environment variable the backend reads.
const EnvPrefix = "TICKETTRAIL"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv             = "TICKETTRAIL_APP_ENV"
	EnvTicketmasterAPIKey = "TICKETTRAIL_TICKETMASTER_API_KEY"

	EnvDBDSN  = "TICKETTRAIL_DB_DSN"
	EnvDBHost = "TICKETTRAIL_DB_HOST"
	EnvDBUser = "TICKETTRAIL_DB_USER"
	EnvDBName = "TICKETTRAIL_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
