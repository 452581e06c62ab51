package config

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Search defaults match the reference tracker configuration
	v.SetDefault("search.keywords", "software engineer intern")
	v.SetDefault("search.locations", []string{"United States"})
	v.SetDefault("search.max_days_old", 7)

	// Adzuna defaults
	v.SetDefault("adzuna.country", "us")

	// Storage defaults
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.path", "jobs.db")
	v.SetDefault("storage.key_prefix", "byteintern")

	// Mail transport defaults (Gmail over implicit TLS)
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 465)

	// Watch scheduler defaults
	v.SetDefault("watch.every", "1h")
}

// BindSensitiveEnvVars explicitly binds credentials to their well-known
// environment variable names. These names predate the BYTEINTERN_ prefix
// convention and are kept for compatibility with existing deployments.
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("email.sender", "EMAIL_SENDER")
	v.BindEnv("email.password", "EMAIL_PASSWORD")
	v.BindEnv("email.recipient", "EMAIL_RECIPIENT")
	v.BindEnv("adzuna.app_id", "ADZUNA_APP_ID")
	v.BindEnv("adzuna.app_key", "ADZUNA_API_KEY")
}
