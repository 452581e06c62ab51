// Package config holds the runtime configuration for ByteIntern.
//
// Configuration is constructed once at startup (Load) and passed by value
// into each component's constructor. Pipeline code never reads ambient
// global state, which keeps the whole pipeline unit-testable with fakes.
package config

// Config represents the full ByteIntern configuration
type Config struct {
	Email   EmailConfig   `mapstructure:"email"`
	Adzuna  AdzunaConfig  `mapstructure:"adzuna"`
	Search  SearchConfig  `mapstructure:"search"`
	Storage StorageConfig `mapstructure:"storage"`
	SMTP    SMTPConfig    `mapstructure:"smtp"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

// EmailConfig holds the sender credentials and digest recipient.
// All three values are required at startup.
type EmailConfig struct {
	Sender    string `mapstructure:"sender"`
	Password  string `mapstructure:"password"`
	Recipient string `mapstructure:"recipient"`
}

// AdzunaConfig configures access to the Adzuna job-search API.
// AppID and AppKey are required at startup.
type AdzunaConfig struct {
	AppID   string `mapstructure:"app_id"`
	AppKey  string `mapstructure:"app_key"`
	Country string `mapstructure:"country"` // two-letter country code, default "us"
}

// SearchConfig describes the single tracked search.
type SearchConfig struct {
	Keywords   string   `mapstructure:"keywords"`
	Locations  []string `mapstructure:"locations"`    // queried one at a time, in order
	MaxDaysOld int      `mapstructure:"max_days_old"` // only postings from the last N days
}

// Storage backend selectors
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// StorageConfig selects and parameterizes the listing store backend.
type StorageConfig struct {
	Backend   string `mapstructure:"backend"`    // "sqlite" or "redis"
	Path      string `mapstructure:"path"`       // sqlite: database file path
	RedisURL  string `mapstructure:"redis_url"`  // redis: connection URL
	KeyPrefix string `mapstructure:"key_prefix"` // redis: logical table name
}

// SMTPConfig configures the outbound mail transport (implicit TLS).
type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// WatchConfig configures the optional in-process scheduler.
type WatchConfig struct {
	Every string `mapstructure:"every"` // interval for cron "@every", e.g. "1h"
}
