package config

import (
	"strings"

	"github.com/aaz50/ByteIntern/errors"
)

// Validate checks that the configuration is usable.
//
// Credential checks collect every missing key before failing, so operators
// see the complete list in one pass instead of fixing keys one at a time.
func (c *Config) Validate() error {
	if missing := c.MissingCredentials(); len(missing) > 0 {
		return errors.WithHint(
			errors.Wrapf(errors.ErrMissingConfig, "%s", strings.Join(missing, ", ")),
			"set these environment variables or add them to byteintern.toml",
		)
	}

	if c.Search.Keywords == "" {
		return errors.New("search.keywords cannot be empty")
	}
	if len(c.Search.Locations) == 0 {
		return errors.New("search.locations cannot be empty")
	}
	if c.Search.MaxDaysOld < 1 {
		return errors.Newf("search.max_days_old must be >= 1, got %d", c.Search.MaxDaysOld)
	}

	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.Path == "" {
			return errors.New("storage.path cannot be empty for the sqlite backend")
		}
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return errors.New("storage.redis_url cannot be empty for the redis backend")
		}
		if c.Storage.KeyPrefix == "" {
			return errors.New("storage.key_prefix cannot be empty for the redis backend")
		}
	default:
		return errors.Newf("unknown storage backend %q (expected %q or %q)",
			c.Storage.Backend, BackendSQLite, BackendRedis)
	}

	if c.SMTP.Host == "" {
		return errors.New("smtp.host cannot be empty")
	}
	if c.SMTP.Port <= 0 {
		return errors.Newf("smtp.port must be > 0, got %d", c.SMTP.Port)
	}

	return nil
}

// MissingCredentials returns the credential keys absent from the
// configuration, in a stable order. Empty when all credentials are set.
func (c *Config) MissingCredentials() []string {
	var missing []string
	for _, kv := range []struct{ key, value string }{
		{"EMAIL_SENDER", c.Email.Sender},
		{"EMAIL_PASSWORD", c.Email.Password},
		{"EMAIL_RECIPIENT", c.Email.Recipient},
		{"ADZUNA_APP_ID", c.Adzuna.AppID},
		{"ADZUNA_API_KEY", c.Adzuna.AppKey},
	} {
		if kv.value == "" {
			missing = append(missing, kv.key)
		}
	}
	return missing
}
