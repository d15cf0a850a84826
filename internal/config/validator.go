package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidBackends returns the supported store backends.
func ValidBackends() []string {
	return []string{"memory", "file", "redis", "sqlite"}
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if !slices.Contains(ValidBackends(), c.Store.Backend) {
		errs = append(errs, ValidationError{
			Field:   "store.backend",
			Value:   c.Store.Backend,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidBackends(), ", ")),
		})
	}

	switch c.Store.Backend {
	case "file":
		if c.Store.Dir == "" {
			errs = append(errs, ValidationError{Field: "store.dir", Value: c.Store.Dir, Message: "required for the file backend"})
		}
	case "sqlite":
		if c.Store.SQLite == "" {
			errs = append(errs, ValidationError{Field: "store.sqlite_path", Value: c.Store.SQLite, Message: "required for the sqlite backend"})
		}
	case "redis":
		if c.Store.Redis.Addr == "" {
			errs = append(errs, ValidationError{Field: "store.redis.addr", Value: c.Store.Redis.Addr, Message: "required for the redis backend"})
		}
		if c.Store.Redis.DB < 0 {
			errs = append(errs, ValidationError{Field: "store.redis.db", Value: c.Store.Redis.DB, Message: "must be non-negative"})
		}
		if c.Store.Redis.TTL < 0 {
			errs = append(errs, ValidationError{Field: "store.redis.ttl", Value: c.Store.Redis.TTL, Message: "must be non-negative"})
		}
	}

	if c.Store.LockTTL <= 0 {
		errs = append(errs, ValidationError{Field: "store.lock_ttl", Value: c.Store.LockTTL, Message: "must be positive"})
	}

	if c.Store.Encryption.Enabled() {
		if _, _, err := c.Store.Encryption.Keys(); err != nil {
			errs = append(errs, ValidationError{Field: "store.encryption", Value: "<redacted>", Message: err.Error()})
		}
	} else if len(c.Store.Encryption.FallbackKeys) > 0 {
		errs = append(errs, ValidationError{Field: "store.encryption.fallback_keys", Value: len(c.Store.Encryption.FallbackKeys), Message: "require store.encryption.key"})
	}

	if c.Server.Addr == "" {
		errs = append(errs, ValidationError{Field: "server.addr", Value: c.Server.Addr, Message: "must not be empty"})
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errs
}
