package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.MaxAttempts < 1 {
		return fmt.Errorf("api.max_attempts must be >= 1, got %d", c.API.MaxAttempts)
	}
	if c.API.Backoff < 0 {
		return errors.New("api.backoff cannot be negative")
	}

	if c.Fetch.Currency == "" {
		return errors.New("fetch.currency is required")
	}
	if c.Fetch.PerPage < 1 {
		return fmt.Errorf("fetch.per_page must be >= 1, got %d", c.Fetch.PerPage)
	}
	if c.Fetch.Page < 1 {
		return fmt.Errorf("fetch.page must be >= 1, got %d", c.Fetch.Page)
	}

	return c.Database.validate("database")
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.Port < 1 || db.Port > 65535 {
		return fmt.Errorf("%s.port must be between 1 and 65535, got %d", prefix, db.Port)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
