package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL     = "https://api.coingecko.com/api/v3"
	DefaultAPITimeout  = 15 * time.Second
	DefaultMaxAttempts = 3
	DefaultBackoff     = 1 * time.Second

	DefaultCurrency = "usd"
	DefaultPerPage  = 250
	DefaultPage     = 1

	DefaultDBHost    = "db"
	DefaultDBPort    = 5432
	DefaultDBName    = "practice"
	DefaultDBSSLMode = "prefer"
	DefaultMaxConns  = 4
	DefaultMinConns  = 1
)

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxAttempts == 0 {
		c.API.MaxAttempts = DefaultMaxAttempts
	}
	if c.API.Backoff == 0 {
		c.API.Backoff = DefaultBackoff
	}

	// Fetch defaults
	if c.Fetch.Currency == "" {
		c.Fetch.Currency = DefaultCurrency
	}
	if c.Fetch.PerPage == 0 {
		c.Fetch.PerPage = DefaultPerPage
	}
	if c.Fetch.Page == 0 {
		c.Fetch.Page = DefaultPage
	}

	// Database defaults
	if c.Database.Host == "" {
		c.Database.Host = DefaultDBHost
	}
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.Name == "" {
		c.Database.Name = DefaultDBName
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}
}
