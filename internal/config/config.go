package config

import "time"

// Config is the root configuration for one ETL run.
type Config struct {
	API      APIConfig   `yaml:"api"`
	Fetch    FetchConfig `yaml:"fetch"`
	Database DBConfig    `yaml:"database"`
}

// APIConfig holds CoinGecko API settings.
type APIConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`      // per-request timeout
	MaxAttempts int           `yaml:"max_attempts"` // total tries, first included
	Backoff     time.Duration `yaml:"backoff"`      // linear backoff unit
}

// FetchConfig selects which markets page is pulled.
type FetchConfig struct {
	Currency string `yaml:"currency"`
	PerPage  int    `yaml:"per_page"`
	Page     int    `yaml:"page"`
}

// DBConfig holds the Postgres connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}
