package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names for file-less deployments. Scheduler images
// typically inject only the Postgres credentials and rely on defaults for
// everything else.
const (
	EnvDBUser = "PG_USER"
	EnvDBPass = "PG_PASS"
	EnvDBHost = "PG_HOST"
	EnvDBName = "PG_DB"

	EnvCurrency = "COINGECKO_CURRENCY"
	EnvPerPage  = "COINGECKO_PER_PAGE"
	EnvPage     = "COINGECKO_PAGE"
	EnvBaseURL  = "COINGECKO_BASE_URL"
)

// FromEnv builds a Config from environment variables, applies defaults,
// and validates. Used when no config file is given.
func FromEnv() (*Config, error) {
	cfg := &Config{}

	cfg.Database.User = os.Getenv(EnvDBUser)
	cfg.Database.Password = os.Getenv(EnvDBPass)
	cfg.Database.Host = os.Getenv(EnvDBHost)
	cfg.Database.Name = os.Getenv(EnvDBName)

	cfg.API.BaseURL = os.Getenv(EnvBaseURL)
	cfg.Fetch.Currency = os.Getenv(EnvCurrency)

	var err error
	if cfg.Fetch.PerPage, err = envInt(EnvPerPage); err != nil {
		return nil, err
	}
	if cfg.Fetch.Page, err = envInt(EnvPage); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func envInt(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
