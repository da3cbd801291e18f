// Package config handles configuration for the ETL job.
//
// Two sources are supported: a YAML file with ${VAR} environment variable
// interpolation, or (when no file is given) the PG_* / COINGECKO_*
// environment variables directly. Both paths apply the same defaults and
// validation.
package config
