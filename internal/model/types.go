// Package model defines the canonical row shape persisted by the ETL job.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Row is one normalized market snapshot row destined for the crypto_prices
// table. Pointer fields persist as SQL NULL when nil; a missing or
// unparseable source value is represented by nil, never by a sentinel.
type Row struct {
	CoinID string // natural key, never empty

	Symbol *string
	Name   *string

	CurrentPrice *decimal.Decimal
	MarketCap    *decimal.Decimal
	TotalVolume  *decimal.Decimal
	High24h      *decimal.Decimal
	Low24h       *decimal.Decimal
	PctChange24h *decimal.Decimal

	LastUpdated *time.Time // UTC

	// LoadTS is assigned once per run and is identical for every row of
	// that run. (coin_id, load_timestamp) is the persistence key.
	LoadTS time.Time // UTC, never zero
}
