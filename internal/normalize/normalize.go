// Package normalize maps raw market records onto the canonical row shape.
//
// Normalization is total: a record missing fields or carrying values of the
// wrong type still yields a row, with nil in exactly the affected columns.
// The single exception is the natural key — a record without a usable "id"
// cannot satisfy the table's NOT NULL key and is skipped with a warning.
package normalize

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sgarrity/coingecko-data/internal/api"
	"github.com/sgarrity/coingecko-data/internal/model"
)

// Rows converts raw market records into canonical rows, stamping loadTS onto
// every row. Per-field coercion failures degrade to nil; no row is dropped
// because of a bad field value. Empty input yields empty output.
func Rows(records []api.MarketRecord, loadTS time.Time, logger *slog.Logger) []model.Row {
	if logger == nil {
		logger = slog.Default()
	}

	rows := make([]model.Row, 0, len(records))
	for i, rec := range records {
		id, ok := stringValue(rec["id"])
		if !ok || id == "" {
			logger.Warn("skipping record without usable id", "index", i)
			continue
		}

		rows = append(rows, model.Row{
			CoinID:       id,
			Symbol:       stringField(rec, "symbol"),
			Name:         stringField(rec, "name"),
			CurrentPrice: decimalField(rec, "current_price"),
			MarketCap:    decimalField(rec, "market_cap"),
			TotalVolume:  decimalField(rec, "total_volume"),
			High24h:      decimalField(rec, "high_24h"),
			Low24h:       decimalField(rec, "low_24h"),
			PctChange24h: decimalField(rec, "price_change_percentage_24h"),
			LastUpdated:  timeField(rec, "last_updated"),
			LoadTS:       loadTS,
		})
	}
	return rows
}

func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// stringField projects a string column; missing or non-string values are nil.
func stringField(rec api.MarketRecord, key string) *string {
	s, ok := stringValue(rec[key])
	if !ok {
		return nil
	}
	return &s
}

// decimalField projects a numeric column. JSON numbers arrive as float64,
// but upstream also ships some numerics as strings, so both are accepted.
func decimalField(rec api.MarketRecord, key string) *decimal.Decimal {
	var d decimal.Decimal

	switch v := rec[key].(type) {
	case float64:
		d = decimal.NewFromFloat(v)
	case json.Number:
		parsed, err := decimal.NewFromString(v.String())
		if err != nil {
			return nil
		}
		d = parsed
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return nil
		}
		d = parsed
	default:
		return nil
	}

	return &d
}

// timeField projects a timestamp column, normalized to UTC.
func timeField(rec api.MarketRecord, key string) *time.Time {
	s, ok := stringValue(rec[key])
	if !ok {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
