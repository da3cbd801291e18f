package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// MarketRecord is one raw market entry from /coins/markets. The upstream
// schema is not guaranteed, so it stays an untyped key-value mapping.
type MarketRecord map[string]any

// MarketsOptions selects which markets page is fetched.
type MarketsOptions struct {
	Currency string // quote currency, e.g. "usd"
	PerPage  int
	Page     int
}

// Markets fetches one page of market listings, retrying failed attempts with
// linear backoff. Either the whole page is returned or the call fails with
// *FetchError; there is no partial success.
func (c *Client) Markets(ctx context.Context, opts MarketsOptions) ([]MarketRecord, error) {
	query := url.Values{}
	query.Set("vs_currency", opts.Currency)
	query.Set("order", "market_cap_desc")
	query.Set("per_page", strconv.Itoa(opts.PerPage))
	query.Set("page", strconv.Itoa(opts.Page))
	query.Set("sparkline", "false")
	query.Set("price_change_percentage", "24h")

	logger := c.logger.With("page", opts.Page, "per_page", opts.PerPage)

	var records []MarketRecord
	err := c.getWithRetry(ctx, logger, "/coins/markets", query, func(body []byte) error {
		records = nil
		if err := json.Unmarshal(body, &records); err != nil {
			return fmt.Errorf("response is not a list of records: %w", err)
		}
		if records == nil {
			// "null" unmarshals cleanly but is not a list either.
			return errors.New("response is not a list of records")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("fetched markets", "records", len(records))

	return records, nil
}

// Ping checks that the API is reachable.
func (c *Client) Ping(ctx context.Context) error {
	body, err := c.doRequest(ctx, http.MethodGet, "/ping", nil)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	var resp struct {
		GeckoSays string `json:"gecko_says"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("ping: unexpected response: %w", err)
	}
	return nil
}
