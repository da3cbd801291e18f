package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// APIError represents a non-success HTTP response from the CoinGecko API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coingecko api error %d: %s", e.StatusCode, e.Message)
}

// FetchError is returned after every attempt of a fetch has failed. It wraps
// the last cause.
type FetchError struct {
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// doRequest performs a single HTTP request and returns the response body.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}

// getWithRetry performs a GET with linear backoff, handing each response body
// to decode. A failed decode counts as a failed attempt, so a malformed body
// is retried the same way a transport error is. Attempts are 1-indexed and
// capped at maxAttempts total tries; the delay before retrying attempt i+1 is
// baseBackoff * i.
func (c *Client) getWithRetry(ctx context.Context, logger *slog.Logger, path string, query url.Values, decode func([]byte) error) error {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		logger.Info("fetching",
			"path", path,
			"attempt", attempt,
			"max_attempts", c.maxAttempts,
		)

		body, err := c.doRequest(ctx, http.MethodGet, path, query)
		if err == nil {
			err = decode(body)
		}
		if err == nil {
			return nil
		}

		lastErr = err
		logger.Warn("fetch attempt failed",
			"attempt", attempt,
			"error", err,
		)

		if attempt == c.maxAttempts {
			break
		}

		delay := c.baseBackoff * time.Duration(attempt)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return &FetchError{Attempts: c.maxAttempts, Err: lastErr}
}
