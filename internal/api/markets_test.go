package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMarkets_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/markets" {
			t.Errorf("path = %q, want /coins/markets", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("vs_currency") != "usd" {
			t.Errorf("vs_currency = %q, want usd", q.Get("vs_currency"))
		}
		if q.Get("per_page") != "250" {
			t.Errorf("per_page = %q, want 250", q.Get("per_page"))
		}
		if q.Get("page") != "1" {
			t.Errorf("page = %q, want 1", q.Get("page"))
		}
		if q.Get("order") != "market_cap_desc" {
			t.Errorf("order = %q, want market_cap_desc", q.Get("order"))
		}
		if q.Get("sparkline") != "false" {
			t.Errorf("sparkline = %q, want false", q.Get("sparkline"))
		}
		if q.Get("price_change_percentage") != "24h" {
			t.Errorf("price_change_percentage = %q, want 24h", q.Get("price_change_percentage"))
		}
		w.Write([]byte(`[{"id":"bitcoin","symbol":"btc","current_price":65000.5}]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, WithLogger(testLogger()))
	records, err := c.Markets(context.Background(), MarketsOptions{Currency: "usd", PerPage: 250, Page: 1})
	if err != nil {
		t.Fatalf("Markets() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0]["id"] != "bitcoin" {
		t.Errorf("id = %v, want bitcoin", records[0]["id"])
	}
}

func TestMarkets_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, WithLogger(testLogger()))
	records, err := c.Markets(context.Background(), MarketsOptions{Currency: "usd", PerPage: 10, Page: 1})
	if err != nil {
		t.Fatalf("Markets() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
}

// Persistent failure performs exactly maxAttempts tries, then fails with a
// *FetchError wrapping the last cause.
func TestMarkets_RetryBound(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, WithLogger(testLogger()), WithRetries(4, time.Millisecond))
	_, err := c.Markets(context.Background(), MarketsOptions{Currency: "usd", PerPage: 10, Page: 1})
	if err == nil {
		t.Fatal("Markets() should fail on persistent 500s")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %T, want *FetchError", err)
	}
	if fetchErr.Attempts != 4 {
		t.Errorf("Attempts = %d, want 4", fetchErr.Attempts)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("FetchError should wrap *APIError, got %v", fetchErr.Err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}

	if got := attempts.Load(); got != 4 {
		t.Errorf("server saw %d attempts, want 4", got)
	}
}

// Intermittent failure succeeding on attempt k performs exactly k attempts.
func TestMarkets_SucceedsAfterRetries(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[{"id":"ethereum"}]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, WithLogger(testLogger()), WithRetries(5, time.Millisecond))
	records, err := c.Markets(context.Background(), MarketsOptions{Currency: "usd", PerPage: 10, Page: 1})
	if err != nil {
		t.Fatalf("Markets() error = %v", err)
	}
	if len(records) != 1 {
		t.Errorf("len(records) = %d, want 1", len(records))
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("server saw %d attempts, want 3", got)
	}
}

// A 2xx response whose top level is not a JSON array is a failed attempt and
// is retried like any other failure.
func TestMarkets_BadShapeIsRetried(t *testing.T) {
	bodies := []string{
		`{"error":"rate limited"}`,
		`null`,
		`[{"id":"bitcoin"}]`,
	}
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i := attempts.Add(1) - 1
		w.Write([]byte(bodies[i]))
	}))
	defer server.Close()

	c := NewClient(server.URL, WithLogger(testLogger()), WithRetries(3, time.Millisecond))
	records, err := c.Markets(context.Background(), MarketsOptions{Currency: "usd", PerPage: 10, Page: 1})
	if err != nil {
		t.Fatalf("Markets() error = %v", err)
	}
	if len(records) != 1 {
		t.Errorf("len(records) = %d, want 1", len(records))
	}
	if got := attempts.Load(); got != 3 {
		t.Errorf("server saw %d attempts, want 3", got)
	}
}

// The delay before retrying after attempt i is baseBackoff * i.
func TestMarkets_LinearBackoff(t *testing.T) {
	const base = 40 * time.Millisecond

	var mu sync.Mutex
	var arrivals []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		arrivals = append(arrivals, time.Now())
		mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, WithLogger(testLogger()), WithRetries(3, base))
	c.Markets(context.Background(), MarketsOptions{Currency: "usd", PerPage: 10, Page: 1})

	mu.Lock()
	defer mu.Unlock()
	if len(arrivals) != 3 {
		t.Fatalf("server saw %d attempts, want 3", len(arrivals))
	}

	// gap after attempt i should be ~base*i; allow generous scheduling slack
	// above but require the floor to hold.
	for i := 1; i < len(arrivals); i++ {
		gap := arrivals[i].Sub(arrivals[i-1])
		want := base * time.Duration(i)
		if gap < want {
			t.Errorf("gap before attempt %d = %v, want >= %v", i+1, gap, want)
		}
		if gap > want+250*time.Millisecond {
			t.Errorf("gap before attempt %d = %v, want ~%v", i+1, gap, want)
		}
	}
}

func TestMarkets_ContextCancelDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClient(server.URL, WithLogger(testLogger()), WithRetries(5, time.Minute))
	start := time.Now()
	_, err := c.Markets(ctx, MarketsOptions{Currency: "usd", PerPage: 10, Page: 1})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("cancellation took %v, backoff sleep was not interrupted", elapsed)
	}
}

func TestPing(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/ping" {
				t.Errorf("path = %q, want /ping", r.URL.Path)
			}
			w.Write([]byte(`{"gecko_says":"(V3) To the Moon!"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, WithLogger(testLogger()))
		if err := c.Ping(context.Background()); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		c := NewClient(server.URL, WithLogger(testLogger()))
		if err := c.Ping(context.Background()); err == nil {
			t.Error("Ping() should fail on 503")
		}
	})
}
