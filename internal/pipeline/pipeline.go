// Package pipeline sequences one ETL run: fetch, normalize, load.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sgarrity/coingecko-data/internal/api"
	"github.com/sgarrity/coingecko-data/internal/config"
	"github.com/sgarrity/coingecko-data/internal/model"
	"github.com/sgarrity/coingecko-data/internal/normalize"
	"github.com/sgarrity/coingecko-data/internal/writer"
)

// Source fetches raw market records.
type Source interface {
	Markets(ctx context.Context, opts api.MarketsOptions) ([]api.MarketRecord, error)
}

// Store persists normalized rows.
type Store interface {
	EnsureSchema(ctx context.Context) error
	Load(ctx context.Context, rows []model.Row) (writer.LoadResult, error)
}

// Report summarizes one completed run.
type Report struct {
	LoadTS  time.Time
	Fetched int
	Rows    int
	Load    writer.LoadResult
	Elapsed time.Duration
}

// Pipeline runs the fetch, normalize, load sequence exactly once. It holds no
// state across runs; the only cross-run state is the target table itself.
type Pipeline struct {
	source Source
	store  Store
	fetch  config.FetchConfig
	logger *slog.Logger

	now func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the wall clock used to stamp load timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a Pipeline.
func New(source Source, store Store, fetch config.FetchConfig, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		source: source,
		store:  store,
		fetch:  fetch,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one run. The load timestamp is computed up front and stamped
// identically onto every row, so the persisted rows form one snapshot
// generation. Any fatal error is logged here with context and returned; a
// failed run persists nothing beyond the writer's transaction boundary.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	start := p.now()
	loadTS := start.UTC()

	p.logger.Info("run started", "load_timestamp", loadTS)

	fetchStart := time.Now()
	records, err := p.source.Markets(ctx, api.MarketsOptions{
		Currency: p.fetch.Currency,
		PerPage:  p.fetch.PerPage,
		Page:     p.fetch.Page,
	})
	if err != nil {
		p.logger.Error("fetch failed", "error", err)
		return Report{LoadTS: loadTS}, fmt.Errorf("fetch markets: %w", err)
	}
	p.logger.Info("extract complete",
		"records", len(records),
		"elapsed", time.Since(fetchStart),
	)

	rows := normalize.Rows(records, loadTS, p.logger)

	if err := p.store.EnsureSchema(ctx); err != nil {
		p.logger.Error("schema bootstrap failed", "error", err)
		return Report{LoadTS: loadTS, Fetched: len(records)}, err
	}

	res, err := p.store.Load(ctx, rows)
	if err != nil {
		p.logger.Error("load failed", "error", err, "rows", len(rows))
		return Report{LoadTS: loadTS, Fetched: len(records), Rows: len(rows)}, err
	}

	report := Report{
		LoadTS:  loadTS,
		Fetched: len(records),
		Rows:    len(rows),
		Load:    res,
		Elapsed: time.Since(fetchStart),
	}

	p.logger.Info("run complete",
		"load_timestamp", loadTS,
		"fetched", report.Fetched,
		"rows", report.Rows,
		"inserted", res.Inserted,
		"conflicts", res.Conflicts,
		"elapsed", report.Elapsed,
	)

	return report, nil
}
