package writer

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sgarrity/coingecko-data/internal/model"
)

const tableName = "crypto_prices"

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS crypto_prices (
		coin_id        TEXT NOT NULL,
		symbol         TEXT,
		name           TEXT,
		current_price  NUMERIC(20,6),
		market_cap     NUMERIC(30,2),
		total_volume   NUMERIC(30,2),
		high_24h       NUMERIC(20,6),
		low_24h        NUMERIC(20,6),
		pct_change_24h NUMERIC(10,6),
		last_updated   TIMESTAMPTZ,
		load_timestamp TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (coin_id, load_timestamp)
	)`

const insertSQL = `
	INSERT INTO crypto_prices (
		coin_id, symbol, name, current_price,
		market_cap, total_volume, high_24h,
		low_24h, pct_change_24h, last_updated,
		load_timestamp
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (coin_id, load_timestamp) DO NOTHING`

// LoadResult reports the outcome of one batch load.
type LoadResult struct {
	Attempted int
	Inserted  int
	Conflicts int
	Elapsed   time.Duration
}

// PriceWriter bootstraps the crypto_prices table and performs batched,
// conflict-tolerant inserts.
type PriceWriter struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewPriceWriter creates a PriceWriter.
func NewPriceWriter(db *pgxpool.Pool, logger *slog.Logger) *PriceWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PriceWriter{db: db, logger: logger}
}

// EnsureSchema creates the crypto_prices table if it does not exist. The DDL
// is idempotent and safe under concurrent invocation. Outright creation
// failure returns *SchemaError; a failed verification read afterwards is only
// a warning, since the create itself succeeded.
func (w *PriceWriter) EnsureSchema(ctx context.Context) error {
	if _, err := w.db.Exec(ctx, createTableSQL); err != nil {
		return &SchemaError{Err: err}
	}

	var visible bool
	err := w.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM pg_catalog.pg_tables
			WHERE schemaname = current_schema() AND tablename = $1
		)`, tableName).Scan(&visible)
	switch {
	case err != nil:
		w.logger.Warn("schema verification query failed", "table", tableName, "error", err)
	case !visible:
		w.logger.Warn("table not visible after create", "table", tableName)
	default:
		w.logger.Info("schema ensured", "table", tableName)
	}

	return nil
}

// Load writes rows as one batch inside a single transaction. Key conflicts
// are counted and discarded; any other failure rolls back the whole batch and
// returns *LoadError. An empty input returns a zero LoadResult without
// touching the store.
func (w *PriceWriter) Load(ctx context.Context, rows []model.Row) (LoadResult, error) {
	if len(rows) == 0 {
		w.logger.Info("no rows to load")
		return LoadResult{}, nil
	}

	start := time.Now()
	w.logger.Info("starting load", "rows", len(rows))

	conflicts, err := w.batchInsert(ctx, rows)
	if err != nil {
		return LoadResult{}, &LoadError{Attempted: len(rows), Err: err}
	}

	res := LoadResult{
		Attempted: len(rows),
		Inserted:  len(rows) - conflicts,
		Conflicts: conflicts,
		Elapsed:   time.Since(start),
	}

	w.logger.Info("load finished",
		"attempted", res.Attempted,
		"inserted", res.Inserted,
		"conflicts", res.Conflicts,
		"elapsed", res.Elapsed,
	)

	return res, nil
}

func (w *PriceWriter) batchInsert(ctx context.Context, rows []model.Row) (conflicts int, err error) {
	tx, err := w.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for i := range rows {
		batch.Queue(insertSQL, insertArgs(&rows[i])...)
	}

	results := tx.SendBatch(ctx, batch)
	for range rows {
		ct, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}
	if err := results.Close(); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return conflicts, nil
}

// insertArgs maps a row onto insert parameters. Nil pointers travel as-is so
// the driver writes true NULLs.
func insertArgs(r *model.Row) []any {
	return []any{
		r.CoinID,
		r.Symbol,
		r.Name,
		r.CurrentPrice,
		r.MarketCap,
		r.TotalVolume,
		r.High24h,
		r.Low24h,
		r.PctChange24h,
		r.LastUpdated,
		r.LoadTS,
	}
}

// CountSnapshot returns the number of persisted rows carrying the given
// load timestamp.
func (w *PriceWriter) CountSnapshot(ctx context.Context, loadTS time.Time) (int64, error) {
	var n int64
	err := w.db.QueryRow(ctx,
		`SELECT count(*) FROM crypto_prices WHERE load_timestamp = $1`, loadTS,
	).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
