// Package writer persists normalized snapshot rows to Postgres.
//
// The crypto_prices table is keyed by (coin_id, load_timestamp) and writes
// are insert-if-absent: a key collision silently discards the incoming row,
// so replaying a snapshot is a safe no-op. Rows are written as a single
// pgx.Batch inside one transaction.
package writer
