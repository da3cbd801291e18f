// Package database provides the PostgreSQL connection pool for an ETL run.
//
// The pool is scoped to a single invocation: main acquires it, the writer
// uses it for schema bootstrap and the batch load, and a deferred Close
// releases it on every exit path.
package database
