// Package api provides the CoinGecko REST API client.
//
// Endpoints used:
//   - GET /coins/markets — paged market listings for a quote currency
//   - GET /ping — upstream health check
//
// The public API requires no key. Market records are kept untyped
// (map[string]any) because the upstream schema is not guaranteed; the
// normalize package is responsible for coercion.
package api
