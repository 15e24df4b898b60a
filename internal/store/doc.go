// Package store provides SQLite-backed durable storage for estimation
// runs.
//
// The store is an append-only log: one row per estimation, carrying the
// full request (expression, bounds, samples, seed) and the outcome
// (estimate, variance) plus a canonical fingerprint. Because every run is
// reproducible from its stored inputs, the log doubles as a replay
// corpus: re-running a stored request must reproduce the stored
// fingerprint bit-for-bit.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: tolerate lock contention
//   - foreign_keys=ON
//
// Writes are idempotent on run ID (ON CONFLICT DO NOTHING), so repeated
// recordings of the same run are harmless.
package store
