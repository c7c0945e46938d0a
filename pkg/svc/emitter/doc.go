// Package emitter renders the client-facing region config and publishes it.
//
// Only regions whose instance is running are exposed. Output is sorted by
// region ID and byte-identical for identical input, so publishing is
// idempotent and diffs between runs are meaningful.
package emitter
