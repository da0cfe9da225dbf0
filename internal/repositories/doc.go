// Package repositories provides the local persistence layer: a SQLite
// cache of resolved link metadata keyed by source URL.
//
// The cache only ever holds derived data. Losing it costs extra provider
// API calls, never document state, so every caller treats cache failures
// as soft errors.
package repositories
