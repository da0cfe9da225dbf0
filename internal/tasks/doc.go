// Package tasks implements the operations layer over the shared link
// document.
//
// The core abstraction is ShelfEngine, which orchestrates sign-in, link
// mutations, searches, exports, and cache refreshes. Every write goes
// through MergeEngine's fetch-mutate-store cycle so concurrent clients
// converge on last-writer-wins document state. Long-running operations
// emit progress updates via channels for non-blocking status reporting
// to CLI/UI layers.
package tasks
