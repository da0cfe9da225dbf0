// Package models defines the shared document schema and link metadata types.
//
// The entire persisted state is one [Document]: an ordered list of [User]
// records, each holding an ordered list of [LinkEntry] values. The document
// is owned by the remote store; everything here is a local snapshot between
// operations. Field names in JSON tags match the stored document and must
// not change without migrating the remote bin.
//
// [LinkEntry] values are immutable once added. The (addedAt, url) pair is
// the only stable key for lookup and removal; there is no surrogate id.
package models
