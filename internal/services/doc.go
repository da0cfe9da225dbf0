// Package services contains the HTTP clients for every external surface:
// the JSONBin document host and the per-provider metadata resolvers.
//
// The provider side is split in three layers:
//
//  1. [Classify] : pure URL inspection producing a [Classification]
//  2. [Resolver] implementations : one per provider kind, each with a
//     try-then-fallback chain (oEmbed first, offline derivation or a
//     secondary lookup API behind it)
//  3. [Pipeline] : classifier → resolver dispatch, degrading resolver
//     errors to partial metadata so an add-link operation never fails
//     because a provider API did
//
// Resolvers return their best-effort metadata together with any fetch
// error; callers other than the pipeline (tests, the refresh task) can
// distinguish "API said nothing" from "API call failed".
package services
