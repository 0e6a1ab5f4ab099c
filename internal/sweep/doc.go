// Package sweep implements the catalog synchronization engine.
//
// A sweep takes one full catalog snapshot, resolves each item's TMDB id,
// fetches regional watch-provider availability, matches the configured rules,
// applies additive provider tags, and flushes batched collection membership
// at the end. Items are processed strictly one at a time; cancellation is
// checked between items and discards unflushed membership.
package sweep
