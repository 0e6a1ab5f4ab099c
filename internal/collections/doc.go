// Package collections manages server-side collections for provider rules.
//
// A sweep resolves every CreateCollection rule to a collection ID up front,
// queues membership additions while items are processed, and flushes one
// batched add per collection when the sweep finishes.
package collections
