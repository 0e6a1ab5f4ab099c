// Package daemon coordinates the long-running watchtag process.
//
// It wires configuration, the sweep engine, the cron scheduler, history
// persistence, and notifications into a single lifecycle with flock-based
// locking to prevent multiple instances, and exposes a small JSON API for
// status, provider listings, sweep triggers, and run history.
package daemon
