// Package scheduler runs sweeps on a cron schedule and serializes manual
// triggers so at most one sweep is in flight at any time.
package scheduler
