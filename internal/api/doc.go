// Package api exposes read-model services and response types shared by the
// CLI commands and the daemon's HTTP endpoints.
package api
