// Package catalog reads and writes media items on a Jellyfin-compatible
// server. The sweep engine consumes the Store interface; the HTTP client here
// is the production implementation.
package catalog
