// Package tmdb implements the watch-provider availability client used by the
// sweep engine. One request per item returns the provider IDs streaming,
// renting, or selling that title in the configured region.
package tmdb
