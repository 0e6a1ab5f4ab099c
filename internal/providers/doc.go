// Package providers holds the provider rule set and the tag matcher. A rule
// maps a display name to the TMDB provider IDs that satisfy it; matching
// items receive the tag "provider:<name>".
package providers
