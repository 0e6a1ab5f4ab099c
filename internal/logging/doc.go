// Package logging builds the slog loggers used across watchtag.
//
// It offers a console handler that prefixes messages with a component label
// and a JSON handler for machine consumption, with output fanned out to
// stdout and the daemon log file. Attribute helpers keep field names
// consistent between packages.
package logging
