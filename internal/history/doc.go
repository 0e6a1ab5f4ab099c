// Package history persists sweep run outcomes in a local SQLite database so
// past sweeps can be inspected from the CLI and the status API.
package history
