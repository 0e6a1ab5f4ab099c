// Package main hosts the watchtag CLI entrypoint and command graph.
//
// The Cobra-based command tree runs foreground sweeps, lists provider rules
// and tagged items, inspects sweep history, queries the daemon status API,
// and scaffolds configuration. It centralizes configuration resolution so
// subcommands can focus on user experience instead of wiring.
package main
