// Package notifications delivers sweep lifecycle events via ntfy.
//
// The default implementation publishes to the topic configured in config.toml
// and gracefully degrades to a no-op when no topic is set. Sweep and error
// events can be toggled independently.
package notifications
