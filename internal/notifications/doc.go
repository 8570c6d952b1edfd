// Package notifications publishes workflow events to an ntfy topic when one
// is configured. Without a topic the service is a silent noop, so callers
// never need to branch on configuration.
package notifications
