// Package daemon hosts the long-running quorum process: the workflow
// manager, the single-instance lock, and the HTTP/WebSocket API surface.
package daemon
