// Package api defines the transport DTOs and read-side services shared by
// the daemon HTTP surface and the CLI.
package api
