// Package logging builds the slog handlers shared by the daemon and CLI and
// provides the standardized structured field names used across stages.
package logging
