// Package config loads, normalizes, and validates the TOML configuration
// shared by the quorum daemon and CLI.
package config
