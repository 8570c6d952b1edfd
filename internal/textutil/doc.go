// Package textutil provides filename and path-segment sanitization helpers.
//
// Meeting identifiers and titles arrive from API clients and streaming
// sessions and are used as on-disk directory names; these helpers keep them
// filesystem safe.
package textutil
