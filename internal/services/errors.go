package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for classifying stage failures. Every error a stage
// returns is tagged with exactly one of these so the workflow manager and the
// API surface can report a taxonomy kind instead of a raw internal error.
var (
	// ErrUnavailable marks an external adapter that is unreachable or timed out.
	ErrUnavailable = errors.New("adapter unavailable")
	// ErrMalformed marks an adapter response that could not be parsed.
	ErrMalformed = errors.New("adapter malformed response")
	// ErrInvariant marks an internal invariant violation; always fatal.
	ErrInvariant = errors.New("invariant violation")
	// ErrStore marks vector or relational store failures.
	ErrStore = errors.New("store unavailable")
	// ErrConfiguration marks invalid construction-time configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrValidation marks invalid stage input.
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrUnavailable
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind maps an error to its taxonomy name. Unclassified errors report as
// "internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnavailable):
		return "adapter_unavailable"
	case errors.Is(err, ErrMalformed):
		return "adapter_malformed_response"
	case errors.Is(err, ErrInvariant):
		return "invariant_violation"
	case errors.Is(err, ErrStore):
		return "store_unavailable"
	case errors.Is(err, ErrConfiguration):
		return "configuration_error"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	default:
		return "internal"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
