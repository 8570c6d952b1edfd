package services_test

import (
	"errors"
	"strings"
	"testing"

	"quorum/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("connection refused")
	err := services.Wrap(services.ErrUnavailable, "transcribe", "post audio", "service unreachable", cause)
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	for _, fragment := range []string{"transcribe", "post audio", "service unreachable"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in %q", fragment, err.Error())
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "stage", "op", "message", nil)
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected default marker, got %v", err)
	}
}

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrUnavailable, "s", "o", "m", nil), "adapter_unavailable"},
		{services.Wrap(services.ErrMalformed, "s", "o", "m", nil), "adapter_malformed_response"},
		{services.Wrap(services.ErrInvariant, "s", "o", "m", nil), "invariant_violation"},
		{services.Wrap(services.ErrStore, "s", "o", "m", nil), "store_unavailable"},
		{services.Wrap(services.ErrConfiguration, "s", "o", "m", nil), "configuration_error"},
		{services.Wrap(services.ErrValidation, "s", "o", "m", nil), "validation_error"},
		{errors.New("plain"), "internal"},
	}
	for _, tc := range cases {
		if got := services.Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
