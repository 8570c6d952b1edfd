package textutil

import "testing"

func TestSanitizeToken(t *testing.T) {
	cases := map[string]string{
		"Weekly Sync":     "weekly_sync",
		"m-1":             "m-1",
		"../escape":       "escape",
		"":                "unknown",
		"///":             "unknown",
		"Standup 2026-08": "standup_2026-08",
	}
	for input, want := range cases {
		if got := SanitizeToken(input); got != want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", input, got, want)
		}
	}
}
