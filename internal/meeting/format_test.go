package meeting_test

import (
	"strings"
	"testing"

	"quorum/internal/meeting"
)

func TestFormatTranscript(t *testing.T) {
	segments := []meeting.AttributedSegment{
		{Start: 0, End: 2, Text: "hello", Speaker: "Alice"},
		{Start: 2, End: 5, Text: "world", Speaker: ""},
		{Start: 5, End: 6, Text: "   "},
	}
	out := meeting.FormatTranscript(segments)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "[0.0s] Alice: hello" {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if lines[1] != "[2.0s] Unknown: world" {
		t.Fatalf("unexpected second line: %q", lines[1])
	}
}

func TestFormatContextEmpty(t *testing.T) {
	if got := meeting.FormatContext(nil); got != "No historical context available." {
		t.Fatalf("unexpected empty-context text: %q", got)
	}
}

func TestFormatContextIncludesScores(t *testing.T) {
	out := meeting.FormatContext([]meeting.ContextMatch{
		{MeetingID: "m1", Excerpt: "budget review", Speaker: "Bob", Score: 0.87},
	})
	if !strings.Contains(out, "[Meeting m1, Relevance: 0.87] Bob: budget review") {
		t.Fatalf("unexpected context formatting: %q", out)
	}
}

func TestQueryExcerptBounds(t *testing.T) {
	segments := []meeting.AttributedSegment{
		{Text: "aaaa"}, {Text: "bbbb"}, {Text: "cccc"},
	}
	got := meeting.QueryExcerpt(segments, 6)
	if got != "aaaa b" {
		t.Fatalf("QueryExcerpt = %q", got)
	}
	if full := meeting.QueryExcerpt(segments, 0); full != "aaaa bbbb cccc" {
		t.Fatalf("unlimited excerpt = %q", full)
	}
}

func TestParsePriority(t *testing.T) {
	cases := map[string]meeting.Priority{
		"HIGH":    meeting.PriorityHigh,
		" low ":   meeting.PriorityLow,
		"medium":  meeting.PriorityMedium,
		"urgent?": meeting.PriorityMedium,
		"":        meeting.PriorityMedium,
	}
	for in, want := range cases {
		if got := meeting.ParsePriority(in); got != want {
			t.Fatalf("ParsePriority(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSpeakerCount(t *testing.T) {
	segments := []meeting.AttributedSegment{
		{Speaker: "Alice"}, {Speaker: "Bob"}, {Speaker: "Alice"},
		{Speaker: meeting.UnknownSpeaker}, {Speaker: ""},
	}
	if got := meeting.SpeakerCount(segments); got != 2 {
		t.Fatalf("SpeakerCount = %d, want 2", got)
	}
}
