package main

import (
	"strings"
	"testing"

	"quorum/internal/api"
)

func TestFormatStatusLabel(t *testing.T) {
	cases := map[string]string{
		"pending":            "Pending",
		"retrieving_context": "Retrieving Context",
		"actions_extracted":  "Actions Extracted",
		"":                   "",
	}
	for input, want := range cases {
		if got := formatStatusLabel(input); got != want {
			t.Errorf("formatStatusLabel(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestBuildMeetingRowsSortsNewestFirst(t *testing.T) {
	meetings := []api.Meeting{
		{ID: 1, MeetingID: "m-old", Title: "Old", Status: "completed", CreatedAt: "2026-08-01T10:00:00.000Z"},
		{ID: 2, MeetingID: "m-new", Title: "New", Status: "pending", CreatedAt: "2026-08-02T10:00:00.000Z"},
	}
	rows := buildMeetingRows(meetings)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "m-new" || rows[1][0] != "m-old" {
		t.Fatalf("unexpected order: %v", rows)
	}
	if rows[1][2] != "Completed" {
		t.Fatalf("unexpected status label %q", rows[1][2])
	}
}

func TestBuildActionItemRows(t *testing.T) {
	items := []api.ActionItem{
		{Task: "Send the recap", Assignee: "Bob", Deadline: "Friday", Priority: "high"},
		{Task: "Check budget"},
	}
	rows := buildActionItemRows(items)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][4] != "HIGH" {
		t.Fatalf("expected uppercased priority, got %q", rows[0][4])
	}
	if rows[1][2] != "-" || rows[1][3] != "-" {
		t.Fatalf("expected placeholder dashes, got %v", rows[1])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 40); got != "short" {
		t.Fatalf("truncate should keep short strings, got %q", got)
	}
	long := strings.Repeat("a", 50)
	got := truncate(long, 10)
	if got != strings.Repeat("a", 7)+"..." {
		t.Fatalf("unexpected truncation %q", got)
	}
}

func TestFormatClock(t *testing.T) {
	if got := formatClock(65.4); got != "01:05" {
		t.Fatalf("formatClock(65.4) = %q", got)
	}
	if got := formatClock(-3); got != "00:00" {
		t.Fatalf("formatClock(-3) = %q", got)
	}
}
