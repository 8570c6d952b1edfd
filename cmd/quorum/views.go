package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"quorum/internal/api"
)

func buildMeetingRows(meetings []api.Meeting) [][]string {
	if len(meetings) == 0 {
		return nil
	}
	sorted := make([]api.Meeting, len(meetings))
	copy(sorted, meetings)

	sort.Slice(sorted, func(i, j int) bool {
		ti := parseAPITime(sorted[i].CreatedAt)
		tj := parseAPITime(sorted[j].CreatedAt)
		if ti.Equal(tj) {
			return sorted[i].ID > sorted[j].ID
		}
		return ti.After(tj)
	})

	rows := make([][]string, 0, len(sorted))
	for _, m := range sorted {
		title := strings.TrimSpace(m.Title)
		if title == "" {
			title = "Untitled"
		}
		progress := ""
		if m.Progress.Stage != "" {
			progress = fmt.Sprintf("%s %.0f%%", formatStageLabel(m.Progress.Stage), m.Progress.Percent)
		}
		rows = append(rows, []string{
			m.MeetingID,
			truncate(title, 40),
			formatStatusLabel(m.Status),
			progress,
			formatDisplayTime(m.CreatedAt),
		})
	}
	return rows
}

func buildActionItemRows(items []api.ActionItem) [][]string {
	if len(items) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		assignee := item.Assignee
		if assignee == "" {
			assignee = "-"
		}
		deadline := item.Deadline
		if deadline == "" {
			deadline = "-"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			truncate(item.Task, 60),
			assignee,
			deadline,
			strings.ToUpper(item.Priority),
		})
	}
	return rows
}

func buildQueueStatsRows(stats map[string]int) [][]string {
	if len(stats) == 0 {
		return nil
	}
	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{formatStatusLabel(key), fmt.Sprintf("%d", stats[key])})
	}
	return rows
}

// formatStatusLabel converts a snake_case status into a display label,
// e.g. "retrieving_context" becomes "Retrieving Context".
func formatStatusLabel(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return ""
	}
	words := strings.ReplaceAll(strings.ToLower(status), "_", " ")
	return cases.Title(language.Und).String(words)
}

func formatStageLabel(stage string) string {
	return formatStatusLabel(stage)
}

func parseAPITime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func formatDisplayTime(value string) string {
	parsed := parseAPITime(value)
	if parsed.IsZero() {
		return value
	}
	return parsed.Local().Format("2006-01-02 15:04")
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if max <= 0 || len(runes) <= max {
		return value
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func formatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
