package api

import (
	"sort"

	"quorum/internal/meeting"
	"quorum/internal/queue"
	"quorum/internal/stage"
	"quorum/internal/workflow"
)

// FromItem converts a queue record to its API representation.
func FromItem(item *queue.Item) Meeting {
	if item == nil {
		return Meeting{}
	}
	dto := Meeting{
		ID:           item.ID,
		MeetingID:    item.MeetingID,
		Title:        item.Title,
		Participants: item.Participants(),
		AudioPath:    item.AudioPath,
		Status:       string(item.Status),
		Progress: MeetingProgress{
			Stage:   item.ProgressStage,
			Percent: item.ProgressPercent,
			Message: item.ProgressMessage,
		},
		ErrorMessage: item.ErrorMessage,
		FailedStage:  item.FailedStage,
		Warnings:     item.Warnings(),
	}
	if !item.CreatedAt.IsZero() {
		dto.CreatedAt = item.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !item.UpdatedAt.IsZero() {
		dto.UpdatedAt = item.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromItems converts a slice of queue records into API DTOs.
func FromItems(items []*queue.Item) []Meeting {
	if len(items) == 0 {
		return nil
	}
	out := make([]Meeting, 0, len(items))
	for _, item := range items {
		out = append(out, FromItem(item))
	}
	return out
}

// FromItemDetail converts a queue record including its processing artifacts.
// Artifacts that fail to decode are omitted rather than failing the response.
func FromItemDetail(item *queue.Item) MeetingDetail {
	detail := MeetingDetail{Meeting: FromItem(item)}
	if item == nil {
		return detail
	}
	if attributed, err := item.Attributed(); err == nil && len(attributed) > 0 {
		detail.Transcript = fromAttributed(attributed)
	} else if transcript, err := item.Transcript(); err == nil && len(transcript) > 0 {
		detail.Transcript = fromTranscript(transcript)
	}
	if matches, err := item.ContextMatches(); err == nil && len(matches) > 0 {
		detail.Context = fromContextMatches(matches)
	}
	if summaries := item.Summaries(); summaries.Brief != "" || summaries.Medium != "" || summaries.Detailed != "" {
		detail.Summaries = &Summaries{
			Brief:    summaries.Brief,
			Medium:   summaries.Medium,
			Detailed: summaries.Detailed,
		}
	}
	if items, err := item.ActionItems(); err == nil && len(items) > 0 {
		detail.ActionItems = fromActionItems(items)
	}
	return detail
}

func fromAttributed(segments []meeting.AttributedSegment) []TranscriptSegment {
	out := make([]TranscriptSegment, 0, len(segments))
	for _, seg := range segments {
		out = append(out, TranscriptSegment{Start: seg.Start, End: seg.End, Text: seg.Text, Speaker: seg.Speaker})
	}
	return out
}

func fromTranscript(segments []meeting.TranscriptSegment) []TranscriptSegment {
	out := make([]TranscriptSegment, 0, len(segments))
	for _, seg := range segments {
		out = append(out, TranscriptSegment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	return out
}

func fromContextMatches(matches []meeting.ContextMatch) []ContextMatch {
	out := make([]ContextMatch, 0, len(matches))
	for _, match := range matches {
		out = append(out, ContextMatch{
			MeetingID: match.MeetingID,
			Excerpt:   match.Excerpt,
			Speaker:   match.Speaker,
			Score:     match.Score,
		})
	}
	return out
}

func fromActionItems(items []meeting.ActionItem) []ActionItem {
	out := make([]ActionItem, 0, len(items))
	for _, item := range items {
		out = append(out, ActionItem{
			Task:     item.Task,
			Assignee: item.Assignee,
			Deadline: item.Deadline,
			Priority: string(item.Priority),
		})
	}
	return out
}

// FromStatusSummary converts workflow diagnostics into the API shape.
func FromStatusSummary(summary workflow.StatusSummary) WorkflowStatus {
	status := WorkflowStatus{
		Running:    summary.Running,
		QueueStats: statsToStrings(summary.QueueStats),
		LastError:  summary.LastError,
	}
	if summary.LastItem != nil {
		item := FromItem(summary.LastItem)
		status.LastItem = &item
	}
	status.StageHealth = fromStageHealth(summary.StageHealth)
	return status
}

func fromStageHealth(health map[string]stage.Health) []StageHealth {
	out := make([]StageHealth, 0, len(health))
	for _, h := range health {
		out = append(out, StageHealth{Name: h.Name, Ready: h.Ready, Detail: h.Detail})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func statsToStrings(stats map[queue.Status]int) map[string]int {
	if len(stats) == 0 {
		return map[string]int{}
	}
	out := make(map[string]int, len(stats))
	for status, count := range stats {
		out[string(status)] = count
	}
	return out
}
