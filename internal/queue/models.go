package queue

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"quorum/internal/meeting"
)

// Status represents the lifecycle of a queue item.
type Status string

const (
	StatusPending           Status = "pending"
	StatusAnalyzing         Status = "analyzing"
	StatusAnalyzed          Status = "analyzed"
	StatusMerging           Status = "merging"
	StatusMerged            Status = "merged"
	StatusRetrievingContext Status = "retrieving_context"
	StatusContextRetrieved  Status = "context_retrieved"
	StatusSummarizing       Status = "summarizing"
	StatusSummarized        Status = "summarized"
	StatusExtractingActions Status = "extracting_actions"
	StatusActionsExtracted  Status = "actions_extracted"
	StatusStoring           Status = "storing"
	StatusCompleted         Status = "completed"
	StatusFailed            Status = "failed"
)

// DaemonStopReason is the error message set when items are failed due to daemon shutdown.
const DaemonStopReason = "Daemon stopped"

var allStatuses = []Status{
	StatusPending,
	StatusAnalyzing,
	StatusAnalyzed,
	StatusMerging,
	StatusMerged,
	StatusRetrievingContext,
	StatusContextRetrieved,
	StatusSummarizing,
	StatusSummarized,
	StatusExtractingActions,
	StatusActionsExtracted,
	StatusStoring,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusAnalyzing:         {},
	StatusMerging:           {},
	StatusRetrievingContext: {},
	StatusSummarizing:       {},
	StatusExtractingActions: {},
	StatusStoring:           {},
}

type statusTransition struct {
	from Status
	to   Status
}

var stageRollbackTransitions = []statusTransition{
	{from: StatusAnalyzing, to: StatusPending},
	{from: StatusMerging, to: StatusAnalyzed},
	{from: StatusRetrievingContext, to: StatusMerged},
	{from: StatusSummarizing, to: StatusContextRetrieved},
	{from: StatusExtractingActions, to: StatusSummarized},
	{from: StatusStoring, to: StatusActionsExtracted},
}

func processingRollbackTransitions() []statusTransition {
	return stageRollbackTransitions
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Completed  int
}

// Item represents a meeting run persisted in SQLite. The JSON columns hold
// intermediate stage artifacts so any stage can resume from stored state.
type Item struct {
	ID               int64
	MeetingID        string
	Title            string
	ParticipantsJSON string
	AudioPath        string
	Status           Status
	TranscriptJSON   string
	DiarizationJSON  string
	AttributedJSON   string
	ContextJSON      string
	SummaryBrief     string
	SummaryMedium    string
	SummaryDetailed  string
	ActionItemsJSON  string
	WarningsJSON     string
	FailedStage      string
	ErrorMessage     string
	ProgressStage    string
	ProgressPercent  float64
	ProgressMessage  string
	LastHeartbeat    *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight operation.
func (i Item) IsProcessing() bool {
	return IsProcessingStatus(i.Status)
}

// IsProcessingStatus reports whether a status reflects an in-flight operation.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// IsTerminal reports whether a status cannot progress further.
func IsTerminal(status Status) bool {
	return status == StatusCompleted || status == StatusFailed
}

// InitProgress resets progress fields for a new stage.
func (i *Item) InitProgress(stage, message string) {
	if i.ProgressStage == "" {
		i.ProgressStage = stage
	}
	i.ProgressMessage = message
	i.ProgressPercent = 0
	i.ErrorMessage = ""
}

// SetProgress updates all three progress fields atomically.
func (i *Item) SetProgress(stage, message string, percent float64) {
	i.ProgressStage = stage
	i.ProgressMessage = message
	i.ProgressPercent = percent
}

// SetProgressComplete sets progress to 100% with the given stage and message.
func (i *Item) SetProgressComplete(stage, message string) {
	i.SetProgress(stage, message, 100)
}

// SetFailed marks the item as failed at the given stage.
func (i *Item) SetFailed(stage, message string) {
	i.Status = StatusFailed
	i.FailedStage = stage
	i.ErrorMessage = message
	i.ProgressPercent = 0
	i.ProgressMessage = message
	i.LastHeartbeat = nil
	i.ProgressStage = "Failed"
}

// AddWarning appends a stage warning so degraded runs stay inspectable.
func (i *Item) AddWarning(stage, message string) {
	warnings := i.Warnings()
	warnings = append(warnings, fmt.Sprintf("%s: %s", stage, message))
	encoded, err := json.Marshal(warnings)
	if err != nil {
		return
	}
	i.WarningsJSON = string(encoded)
}

// Warnings returns the accumulated stage warnings, oldest first.
func (i Item) Warnings() []string {
	if strings.TrimSpace(i.WarningsJSON) == "" {
		return nil
	}
	var warnings []string
	if err := json.Unmarshal([]byte(i.WarningsJSON), &warnings); err != nil {
		return nil
	}
	return warnings
}

// Participants decodes the participant roster supplied at enqueue time.
func (i Item) Participants() []string {
	if strings.TrimSpace(i.ParticipantsJSON) == "" {
		return nil
	}
	var participants []string
	if err := json.Unmarshal([]byte(i.ParticipantsJSON), &participants); err != nil {
		return nil
	}
	return participants
}

// Transcript decodes the stored speech-to-text segments.
func (i Item) Transcript() ([]meeting.TranscriptSegment, error) {
	if strings.TrimSpace(i.TranscriptJSON) == "" {
		return nil, nil
	}
	var segments []meeting.TranscriptSegment
	if err := json.Unmarshal([]byte(i.TranscriptJSON), &segments); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return segments, nil
}

// Diarization decodes the stored speaker turns.
func (i Item) Diarization() ([]meeting.SpeakerSegment, error) {
	if strings.TrimSpace(i.DiarizationJSON) == "" {
		return nil, nil
	}
	var segments []meeting.SpeakerSegment
	if err := json.Unmarshal([]byte(i.DiarizationJSON), &segments); err != nil {
		return nil, fmt.Errorf("decode diarization: %w", err)
	}
	return segments, nil
}

// Attributed decodes the stored speaker-attributed transcript.
func (i Item) Attributed() ([]meeting.AttributedSegment, error) {
	if strings.TrimSpace(i.AttributedJSON) == "" {
		return nil, nil
	}
	var segments []meeting.AttributedSegment
	if err := json.Unmarshal([]byte(i.AttributedJSON), &segments); err != nil {
		return nil, fmt.Errorf("decode attributed transcript: %w", err)
	}
	return segments, nil
}

// ContextMatches decodes the stored retrieval results.
func (i Item) ContextMatches() ([]meeting.ContextMatch, error) {
	if strings.TrimSpace(i.ContextJSON) == "" {
		return nil, nil
	}
	var matches []meeting.ContextMatch
	if err := json.Unmarshal([]byte(i.ContextJSON), &matches); err != nil {
		return nil, fmt.Errorf("decode context matches: %w", err)
	}
	return matches, nil
}

// ActionItems decodes the stored action items.
func (i Item) ActionItems() ([]meeting.ActionItem, error) {
	if strings.TrimSpace(i.ActionItemsJSON) == "" {
		return nil, nil
	}
	var items []meeting.ActionItem
	if err := json.Unmarshal([]byte(i.ActionItemsJSON), &items); err != nil {
		return nil, fmt.Errorf("decode action items: %w", err)
	}
	return items, nil
}

// Summaries collects the three stored summary levels.
func (i Item) Summaries() meeting.Summaries {
	return meeting.Summaries{
		Brief:    i.SummaryBrief,
		Medium:   i.SummaryMedium,
		Detailed: i.SummaryDetailed,
	}
}

// StageKey returns the normalized stage identifier used in API/CLI presentation.
func (s Status) StageKey() string {
	switch s {
	case "":
		return ""
	case StatusPending:
		return "planned"
	case StatusCompleted:
		return "final"
	default:
		if _, ok := statusSet[s]; ok {
			return string(s)
		}
		return ""
	}
}
