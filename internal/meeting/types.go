package meeting

import "strings"

// UnknownSpeaker is the sentinel label assigned when no diarization segment
// overlaps a transcript segment.
const UnknownSpeaker = "Unknown"

// TranscriptSegment is one timed text segment produced by the speech-to-text
// service. Segments are ordered and non-overlapping with monotonically
// increasing start times.
type TranscriptSegment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// SpeakerSegment is one speaker turn produced by the diarization service.
// Turns are ordered by start time and may overlap across speakers.
type SpeakerSegment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// AttributedSegment is a transcript segment annotated with the speaker that
// best overlaps it in time.
type AttributedSegment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Speaker    string  `json:"speaker"`
	Confidence float64 `json:"confidence"`
}

// ContextMatch is one historical excerpt retrieved from the vector store.
// Score is the similarity in [0, 1]; the querying meeting is never returned.
type ContextMatch struct {
	MeetingID string  `json:"meeting_id"`
	Excerpt   string  `json:"excerpt"`
	Speaker   string  `json:"speaker,omitempty"`
	Score     float64 `json:"score"`
}

// Priority classifies the urgency of an action item.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority normalizes a free-form priority value, defaulting to medium.
func ParsePriority(value string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(value))) {
	case PriorityLow:
		return PriorityLow
	case PriorityHigh:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// ActionItem is one structured follow-up extracted from the meeting.
type ActionItem struct {
	Task     string   `json:"task"`
	Assignee string   `json:"assignee,omitempty"`
	Deadline string   `json:"deadline,omitempty"`
	Priority Priority `json:"priority"`
}

// Summaries holds the three independently derivable summary detail levels.
type Summaries struct {
	Brief    string `json:"brief"`
	Medium   string `json:"medium"`
	Detailed string `json:"detailed"`
}

// Level names for summary detail selection.
const (
	LevelBrief    = "brief"
	LevelMedium   = "medium"
	LevelDetailed = "detailed"
)

// SpeakerCount returns the number of distinct non-sentinel speakers in an
// attributed transcript.
func SpeakerCount(segments []AttributedSegment) int {
	seen := make(map[string]struct{})
	for _, seg := range segments {
		if seg.Speaker == "" || seg.Speaker == UnknownSpeaker {
			continue
		}
		seen[seg.Speaker] = struct{}{}
	}
	return len(seen)
}
