package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Meeting describes a queue entry in a transport-friendly format.
type Meeting struct {
	ID           int64           `json:"id"`
	MeetingID    string          `json:"meetingId"`
	Title        string          `json:"title"`
	Participants []string        `json:"participants,omitempty"`
	AudioPath    string          `json:"audioPath"`
	Status       string          `json:"status"`
	Progress     MeetingProgress `json:"progress"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	FailedStage  string          `json:"failedStage,omitempty"`
	Warnings     []string        `json:"warnings,omitempty"`
	CreatedAt    string          `json:"createdAt,omitempty"`
	UpdatedAt    string          `json:"updatedAt,omitempty"`
}

// MeetingProgress captures stage progress information for a queue entry.
type MeetingProgress struct {
	Stage   string  `json:"stage"`
	Percent float64 `json:"percent"`
	Message string  `json:"message"`
}

// MeetingDetail extends Meeting with the processing artifacts.
type MeetingDetail struct {
	Meeting
	Transcript  []TranscriptSegment `json:"transcript,omitempty"`
	Context     []ContextMatch      `json:"context,omitempty"`
	Summaries   *Summaries          `json:"summaries,omitempty"`
	ActionItems []ActionItem        `json:"actionItems,omitempty"`
}

// TranscriptSegment is one speaker-attributed transcript line.
type TranscriptSegment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker"`
}

// ContextMatch is one retrieved historical context entry.
type ContextMatch struct {
	MeetingID string  `json:"meetingId"`
	Excerpt   string  `json:"excerpt"`
	Speaker   string  `json:"speaker,omitempty"`
	Score     float64 `json:"score"`
}

// Summaries carries the three summary detail levels.
type Summaries struct {
	Brief    string `json:"brief,omitempty"`
	Medium   string `json:"medium,omitempty"`
	Detailed string `json:"detailed,omitempty"`
}

// ActionItem is one extracted follow-up.
type ActionItem struct {
	Task     string `json:"task"`
	Assignee string `json:"assignee,omitempty"`
	Deadline string `json:"deadline,omitempty"`
	Priority string `json:"priority"`
}

// CreateMeetingRequest enqueues a recorded meeting for processing.
type CreateMeetingRequest struct {
	AudioPath    string   `json:"audioPath"`
	Title        string   `json:"title"`
	Participants []string `json:"participants,omitempty"`
}

// SummaryResponse returns one cached summary level.
type SummaryResponse struct {
	MeetingID string `json:"meetingId"`
	Level     string `json:"level"`
	Summary   string `json:"summary"`
}

// WorkflowStatus summarizes workflow execution state.
type WorkflowStatus struct {
	Running     bool           `json:"running"`
	QueueStats  map[string]int `json:"queueStats"`
	LastError   string         `json:"lastError,omitempty"`
	LastItem    *Meeting       `json:"lastItem,omitempty"`
	StageHealth []StageHealth  `json:"stageHealth"`
}

// StageHealth mirrors readiness reporting for workflow stages.
type StageHealth struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running      bool           `json:"running"`
	QueueDBPath  string         `json:"queueDbPath"`
	LockFilePath string         `json:"lockFilePath"`
	Workflow     WorkflowStatus `json:"workflow"`
}

// HealthResponse reports daemon and stage readiness.
type HealthResponse struct {
	Healthy bool          `json:"healthy"`
	Stages  []StageHealth `json:"stages"`
}

// QueueMutationResponse reports how many queue entries a maintenance
// operation touched.
type QueueMutationResponse struct {
	Updated int64 `json:"updated"`
}

// QueueHealthResponse summarizes queue counts by lifecycle group.
type QueueHealthResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Failed     int `json:"failed"`
	Completed  int `json:"completed"`
}

// NotificationTestResponse reports the outcome of a test notification.
type NotificationTestResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}

// MeetingListResponse wraps a collection of meetings.
type MeetingListResponse struct {
	Meetings []Meeting `json:"meetings"`
}

// MeetingResponse wraps a single meeting with artifacts.
type MeetingResponse struct {
	Meeting MeetingDetail `json:"meeting"`
}

// StreamEvent is one server-to-client message on the ingestion socket.
type StreamEvent struct {
	Type      string              `json:"type"`
	Segments  []TranscriptSegment `json:"segments,omitempty"`
	MeetingID string              `json:"meetingId,omitempty"`
	Error     string              `json:"error,omitempty"`
}
