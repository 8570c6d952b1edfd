package api

import (
	"context"
	"strings"

	"quorum/internal/meeting"
	"quorum/internal/queue"
)

// MeetingReader abstracts queue persistence interactions needed for API
// queries.
type MeetingReader interface {
	List(ctx context.Context, statuses ...queue.Status) ([]*queue.Item, error)
	GetByMeetingID(ctx context.Context, meetingID string) (*queue.Item, error)
	Stats(ctx context.Context) (map[queue.Status]int, error)
}

// MeetingService exposes read-only meeting operations returning API DTOs.
type MeetingService struct {
	store MeetingReader
}

// NewMeetingService constructs a MeetingService around the provided reader.
func NewMeetingService(store MeetingReader) *MeetingService {
	if store == nil {
		return nil
	}
	return &MeetingService{store: store}
}

// List returns meetings filtered by status.
func (s *MeetingService) List(ctx context.Context, statuses ...queue.Status) ([]Meeting, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	items, err := s.store.List(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	return FromItems(items), nil
}

// Describe fetches a single meeting with its artifacts. Returns nil when the
// meeting does not exist.
func (s *MeetingService) Describe(ctx context.Context, meetingID string) (*MeetingDetail, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	item, err := s.store.GetByMeetingID(ctx, meetingID)
	if err != nil || item == nil {
		return nil, err
	}
	detail := FromItemDetail(item)
	return &detail, nil
}

// Summary fetches one cached summary level for a meeting. A missing meeting
// returns (nil, false, nil); an unknown level returns (nil, false, nil) with
// ok reporting whether the level name was valid.
func (s *MeetingService) Summary(ctx context.Context, meetingID, level string) (*SummaryResponse, bool, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = meeting.LevelMedium
	}
	if level != meeting.LevelBrief && level != meeting.LevelMedium && level != meeting.LevelDetailed {
		return nil, false, nil
	}
	if s == nil || s.store == nil {
		return nil, true, nil
	}
	item, err := s.store.GetByMeetingID(ctx, meetingID)
	if err != nil || item == nil {
		return nil, true, err
	}
	summaries := item.Summaries()
	text := ""
	switch level {
	case meeting.LevelBrief:
		text = summaries.Brief
	case meeting.LevelMedium:
		text = summaries.Medium
	case meeting.LevelDetailed:
		text = summaries.Detailed
	}
	return &SummaryResponse{MeetingID: item.MeetingID, Level: level, Summary: text}, true, nil
}

// Stats returns queue summary counts keyed by status string.
func (s *MeetingService) Stats(ctx context.Context) (map[string]int, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return statsToStrings(stats), nil
}
