package queue

import (
	"database/sql"
	"errors"
	"time"
)

const itemColumns = "id, meeting_id, title, participants_json, audio_path, status, " +
	"transcript_json, diarization_json, attributed_json, context_json, " +
	"summary_brief, summary_medium, summary_detailed, action_items_json, " +
	"warnings_json, failed_stage, error_message, created_at, updated_at, " +
	"progress_stage, progress_percent, progress_message, last_heartbeat"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id               int64
		meetingID        string
		title            sql.NullString
		participants     sql.NullString
		audioPath        sql.NullString
		statusStr        string
		transcript       sql.NullString
		diarization      sql.NullString
		attributed       sql.NullString
		contextJSON      sql.NullString
		summaryBrief     sql.NullString
		summaryMedium    sql.NullString
		summaryDetailed  sql.NullString
		actionItems      sql.NullString
		warnings         sql.NullString
		failedStage      sql.NullString
		errorMessage     sql.NullString
		createdRaw       sql.NullString
		updatedRaw       sql.NullString
		progressStage    sql.NullString
		progressPercent  sql.NullFloat64
		progressMessage  sql.NullString
		lastHeartbeatRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&meetingID,
		&title,
		&participants,
		&audioPath,
		&statusStr,
		&transcript,
		&diarization,
		&attributed,
		&contextJSON,
		&summaryBrief,
		&summaryMedium,
		&summaryDetailed,
		&actionItems,
		&warnings,
		&failedStage,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
		&progressStage,
		&progressPercent,
		&progressMessage,
		&lastHeartbeatRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:               id,
		MeetingID:        meetingID,
		Title:            title.String,
		ParticipantsJSON: participants.String,
		AudioPath:        audioPath.String,
		Status:           Status(statusStr),
		TranscriptJSON:   transcript.String,
		DiarizationJSON:  diarization.String,
		AttributedJSON:   attributed.String,
		ContextJSON:      contextJSON.String,
		SummaryBrief:     summaryBrief.String,
		SummaryMedium:    summaryMedium.String,
		SummaryDetailed:  summaryDetailed.String,
		ActionItemsJSON:  actionItems.String,
		WarningsJSON:     warnings.String,
		FailedStage:      failedStage.String,
		ErrorMessage:     errorMessage.String,
		ProgressStage:    progressStage.String,
		ProgressPercent:  progressPercent.Float64,
		ProgressMessage:  progressMessage.String,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	if lastHeartbeatRaw.Valid {
		if heartbeat, err := parseTimeString(lastHeartbeatRaw.String); err == nil {
			item.LastHeartbeat = &heartbeat
		}
	}
	return item, nil
}

func collectItems(rows *sql.Rows) ([]*Item, error) {
	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
