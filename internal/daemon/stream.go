package daemon

import (
	"context"
	"net/http"
	"strings"

	"log/slog"

	"github.com/gorilla/websocket"

	"quorum/internal/api"
	"quorum/internal/ingest"
	"quorum/internal/logging"
	"quorum/internal/meeting"
)

// StreamTranscriber produces partial transcripts for streamed audio chunks.
type StreamTranscriber = ingest.Transcriber

var streamUpgrader = websocket.Upgrader{
	ReadBufferSize:  32 * 1024,
	WriteBufferSize: 32 * 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// handleStream ingests binary PCM chunks over a WebSocket and pushes partial
// transcript events back. Closing the socket finalizes the WAV and enqueues
// the meeting; a "finalize" text message does the same but reports the
// enqueued meeting before closing.
func (s *apiServer) handleStream(w http.ResponseWriter, r *http.Request) {
	meetingID := strings.TrimPrefix(r.URL.Path, "/api/stream/")
	if meetingID == "" || strings.Contains(meetingID, "/") {
		s.writeError(w, http.StatusNotFound, "stream not found")
		return
	}
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	var participants []string
	for _, p := range r.URL.Query()["participant"] {
		if p = strings.TrimSpace(p); p != "" {
			participants = append(participants, p)
		}
	}

	conn, err := streamUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log().Warn("websocket upgrade failed", logging.Error(err))
		return
	}
	defer conn.Close()

	logger := s.log().With(logging.String(logging.FieldMeetingID, meetingID))
	session, err := ingest.NewSession(s.daemon.cfg, meetingID, s.transcriber, s.logger)
	if err != nil {
		logger.Error("stream session setup failed", logging.Error(err))
		_ = conn.WriteJSON(api.StreamEvent{Type: "error", Error: err.Error()})
		return
	}

	ctx := r.Context()
	seq := 0
	finalized := false
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		switch msgType {
		case websocket.BinaryMessage:
			partials, err := session.Ingest(ctx, seq, data)
			if err != nil {
				logger.Warn("chunk rejected", logging.Error(err))
				_ = conn.WriteJSON(api.StreamEvent{Type: "error", Error: err.Error()})
				continue
			}
			seq++
			if len(partials) > 0 {
				_ = conn.WriteJSON(api.StreamEvent{Type: "partial", Segments: fromPartials(partials)})
			}
		case websocket.TextMessage:
			if strings.TrimSpace(string(data)) != "finalize" {
				continue
			}
			event := s.finalizeStream(ctx, logger, session, meetingID, title, participants)
			_ = conn.WriteJSON(event)
			finalized = true
		}
		if finalized {
			return
		}
	}

	if !finalized && session.Duration() > 0 {
		s.finalizeStream(ctx, logger, session, meetingID, title, participants)
	}
}

func (s *apiServer) finalizeStream(ctx context.Context, logger *slog.Logger, session *ingest.Session, meetingID, title string, participants []string) api.StreamEvent {
	wavPath, err := session.Finalize()
	if err != nil {
		logger.Error("stream finalize failed", logging.Error(err))
		return api.StreamEvent{Type: "error", Error: err.Error()}
	}
	item, err := s.daemon.store.NewMeeting(ctx, meetingID, title, wavPath, participants)
	if err != nil {
		logger.Error("stream enqueue failed", logging.Error(err))
		return api.StreamEvent{Type: "error", Error: err.Error()}
	}
	return api.StreamEvent{Type: "enqueued", MeetingID: item.MeetingID}
}

func fromPartials(segments []meeting.TranscriptSegment) []api.TranscriptSegment {
	out := make([]api.TranscriptSegment, 0, len(segments))
	for _, seg := range segments {
		out = append(out, api.TranscriptSegment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	return out
}
