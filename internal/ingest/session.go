package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"log/slog"

	"quorum/internal/config"
	"quorum/internal/logging"
	"quorum/internal/meeting"
	"quorum/internal/services"
	"quorum/internal/textutil"
)

// Transcriber produces transcript segments for an audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]meeting.TranscriptSegment, error)
}

// Session assembles one meeting's audio stream and emits partial transcripts
// as full chunks accumulate. Finalize writes the complete WAV for the
// pipeline run.
type Session struct {
	meetingID   string
	dir         string
	assembler   *Assembler
	transcriber Transcriber
	logger      *slog.Logger
	minPartial  float64
	offset      float64
	chunkIndex  int
}

// NewSession creates a streaming session rooted in the stage directory.
func NewSession(cfg *config.Config, meetingID string, transcriber Transcriber, logger *slog.Logger) (*Session, error) {
	dir := filepath.Join(cfg.Paths.StageDir, "stream", textutil.SanitizeToken(meetingID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "ingest", "create session dir",
			"Failed to create streaming work directory", err)
	}
	return &Session{
		meetingID:   meetingID,
		dir:         dir,
		assembler:   NewAssembler(cfg),
		transcriber: transcriber,
		logger:      logging.NewComponentLogger(logger, "ingest"),
		minPartial:  cfg.Ingest.MinPartialSeconds,
	}, nil
}

// Ingest appends one sequenced PCM chunk and returns any partial transcript
// segments produced by newly completed pieces. Transcription failures on a
// partial are logged and skipped; the full run covers the audio again.
func (s *Session) Ingest(ctx context.Context, seq int, data []byte) ([]meeting.TranscriptSegment, error) {
	if err := s.assembler.Append(seq, data); err != nil {
		return nil, err
	}

	var partials []meeting.TranscriptSegment
	for {
		chunk, ok := s.assembler.NextChunk()
		if !ok {
			break
		}
		chunkDuration := float64(len(chunk)) / float64(s.assembler.SampleRate()*bytesPerSample)
		start := s.offset
		s.offset += chunkDuration
		if s.transcriber == nil || chunkDuration < s.minPartial {
			continue
		}
		segments, err := s.transcribeChunk(ctx, chunk)
		if err != nil {
			s.logger.Warn("partial transcription failed, skipping chunk",
				logging.String(logging.FieldMeetingID, s.meetingID),
				logging.Error(err))
			continue
		}
		for _, seg := range segments {
			seg.Start += start
			seg.End += start
			partials = append(partials, seg)
		}
	}
	return partials, nil
}

func (s *Session) transcribeChunk(ctx context.Context, chunk []byte) ([]meeting.TranscriptSegment, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("chunk-%04d.wav", s.chunkIndex))
	s.chunkIndex++
	if err := WriteWAV(path, chunk, s.assembler.SampleRate()); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "ingest", "write chunk",
			"Failed to write partial chunk WAV", err)
	}
	defer os.Remove(path)
	return s.transcriber.Transcribe(ctx, path)
}

// Duration reports the total received audio length in seconds.
func (s *Session) Duration() float64 {
	return s.assembler.Duration()
}

// Finalize writes the full WAV and returns its path. The session must have
// received audio.
func (s *Session) Finalize() (string, error) {
	pcm := s.assembler.Bytes()
	if len(pcm) == 0 {
		return "", services.Wrap(services.ErrValidation, "ingest", "finalize",
			"No audio received on stream", nil)
	}
	path := filepath.Join(s.dir, "meeting.wav")
	if err := WriteWAV(path, pcm, s.assembler.SampleRate()); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "ingest", "finalize",
			"Failed to write meeting WAV", err)
	}
	s.logger.Info("stream finalized",
		logging.String(logging.FieldMeetingID, s.meetingID),
		logging.Float64("duration_seconds", s.Duration()),
	)
	return path, nil
}
