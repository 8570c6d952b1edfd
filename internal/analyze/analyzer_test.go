package analyze_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"quorum/internal/analyze"
	"quorum/internal/logging"
	"quorum/internal/meeting"
	"quorum/internal/queue"
	"quorum/internal/services"
	"quorum/internal/testsupport"
)

type fakeTranscriber struct {
	segments []meeting.TranscriptSegment
	err      error
}

func (f *fakeTranscriber) Transcribe(context.Context, string) ([]meeting.TranscriptSegment, error) {
	return f.segments, f.err
}

func (f *fakeTranscriber) Health(context.Context) error { return nil }

type fakeDiarizer struct {
	enabled  bool
	segments []meeting.SpeakerSegment
	err      error
}

func (f *fakeDiarizer) Enabled() bool { return f.enabled }

func (f *fakeDiarizer) Diarize(context.Context, string) ([]meeting.SpeakerSegment, error) {
	return f.segments, f.err
}

func (f *fakeDiarizer) Health(context.Context) error { return nil }

func newItem(t *testing.T, store *queue.Store, audioPath string) *queue.Item {
	t.Helper()
	item := testsupport.NewMeeting(t, store, "Analysis Test", audioPath)
	item.Status = queue.StatusAnalyzing
	return item
}

func TestExecuteStoresTranscriptAndSpeakers(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	audioPath := filepath.Join(t.TempDir(), "audio.wav")
	testsupport.WriteFile(t, audioPath, 64)

	transcriber := &fakeTranscriber{segments: []meeting.TranscriptSegment{
		{Start: 0, End: 2, Text: "hello", Confidence: 0.9},
	}}
	diarizer := &fakeDiarizer{enabled: true, segments: []meeting.SpeakerSegment{
		{Start: 0, End: 2, Speaker: "SPEAKER_00"},
	}}
	analyzer := analyze.NewAnalyzerWithDependencies(cfg, store, logging.NewNop(), transcriber, diarizer)

	item := newItem(t, store, audioPath)
	ctx := context.Background()
	if err := analyzer.Prepare(ctx, item); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := analyzer.Execute(ctx, item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	transcript, err := item.Transcript()
	if err != nil || len(transcript) != 1 {
		t.Fatalf("unexpected transcript: %v %v", transcript, err)
	}
	speakers, err := item.Diarization()
	if err != nil || len(speakers) != 1 {
		t.Fatalf("unexpected diarization: %v %v", speakers, err)
	}
	if len(item.Warnings()) != 0 {
		t.Fatalf("unexpected warnings: %v", item.Warnings())
	}
}

func TestExecuteFailsWhenTranscriptionFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	audioPath := filepath.Join(t.TempDir(), "audio.wav")
	testsupport.WriteFile(t, audioPath, 64)

	transcriber := &fakeTranscriber{err: services.Wrap(services.ErrUnavailable, "transcription", "send request", "down", nil)}
	analyzer := analyze.NewAnalyzerWithDependencies(cfg, store, logging.NewNop(), transcriber, &fakeDiarizer{})

	item := newItem(t, store, audioPath)
	err := analyzer.Execute(context.Background(), item)
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestExecuteDegradesOnDiarizationFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	audioPath := filepath.Join(t.TempDir(), "audio.wav")
	testsupport.WriteFile(t, audioPath, 64)

	transcriber := &fakeTranscriber{segments: []meeting.TranscriptSegment{
		{Start: 0, End: 1, Text: "solo"},
	}}
	diarizer := &fakeDiarizer{enabled: true, err: errors.New("gpu busy")}
	analyzer := analyze.NewAnalyzerWithDependencies(cfg, store, logging.NewNop(), transcriber, diarizer)

	item := newItem(t, store, audioPath)
	if err := analyzer.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if item.DiarizationJSON != "" {
		t.Fatalf("expected empty diarization, got %q", item.DiarizationJSON)
	}
	warnings := item.Warnings()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "diarization") {
		t.Fatalf("expected diarization warning, got %v", warnings)
	}
}

func TestExecuteRejectsEmptyTranscript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	audioPath := filepath.Join(t.TempDir(), "audio.wav")
	testsupport.WriteFile(t, audioPath, 64)

	analyzer := analyze.NewAnalyzerWithDependencies(cfg, store, logging.NewNop(), &fakeTranscriber{}, &fakeDiarizer{})
	item := newItem(t, store, audioPath)
	err := analyzer.Execute(context.Background(), item)
	if !errors.Is(err, services.ErrMalformed) {
		t.Fatalf("expected malformed error, got %v", err)
	}
}

func TestPrepareRequiresAudioFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	analyzer := analyze.NewAnalyzerWithDependencies(cfg, store, logging.NewNop(), &fakeTranscriber{}, &fakeDiarizer{})
	item := newItem(t, store, "/nonexistent/audio.wav")
	err := analyzer.Prepare(context.Background(), item)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
