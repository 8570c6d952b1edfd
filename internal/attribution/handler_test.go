package attribution_test

import (
	"context"
	"testing"

	"quorum/internal/attribution"
	"quorum/internal/logging"
	"quorum/internal/queue"
	"quorum/internal/services"
	"quorum/internal/testsupport"
)

func TestHandlerExecuteAttributesSpeakers(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	handler := attribution.NewHandler(cfg, store, logging.NewNop())

	item := testsupport.NewMeeting(t, store, "Merge Test", "/tmp/a.wav")
	item.Status = queue.StatusMerging
	item.TranscriptJSON = `[{"start":0,"end":2,"text":"hello"},{"start":2,"end":5,"text":"world"}]`
	item.DiarizationJSON = `[{"start":0,"end":3,"speaker":"A"},{"start":3,"end":5,"speaker":"B"}]`

	ctx := context.Background()
	if err := handler.Prepare(ctx, item); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := handler.Execute(ctx, item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	attributed, err := item.Attributed()
	if err != nil {
		t.Fatalf("Attributed decode failed: %v", err)
	}
	if len(attributed) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(attributed))
	}
	if attributed[0].Speaker != "A" || attributed[1].Speaker != "B" {
		t.Fatalf("unexpected speakers: %#v", attributed)
	}
}

func TestHandlerPrepareRequiresTranscript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	handler := attribution.NewHandler(cfg, store, logging.NewNop())

	item := testsupport.NewMeeting(t, store, "No Transcript", "/tmp/a.wav")
	err := handler.Prepare(context.Background(), item)
	if err == nil {
		t.Fatal("expected error for missing transcript")
	}
	if services.Kind(err) != "validation_error" {
		t.Fatalf("unexpected error kind: %v", services.Kind(err))
	}
}

func TestHandlerExecuteWithoutDiarization(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	handler := attribution.NewHandler(cfg, store, logging.NewNop())

	item := testsupport.NewMeeting(t, store, "Unattributed", "/tmp/a.wav")
	item.TranscriptJSON = `[{"start":0,"end":1,"text":"solo"}]`

	if err := handler.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	attributed, err := item.Attributed()
	if err != nil || len(attributed) != 1 {
		t.Fatalf("unexpected attributed transcript: %v %v", attributed, err)
	}
	if attributed[0].Speaker != "Unknown" {
		t.Fatalf("speaker = %q, want Unknown", attributed[0].Speaker)
	}
}
