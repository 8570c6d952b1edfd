package ingest_test

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"testing"

	"quorum/internal/ingest"
	"quorum/internal/logging"
	"quorum/internal/meeting"
	"quorum/internal/services"
	"quorum/internal/testsupport"
)

type fakeTranscriber struct {
	segments []meeting.TranscriptSegment
	err      error
	calls    int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audioPath string) ([]meeting.TranscriptSegment, error) {
	f.calls++
	if _, err := os.Stat(audioPath); err != nil {
		return nil, err
	}
	return f.segments, f.err
}

func pcmSeconds(seconds float64, sampleRate int) []byte {
	return make([]byte, int(seconds*float64(sampleRate))*2)
}

func TestAssemblerCutsFixedChunks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Ingest.SampleRate = 16000
	cfg.Ingest.ChunkSeconds = 1.0
	assembler := ingest.NewAssembler(cfg)

	if err := assembler.Append(0, pcmSeconds(0.6, 16000)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if _, ok := assembler.NextChunk(); ok {
		t.Fatal("no full chunk should be ready yet")
	}
	if err := assembler.Append(1, pcmSeconds(1.5, 16000)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	chunk, ok := assembler.NextChunk()
	if !ok {
		t.Fatal("expected a full chunk")
	}
	if len(chunk) != 16000*2 {
		t.Fatalf("chunk size %d, want %d", len(chunk), 16000*2)
	}
	chunk, ok = assembler.NextChunk()
	if !ok || len(chunk) != 16000*2 {
		t.Fatal("expected a second full chunk")
	}
	if _, ok := assembler.NextChunk(); ok {
		t.Fatal("only 0.1s should remain buffered")
	}
	if got := assembler.Duration(); got < 2.09 || got > 2.11 {
		t.Fatalf("duration %.3f, want ~2.1", got)
	}
}

func TestAssemblerRejectsOutOfOrderChunks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	assembler := ingest.NewAssembler(cfg)

	if err := assembler.Append(0, []byte{1, 2}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	err := assembler.Append(2, []byte{3, 4})
	if err == nil {
		t.Fatal("expected out-of-order rejection")
	}
	if services.Kind(err) != "validation_error" {
		t.Fatalf("unexpected error kind %q", services.Kind(err))
	}
	if err := assembler.Append(1, []byte{3, 4}); err != nil {
		t.Fatalf("in-order chunk after rejection should pass: %v", err)
	}
}

func TestSessionEmitsOffsetPartials(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Ingest.SampleRate = 16000
	cfg.Ingest.ChunkSeconds = 1.0
	cfg.Ingest.MinPartialSeconds = 0.5

	transcriber := &fakeTranscriber{segments: []meeting.TranscriptSegment{
		{Start: 0.1, End: 0.9, Text: "hello"},
	}}
	session, err := ingest.NewSession(cfg, "m-1", transcriber, logging.NewNop())
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	ctx := context.Background()
	partials, err := session.Ingest(ctx, 0, pcmSeconds(1.0, 16000))
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if len(partials) != 1 || partials[0].Start != 0.1 {
		t.Fatalf("unexpected first partials %+v", partials)
	}

	partials, err = session.Ingest(ctx, 1, pcmSeconds(1.0, 16000))
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if len(partials) != 1 {
		t.Fatalf("expected one partial, got %d", len(partials))
	}
	if partials[0].Start != 1.1 || partials[0].End != 1.9 {
		t.Fatalf("second chunk segments should shift by 1s, got %+v", partials[0])
	}
	if transcriber.calls != 2 {
		t.Fatalf("expected 2 transcription calls, got %d", transcriber.calls)
	}
}

func TestSessionSkipsFailedPartials(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Ingest.SampleRate = 16000
	cfg.Ingest.ChunkSeconds = 1.0

	transcriber := &fakeTranscriber{err: errors.New("whisper down")}
	session, err := ingest.NewSession(cfg, "m-2", transcriber, logging.NewNop())
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}

	partials, err := session.Ingest(context.Background(), 0, pcmSeconds(2.0, 16000))
	if err != nil {
		t.Fatalf("Ingest should tolerate partial failures: %v", err)
	}
	if len(partials) != 0 {
		t.Fatalf("expected no partials, got %+v", partials)
	}
}

func TestFinalizeWritesPlayableWAV(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Ingest.SampleRate = 16000
	cfg.Ingest.ChunkSeconds = 1.0

	session, err := ingest.NewSession(cfg, "m-3", nil, logging.NewNop())
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	pcm := pcmSeconds(1.5, 16000)
	if _, err := session.Ingest(context.Background(), 0, pcm); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	path, err := session.Finalize()
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading WAV: %v", err)
	}
	if string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE header")
	}
	if rate := binary.LittleEndian.Uint32(data[24:28]); rate != 16000 {
		t.Fatalf("sample rate %d, want 16000", rate)
	}
	if dataLen := binary.LittleEndian.Uint32(data[40:44]); int(dataLen) != len(pcm) {
		t.Fatalf("data length %d, want %d", dataLen, len(pcm))
	}
}

func TestFinalizeRequiresAudio(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	session, err := ingest.NewSession(cfg, "m-4", nil, logging.NewNop())
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	if _, err := session.Finalize(); err == nil {
		t.Fatal("expected error for empty stream")
	}
}
