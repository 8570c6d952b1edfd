package stt_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"quorum/internal/services"
	"quorum/internal/stt"
	"quorum/internal/testsupport"
)

func TestTranscribeParsesSegments(t *testing.T) {
	var gotModel, gotLanguage string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcribe" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"segments":[{"start":0,"end":2.5,"text":"hello there","confidence":0.93}],"language":"en"}`))
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithTranscriberURL(server.URL))
	audioPath := filepath.Join(t.TempDir(), "meeting.wav")
	testsupport.WriteFile(t, audioPath, 256)

	client := stt.NewClient(cfg)
	segments, err := client.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if len(segments) != 1 || segments[0].Text != "hello there" {
		t.Fatalf("unexpected segments: %#v", segments)
	}
	if segments[0].End != 2.5 || segments[0].Confidence != 0.93 {
		t.Fatalf("unexpected timing or confidence: %#v", segments[0])
	}
	if gotModel != cfg.Transcriber.Model {
		t.Errorf("model field = %q, want %q", gotModel, cfg.Transcriber.Model)
	}
	if gotLanguage != cfg.Transcriber.Language {
		t.Errorf("language field = %q, want %q", gotLanguage, cfg.Transcriber.Language)
	}
}

func TestTranscribeServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithTranscriberURL(server.URL))
	audioPath := filepath.Join(t.TempDir(), "meeting.wav")
	testsupport.WriteFile(t, audioPath, 16)

	_, err := stt.NewClient(cfg).Transcribe(context.Background(), audioPath)
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestTranscribeBadJSONIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithTranscriberURL(server.URL))
	audioPath := filepath.Join(t.TempDir(), "meeting.wav")
	testsupport.WriteFile(t, audioPath, 16)

	_, err := stt.NewClient(cfg).Transcribe(context.Background(), audioPath)
	if !errors.Is(err, services.ErrMalformed) {
		t.Fatalf("expected malformed error, got %v", err)
	}
}

func TestTranscribeMissingAudioIsValidation(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTranscriberURL("http://127.0.0.1:0"))
	_, err := stt.NewClient(cfg).Transcribe(context.Background(), "/nonexistent/audio.wav")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithTranscriberURL(server.URL))
	if err := stt.NewClient(cfg).Health(context.Background()); err != nil {
		t.Fatalf("Health failed: %v", err)
	}
}
