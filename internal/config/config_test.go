package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quorum/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.StageDir = filepath.Join(base, "stage")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Retrieval.Limit != 5 || cfg.Retrieval.ScoreThreshold != 0.7 {
		t.Fatalf("defaults not applied: %+v", cfg.Retrieval)
	}
	if cfg.Workflow.WorkerCount <= 0 {
		t.Fatalf("worker count must default positive, got %d", cfg.Workflow.WorkerCount)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[paths]
stage_dir = "` + filepath.Join(dir, "stage") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[retrieval]
limit = 3
score_threshold = 0.5

[workflow]
worker_count = 4
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Retrieval.Limit != 3 {
		t.Fatalf("retrieval.limit = %d, want 3", cfg.Retrieval.Limit)
	}
	if cfg.Retrieval.ScoreThreshold != 0.5 {
		t.Fatalf("retrieval.score_threshold = %v, want 0.5", cfg.Retrieval.ScoreThreshold)
	}
	if cfg.Workflow.WorkerCount != 4 {
		t.Fatalf("workflow.worker_count = %d, want 4", cfg.Workflow.WorkerCount)
	}
	// Unset sections keep defaults.
	if cfg.Transcriber.BaseURL == "" {
		t.Fatal("transcriber defaults missing")
	}
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.StageDir = filepath.Join(base, "stage")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Retrieval.ScoreThreshold = 1.5
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "score_threshold") {
		t.Fatalf("expected score_threshold error, got %v", err)
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.StageDir = filepath.Join(base, "stage")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported log format")
	}
}

func TestSampleConfigNotEmpty(t *testing.T) {
	if !strings.Contains(config.SampleConfig(), "[vector_store]") {
		t.Fatal("sample config should document the vector_store section")
	}
}
