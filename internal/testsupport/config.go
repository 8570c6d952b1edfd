package testsupport

import (
	"path/filepath"
	"testing"

	"quorum/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StageDir = filepath.Join(base, "stage")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.LLM.APIKey = "test"
	cfgVal.Embeddings.APIKey = "test"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTranscriberURL points the speech-to-text adapter at a test server.
func WithTranscriberURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcriber.BaseURL = url
	}
}

// WithDiarizerURL points the diarization adapter at a test server and
// enables it.
func WithDiarizerURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Diarizer.Enabled = true
		b.cfg.Diarizer.BaseURL = url
	}
}

// WithLLMURL points the language-model client at a test server.
func WithLLMURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.BaseURL = url
	}
}

// WithVectorStoreURL points the vector store client at a test server.
func WithVectorStoreURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.VectorStore.URL = url
	}
}

// WithEmbeddingsURL points the embedding client at a test server.
func WithEmbeddingsURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Embeddings.BaseURL = url
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StageDir)
}
