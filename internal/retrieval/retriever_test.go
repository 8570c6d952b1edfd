package retrieval_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"quorum/internal/logging"
	"quorum/internal/meeting"
	"quorum/internal/queue"
	"quorum/internal/retrieval"
	"quorum/internal/testsupport"
	"quorum/internal/vectorstore"
)

type fakeEmbedder struct {
	vector   []float32
	err      error
	lastText string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.lastText = text
	return f.vector, f.err
}

type fakeVectorStore struct {
	matches     []meeting.ContextMatch
	err         error
	lastExclude string
	lastLimit   int
}

func (f *fakeVectorStore) EnsureCollection(context.Context) error { return nil }

func (f *fakeVectorStore) Upsert(context.Context, vectorstore.Record, []float32) error { return nil }

func (f *fakeVectorStore) Query(_ context.Context, _ []float32, exclude string, limit int, _ float64) ([]meeting.ContextMatch, error) {
	f.lastExclude = exclude
	f.lastLimit = limit
	return f.matches, f.err
}

func (f *fakeVectorStore) Delete(context.Context, string) error { return nil }

func (f *fakeVectorStore) Health(context.Context) error { return nil }

func newMergedItem(t *testing.T, store *queue.Store) *queue.Item {
	t.Helper()
	item := testsupport.NewMeeting(t, store, "Retrieval Test", "/tmp/a.wav")
	item.Status = queue.StatusRetrievingContext
	item.AttributedJSON = `[{"start":0,"end":2,"text":"quarterly budget review","speaker":"Alice"}]`
	return item
}

func TestExecuteStoresMatches(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	vectors := &fakeVectorStore{matches: []meeting.ContextMatch{
		{MeetingID: "m-old", Excerpt: "last budget meeting", Speaker: "Bob", Score: 0.8},
	}}
	retriever := retrieval.NewRetrieverWithDependencies(cfg, store, logging.NewNop(), embedder, vectors)

	item := newMergedItem(t, store)
	ctx := context.Background()
	if err := retriever.Prepare(ctx, item); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := retriever.Execute(ctx, item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	matches, err := item.ContextMatches()
	if err != nil || len(matches) != 1 {
		t.Fatalf("unexpected matches: %v %v", matches, err)
	}
	if matches[0].MeetingID != "m-old" {
		t.Fatalf("unexpected match: %#v", matches[0])
	}
	if vectors.lastExclude != item.MeetingID {
		t.Fatalf("exclusion = %q, want %q", vectors.lastExclude, item.MeetingID)
	}
	if vectors.lastLimit != cfg.Retrieval.Limit {
		t.Fatalf("limit = %d, want %d", vectors.lastLimit, cfg.Retrieval.Limit)
	}
	if !strings.Contains(embedder.lastText, "quarterly budget review") {
		t.Fatalf("unexpected query text: %q", embedder.lastText)
	}
}

func TestExecuteDegradesWhenEmbeddingFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	embedder := &fakeEmbedder{err: errors.New("embedding service down")}
	retriever := retrieval.NewRetrieverWithDependencies(cfg, store, logging.NewNop(), embedder, &fakeVectorStore{})

	item := newMergedItem(t, store)
	if err := retriever.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if item.ContextJSON != "" {
		t.Fatalf("expected empty context, got %q", item.ContextJSON)
	}
	warnings := item.Warnings()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "context_retrieval") {
		t.Fatalf("expected retrieval warning, got %v", warnings)
	}
}

func TestExecuteDegradesWhenStoreFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	vectors := &fakeVectorStore{err: errors.New("qdrant unreachable")}
	retriever := retrieval.NewRetrieverWithDependencies(cfg, store, logging.NewNop(), embedder, vectors)

	item := newMergedItem(t, store)
	if err := retriever.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(item.Warnings()) != 1 {
		t.Fatalf("expected warning, got %v", item.Warnings())
	}
}

func TestExecuteSortsAndTruncates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Retrieval.Limit = 2
	store := testsupport.MustOpenStore(t, cfg)
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	vectors := &fakeVectorStore{matches: []meeting.ContextMatch{
		{MeetingID: "low", Score: 0.71},
		{MeetingID: "high", Score: 0.95},
		{MeetingID: "mid", Score: 0.80},
	}}
	retriever := retrieval.NewRetrieverWithDependencies(cfg, store, logging.NewNop(), embedder, vectors)

	item := newMergedItem(t, store)
	if err := retriever.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	matches, err := item.ContextMatches()
	if err != nil {
		t.Fatalf("ContextMatches failed: %v", err)
	}
	if len(matches) != 2 || matches[0].MeetingID != "high" || matches[1].MeetingID != "mid" {
		t.Fatalf("unexpected matches: %#v", matches)
	}
}

func TestExecuteSkipsEmptyTranscriptText(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	retriever := retrieval.NewRetrieverWithDependencies(cfg, store, logging.NewNop(), embedder, &fakeVectorStore{})

	item := testsupport.NewMeeting(t, store, "Empty", "/tmp/a.wav")
	item.AttributedJSON = `[{"start":0,"end":1,"text":"   ","speaker":"Unknown"}]`
	if err := retriever.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if embedder.lastText != "" {
		t.Fatalf("expected no embedding call, got query %q", embedder.lastText)
	}
}
