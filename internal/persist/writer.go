package persist

import (
	"context"
	"strings"
	"time"

	"log/slog"

	"quorum/internal/config"
	"quorum/internal/embeddings"
	"quorum/internal/logging"
	"quorum/internal/meeting"
	"quorum/internal/queue"
	"quorum/internal/services"
	"quorum/internal/stage"
	"quorum/internal/vectorstore"
)

// Embedder vectorizes the stored excerpt.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Writer is the workflow stage that indexes the finished meeting in the
// vector store so later meetings can retrieve it as context. The stage is
// best effort: an embedding or store failure records a warning and the run
// still completes.
type Writer struct {
	store    *queue.Store
	cfg      *config.Config
	logger   *slog.Logger
	embedder Embedder
	vectors  vectorstore.Store
}

// NewWriter constructs the storing stage handler using default dependencies.
func NewWriter(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Writer {
	return NewWriterWithDependencies(cfg, store, logger, embeddings.NewClient(cfg), vectorstore.NewQdrant(cfg))
}

// NewWriterWithDependencies allows injecting collaborators (used in tests).
func NewWriterWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, embedder Embedder, vectors vectorstore.Store) *Writer {
	return &Writer{
		store:    store,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "persist"),
		embedder: embedder,
		vectors:  vectors,
	}
}

func (w *Writer) Prepare(ctx context.Context, item *queue.Item) error {
	item.InitProgress("Storing", "Preparing vector store write")
	if strings.TrimSpace(item.AttributedJSON) == "" {
		return services.Wrap(services.ErrValidation, "storing", "validate inputs",
			"No attributed transcript present; nothing to index", nil)
	}
	return nil
}

func (w *Writer) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, w.logger)

	attributed, err := item.Attributed()
	if err != nil {
		return services.Wrap(services.ErrInvariant, "storing", "decode transcript",
			"Stored attributed transcript is undecodable", err)
	}

	excerpt := meeting.QueryExcerpt(attributed, w.cfg.Retrieval.QueryChars)
	if excerpt == "" {
		item.SetProgressComplete("Storing", "No transcript text to index")
		return nil
	}

	if err := w.index(ctx, item, attributed, excerpt); err != nil {
		logger.Warn("vector store write failed, completing without index",
			logging.String(logging.FieldMeetingID, item.MeetingID),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.Error(err))
		item.AddWarning("vector_store", err.Error())
		item.SetProgressComplete("Storing", "Completed without vector index")
		return nil
	}

	item.SetProgressComplete("Storing", "Meeting indexed for future retrieval")
	logger.Info("meeting indexed",
		logging.String(logging.FieldMeetingID, item.MeetingID),
		logging.Int("excerpt_chars", len(excerpt)))
	return nil
}

func (w *Writer) index(ctx context.Context, item *queue.Item, attributed []meeting.AttributedSegment, excerpt string) error {
	vector, err := w.embedder.Embed(ctx, excerpt)
	if err != nil {
		return err
	}
	if err := w.vectors.EnsureCollection(ctx); err != nil {
		return err
	}
	record := vectorstore.Record{
		MeetingID:    item.MeetingID,
		Title:        item.Title,
		Excerpt:      excerpt,
		Speaker:      dominantSpeaker(attributed),
		SpeakerCount: meeting.SpeakerCount(attributed),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
	return w.vectors.Upsert(ctx, record, vector)
}

// dominantSpeaker returns the attributed speaker with the most talk time,
// preferring any named speaker over "Unknown".
func dominantSpeaker(segments []meeting.AttributedSegment) string {
	totals := make(map[string]float64, 4)
	for _, seg := range segments {
		totals[seg.Speaker] += seg.End - seg.Start
	}
	best := meeting.UnknownSpeaker
	bestTotal := -1.0
	for speaker, total := range totals {
		if speaker == meeting.UnknownSpeaker {
			continue
		}
		if total > bestTotal || (total == bestTotal && speaker < best) {
			best = speaker
			bestTotal = total
		}
	}
	return best
}

func (w *Writer) HealthCheck(ctx context.Context) stage.Health {
	const name = "persist"
	if w.vectors == nil {
		return stage.Unhealthy(name, "vector store not configured")
	}
	if err := w.vectors.Health(ctx); err != nil {
		return stage.Unhealthy(name, err.Error())
	}
	return stage.Healthy(name)
}
