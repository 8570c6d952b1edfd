package retrieval

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

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

// Embedder vectorizes query text for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Retriever looks up context from previous meetings by vector similarity.
// The stage is best effort: when the embedding service or vector store is
// down, the run continues with empty context and a recorded warning.
type Retriever struct {
	store    *queue.Store
	cfg      *config.Config
	logger   *slog.Logger
	embedder Embedder
	vectors  vectorstore.Store
}

// NewRetriever constructs the context-retrieval stage handler using default
// dependencies.
func NewRetriever(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Retriever {
	return NewRetrieverWithDependencies(cfg, store, logger, embeddings.NewClient(cfg), vectorstore.NewQdrant(cfg))
}

// NewRetrieverWithDependencies allows injecting collaborators (used in tests).
func NewRetrieverWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, embedder Embedder, vectors vectorstore.Store) *Retriever {
	return &Retriever{
		store:    store,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "retrieval"),
		embedder: embedder,
		vectors:  vectors,
	}
}

func (r *Retriever) Prepare(ctx context.Context, item *queue.Item) error {
	item.InitProgress("Retrieving context", "Preparing historical context lookup")
	if strings.TrimSpace(item.AttributedJSON) == "" {
		return services.Wrap(services.ErrValidation, "context retrieval", "validate inputs",
			"No attributed transcript present; run merge before retrieval", nil)
	}
	return nil
}

func (r *Retriever) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, r.logger)

	attributed, err := item.Attributed()
	if err != nil {
		return services.Wrap(services.ErrInvariant, "context retrieval", "decode transcript",
			"Stored attributed transcript is undecodable", err)
	}

	queryText := r.queryText(attributed)
	if queryText == "" {
		item.ContextJSON = ""
		item.SetProgressComplete("Retrieving context", "No transcript text to query with")
		return nil
	}

	matches, err := r.lookup(ctx, queryText, item.MeetingID)
	if err != nil {
		logger.Warn("context retrieval failed, continuing without historical context", logging.Error(err))
		item.AddWarning("context_retrieval", err.Error())
		item.ContextJSON = ""
		item.SetProgressComplete("Retrieving context", "Historical context unavailable")
		return nil
	}

	if len(matches) == 0 {
		item.ContextJSON = ""
	} else {
		encoded, err := json.Marshal(matches)
		if err != nil {
			return services.Wrap(services.ErrInvariant, "context retrieval", "encode matches",
				"Failed to encode context matches", err)
		}
		item.ContextJSON = string(encoded)
	}

	item.SetProgressComplete("Retrieving context", "Historical context retrieved")
	logger.Info("context retrieval completed", logging.Int("matches", len(matches)))
	return nil
}

func (r *Retriever) lookup(ctx context.Context, queryText, meetingID string) ([]meeting.ContextMatch, error) {
	vector, err := r.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, err
	}
	matches, err := r.vectors.Query(ctx, vector, meetingID,
		r.cfg.Retrieval.Limit, r.cfg.Retrieval.ScoreThreshold)
	if err != nil {
		return nil, err
	}
	// Matches must come back ordered by descending similarity.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if limit := r.cfg.Retrieval.Limit; limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	for _, match := range matches {
		if match.MeetingID == meetingID {
			return nil, services.Wrap(services.ErrInvariant, "context retrieval", "filter results",
				"Vector store returned the querying meeting despite exclusion filter", nil)
		}
	}
	return matches, nil
}

func (r *Retriever) queryText(attributed []meeting.AttributedSegment) string {
	const leadingSegments = 10
	segments := attributed
	if len(segments) > leadingSegments {
		segments = segments[:leadingSegments]
	}
	maxChars := r.cfg.Retrieval.QueryChars
	if maxChars <= 0 {
		maxChars = 500
	}
	return meeting.QueryExcerpt(segments, maxChars)
}

func (r *Retriever) HealthCheck(ctx context.Context) stage.Health {
	const name = "retrieval"
	if r.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if r.embedder == nil {
		return stage.Unhealthy(name, "embedding client unavailable")
	}
	if r.vectors == nil {
		return stage.Unhealthy(name, "vector store unavailable")
	}
	return stage.Healthy(name)
}
