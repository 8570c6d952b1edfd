package attribution

import (
	"context"
	"encoding/json"
	"strings"

	"log/slog"

	"quorum/internal/config"
	"quorum/internal/logging"
	"quorum/internal/meeting"
	"quorum/internal/queue"
	"quorum/internal/services"
	"quorum/internal/stage"
)

// Handler is the workflow stage that folds diarization into the transcript.
type Handler struct {
	store  *queue.Store
	cfg    *config.Config
	logger *slog.Logger
}

// NewHandler constructs the merge stage handler.
func NewHandler(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "attribution"),
	}
}

func (h *Handler) Prepare(ctx context.Context, item *queue.Item) error {
	item.InitProgress("Merging", "Preparing speaker attribution")
	if strings.TrimSpace(item.TranscriptJSON) == "" {
		return services.Wrap(services.ErrValidation, "merge", "validate inputs",
			"No transcript present; run analysis before merging", nil)
	}
	return nil
}

func (h *Handler) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, h.logger)

	transcript, err := item.Transcript()
	if err != nil {
		return services.Wrap(services.ErrInvariant, "merge", "decode transcript",
			"Stored transcript is undecodable", err)
	}
	speakers, err := item.Diarization()
	if err != nil {
		return services.Wrap(services.ErrInvariant, "merge", "decode diarization",
			"Stored speaker turns are undecodable", err)
	}

	attributed, err := Merge(transcript, speakers)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(attributed)
	if err != nil {
		return services.Wrap(services.ErrInvariant, "merge", "encode result",
			"Failed to encode attributed transcript", err)
	}
	item.AttributedJSON = string(encoded)
	item.SetProgressComplete("Merging", "Speaker attribution completed")
	logger.Info("speaker attribution completed",
		logging.Int("segments", len(attributed)),
		logging.Int("speakers", meeting.SpeakerCount(attributed)),
	)
	return nil
}

func (h *Handler) HealthCheck(ctx context.Context) stage.Health {
	const name = "attribution"
	if h.store == nil {
		return stage.Unhealthy(name, "queue store unavailable")
	}
	return stage.Healthy(name)
}
