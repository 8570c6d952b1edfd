package analyze

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"log/slog"

	"quorum/internal/config"
	"quorum/internal/diarize"
	"quorum/internal/logging"
	"quorum/internal/meeting"
	"quorum/internal/queue"
	"quorum/internal/services"
	"quorum/internal/stage"
	"quorum/internal/stt"
)

// Transcriber converts an audio file into timed transcript segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]meeting.TranscriptSegment, error)
	Health(ctx context.Context) error
}

// Diarizer labels speaker turns in an audio file. It is optional; a run
// proceeds without speaker labels when diarization fails.
type Diarizer interface {
	Enabled() bool
	Diarize(ctx context.Context, audioPath string) ([]meeting.SpeakerSegment, error)
	Health(ctx context.Context) error
}

// Analyzer runs transcription and diarization concurrently against the
// meeting audio. Transcription failure fails the run; diarization failure
// degrades to an unattributed transcript with a recorded warning.
type Analyzer struct {
	store       *queue.Store
	cfg         *config.Config
	logger      *slog.Logger
	transcriber Transcriber
	diarizer    Diarizer
}

// NewAnalyzer constructs the analysis stage handler using default dependencies.
func NewAnalyzer(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Analyzer {
	return NewAnalyzerWithDependencies(cfg, store, logger, stt.NewClient(cfg), diarize.NewClient(cfg))
}

// NewAnalyzerWithDependencies allows injecting collaborators (used in tests).
func NewAnalyzerWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, transcriber Transcriber, diarizer Diarizer) *Analyzer {
	return &Analyzer{
		store:       store,
		cfg:         cfg,
		logger:      logging.NewComponentLogger(logger, "analyzer"),
		transcriber: transcriber,
		diarizer:    diarizer,
	}
}

func (a *Analyzer) Prepare(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, a.logger)
	item.InitProgress("Analyzing", "Preparing audio analysis")
	if strings.TrimSpace(item.AudioPath) == "" {
		return services.Wrap(services.ErrValidation, "analysis", "validate inputs",
			"No audio file recorded for this meeting", nil)
	}
	if _, err := os.Stat(item.AudioPath); err != nil {
		return services.Wrap(services.ErrValidation, "analysis", "validate inputs",
			"Meeting audio file is missing or unreadable", err)
	}
	logger.Info("starting audio analysis", logging.String("audio_path", item.AudioPath))
	return nil
}

func (a *Analyzer) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, a.logger)

	runDiarization := a.diarizer != nil && a.diarizer.Enabled()
	a.updateProgress(ctx, item, "Transcribing audio", 10)

	var (
		wg         sync.WaitGroup
		transcript []meeting.TranscriptSegment
		speakers   []meeting.SpeakerSegment
		sttErr     error
		diarizeErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		transcript, sttErr = a.transcriber.Transcribe(ctx, item.AudioPath)
	}()

	if runDiarization {
		wg.Add(1)
		go func() {
			defer wg.Done()
			speakers, diarizeErr = a.diarizer.Diarize(ctx, item.AudioPath)
		}()
	}
	wg.Wait()

	if sttErr != nil {
		return sttErr
	}
	if len(transcript) == 0 {
		return services.Wrap(services.ErrMalformed, "analysis", "transcribe",
			"Speech-to-text service returned an empty transcript", nil)
	}

	if runDiarization && diarizeErr != nil {
		logger.Warn("diarization failed, continuing without speaker labels", logging.Error(diarizeErr))
		item.AddWarning("diarization", diarizeErr.Error())
		speakers = nil
	}

	transcriptJSON, err := json.Marshal(transcript)
	if err != nil {
		return services.Wrap(services.ErrInvariant, "analysis", "encode transcript",
			"Failed to encode transcript", err)
	}
	item.TranscriptJSON = string(transcriptJSON)

	if len(speakers) > 0 {
		speakersJSON, err := json.Marshal(speakers)
		if err != nil {
			return services.Wrap(services.ErrInvariant, "analysis", "encode diarization",
				"Failed to encode speaker turns", err)
		}
		item.DiarizationJSON = string(speakersJSON)
	} else {
		item.DiarizationJSON = ""
	}

	item.SetProgressComplete("Analyzing", "Audio analysis completed")
	logger.Info("audio analysis completed",
		logging.Int("transcript_segments", len(transcript)),
		logging.Int("speaker_turns", len(speakers)),
	)
	return nil
}

func (a *Analyzer) HealthCheck(ctx context.Context) stage.Health {
	const name = "analyzer"
	if a.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if a.transcriber == nil {
		return stage.Unhealthy(name, "speech-to-text client unavailable")
	}
	if err := a.transcriber.Health(ctx); err != nil {
		return stage.Unhealthy(name, "speech-to-text service unreachable: "+err.Error())
	}
	if a.diarizer != nil && a.diarizer.Enabled() {
		if err := a.diarizer.Health(ctx); err != nil {
			return stage.Unhealthy(name, "diarization service unreachable: "+err.Error())
		}
	}
	return stage.Healthy(name)
}

func (a *Analyzer) updateProgress(ctx context.Context, item *queue.Item, message string, percent float64) {
	logger := logging.WithContext(ctx, a.logger)
	copy := *item
	copy.ProgressMessage = message
	copy.ProgressPercent = percent
	if err := a.store.Update(ctx, &copy); err != nil {
		logger.Warn("failed to persist analysis progress", logging.Error(err))
		return
	}
	*item = copy
}
