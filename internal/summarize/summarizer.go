package summarize

import (
	"context"
	"fmt"
	"strings"

	"log/slog"

	"quorum/internal/config"
	"quorum/internal/llm"
	"quorum/internal/logging"
	"quorum/internal/meeting"
	"quorum/internal/queue"
	"quorum/internal/services"
	"quorum/internal/stage"
)

const systemPrompt = `You are a meeting summarization expert. You write accurate, concise summaries grounded only in the transcript and context you are given.`

const briefPrompt = `Generate a brief 2-3 sentence summary of the meeting covering the main topic and key outcomes.

Meeting transcript:
%s

Historical context:
%s

Provide a brief summary:`

const mediumPrompt = `Generate a medium-length summary (1-2 paragraphs) covering:
- Main topics discussed
- Key decisions made
- Important points raised
- Any action items or next steps mentioned

Meeting transcript:
%s

Historical context:
%s

Provide a medium summary:`

const detailedPrompt = `Generate a detailed, comprehensive summary covering:
- Complete overview of all topics discussed
- All decisions made with rationale
- Detailed discussion points from each participant
- All action items and next steps
- Key quotes or important statements
- Context from previous meetings
- Open questions or concerns

Meeting transcript:
%s

Historical context:
%s

Provide a detailed summary:`

// Completer produces a chat completion for a system and user prompt pair.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Summarizer is the workflow stage that writes the three summary levels.
// Summarization is mandatory; a completion failure fails the item.
type Summarizer struct {
	store  *queue.Store
	cfg    *config.Config
	logger *slog.Logger
	llm    Completer
}

// NewSummarizer constructs the summarization stage handler using the
// configured completion service.
func NewSummarizer(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Summarizer {
	client := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})
	return NewSummarizerWithDependencies(cfg, store, logger, client)
}

// NewSummarizerWithDependencies allows injecting the completion client (used
// in tests).
func NewSummarizerWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, completer Completer) *Summarizer {
	return &Summarizer{
		store:  store,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "summarize"),
		llm:    completer,
	}
}

func (s *Summarizer) Prepare(ctx context.Context, item *queue.Item) error {
	item.InitProgress("Summarizing", "Preparing meeting summaries")
	if strings.TrimSpace(item.AttributedJSON) == "" {
		return services.Wrap(services.ErrValidation, "summarization", "validate inputs",
			"No attributed transcript present; run merge before summarization", nil)
	}
	if s.llm == nil {
		return services.Wrap(services.ErrConfiguration, "summarization", "init",
			"Completion service is not configured", nil)
	}
	return nil
}

func (s *Summarizer) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, s.logger)

	attributed, err := item.Attributed()
	if err != nil {
		return services.Wrap(services.ErrInvariant, "summarization", "decode transcript",
			"Stored attributed transcript is undecodable", err)
	}
	matches, err := item.ContextMatches()
	if err != nil {
		return services.Wrap(services.ErrInvariant, "summarization", "decode context",
			"Stored context matches are undecodable", err)
	}

	transcriptText := meeting.FormatTranscript(attributed)
	contextText := meeting.FormatContext(matches)

	levels := []struct {
		level   string
		prompt  string
		target  *string
		percent float64
	}{
		{meeting.LevelBrief, briefPrompt, &item.SummaryBrief, 25},
		{meeting.LevelMedium, mediumPrompt, &item.SummaryMedium, 55},
		{meeting.LevelDetailed, detailedPrompt, &item.SummaryDetailed, 85},
	}
	for _, lv := range levels {
		item.SetProgress("Summarizing", fmt.Sprintf("Generating %s summary", lv.level), lv.percent)
		text, err := s.generate(ctx, lv.prompt, transcriptText, contextText)
		if err != nil {
			return services.Wrap(services.ErrUnavailable, "summarization", lv.level+" summary",
				"Completion service failed to produce a summary", err)
		}
		if text == "" {
			return services.Wrap(services.ErrMalformed, "summarization", lv.level+" summary",
				"Completion service returned an empty summary", nil)
		}
		*lv.target = text
	}

	item.SetProgressComplete("Summarizing", "Meeting summaries completed")
	logger.Info("summaries generated",
		logging.Int("brief_chars", len(item.SummaryBrief)),
		logging.Int("medium_chars", len(item.SummaryMedium)),
		logging.Int("detailed_chars", len(item.SummaryDetailed)),
	)
	return nil
}

func (s *Summarizer) generate(ctx context.Context, prompt, transcriptText, contextText string) (string, error) {
	userPrompt := fmt.Sprintf(prompt, transcriptText, contextText)
	content, err := s.llm.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (s *Summarizer) HealthCheck(ctx context.Context) stage.Health {
	const name = "summarize"
	if s.llm == nil {
		return stage.Unhealthy(name, "completion service not configured")
	}
	if checker, ok := s.llm.(interface{ HealthCheck(context.Context) error }); ok {
		if err := checker.HealthCheck(ctx); err != nil {
			return stage.Unhealthy(name, err.Error())
		}
	}
	return stage.Healthy(name)
}
