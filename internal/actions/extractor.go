package actions

import (
	"context"
	"encoding/json"
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

const systemPrompt = `You are a meeting analysis assistant that extracts concrete action items from transcripts.

Respond with JSON only in the following schema:
{"items":[{"description":<string>,"assignee":<string or null>,"due_date":<string or null>,"priority":<"high"|"medium"|"low">}]}

Return {"items":[]} when the meeting contains no action items.`

const userPromptTemplate = `Analyze the following meeting transcript and extract all action items.

For each action item, identify:
- Clear description of what needs to be done
- Who is assigned (if mentioned)
- Due date (if mentioned)
- Priority level (high, medium, low)

Transcript:
%s`

// Completer produces a JSON-mode chat completion.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Extractor is the workflow stage that pulls structured action items out of
// the attributed transcript. A transport failure fails the item; a response
// the model formatted badly degrades to zero items with a recorded warning.
type Extractor struct {
	store  *queue.Store
	cfg    *config.Config
	logger *slog.Logger
	llm    Completer
}

// NewExtractor constructs the action-extraction stage handler using the
// configured completion service.
func NewExtractor(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Extractor {
	client := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})
	return NewExtractorWithDependencies(cfg, store, logger, client)
}

// NewExtractorWithDependencies allows injecting the completion client (used
// in tests).
func NewExtractorWithDependencies(cfg *config.Config, store *queue.Store, logger *slog.Logger, completer Completer) *Extractor {
	return &Extractor{
		store:  store,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "actions"),
		llm:    completer,
	}
}

func (e *Extractor) Prepare(ctx context.Context, item *queue.Item) error {
	item.InitProgress("Extracting actions", "Preparing action item extraction")
	if strings.TrimSpace(item.AttributedJSON) == "" {
		return services.Wrap(services.ErrValidation, "action extraction", "validate inputs",
			"No attributed transcript present; run merge before extraction", nil)
	}
	if e.llm == nil {
		return services.Wrap(services.ErrConfiguration, "action extraction", "init",
			"Completion service is not configured", nil)
	}
	return nil
}

// rawActionItem mirrors the JSON contract the model is asked to emit.
type rawActionItem struct {
	Description string `json:"description"`
	Assignee    string `json:"assignee"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
}

type rawActionItems struct {
	Items []rawActionItem `json:"items"`
}

func (e *Extractor) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, e.logger)

	attributed, err := item.Attributed()
	if err != nil {
		return services.Wrap(services.ErrInvariant, "action extraction", "decode transcript",
			"Stored attributed transcript is undecodable", err)
	}

	userPrompt := fmt.Sprintf(userPromptTemplate, meeting.FormatTranscript(attributed))
	content, err := e.llm.CompleteJSON(ctx, systemPrompt, userPrompt)
	if err != nil {
		return services.Wrap(services.ErrUnavailable, "action extraction", "complete",
			"Completion service failed during action extraction", err)
	}

	items, parseErr := decodeItems(content)
	if parseErr != nil {
		logger.Warn("action item response unparseable, continuing with none",
			logging.Error(parseErr))
		item.AddWarning("action_extraction", "model response could not be parsed: "+parseErr.Error())
		items = []meeting.ActionItem{}
	}

	encoded, err := json.Marshal(items)
	if err != nil {
		return services.Wrap(services.ErrInvariant, "action extraction", "encode result",
			"Failed to encode action items", err)
	}
	item.ActionItemsJSON = string(encoded)
	item.SetProgressComplete("Extracting actions", "Action item extraction completed")
	logger.Info("action items extracted", logging.Int("count", len(items)))
	return nil
}

func decodeItems(content string) ([]meeting.ActionItem, error) {
	var parsed rawActionItems
	if err := llm.DecodeLLMJSON(content, &parsed); err != nil {
		// Some models return the bare array instead of the wrapper object.
		var bare []rawActionItem
		if arrErr := llm.DecodeLLMJSON(content, &bare); arrErr != nil {
			return nil, err
		}
		parsed.Items = bare
	}
	items := make([]meeting.ActionItem, 0, len(parsed.Items))
	for _, raw := range parsed.Items {
		task := strings.TrimSpace(raw.Description)
		if task == "" {
			continue
		}
		items = append(items, meeting.ActionItem{
			Task:     task,
			Assignee: strings.TrimSpace(raw.Assignee),
			Deadline: strings.TrimSpace(raw.DueDate),
			Priority: meeting.ParsePriority(raw.Priority),
		})
	}
	return items, nil
}

func (e *Extractor) HealthCheck(ctx context.Context) stage.Health {
	const name = "actions"
	if e.llm == nil {
		return stage.Unhealthy(name, "completion service not configured")
	}
	if checker, ok := e.llm.(interface{ HealthCheck(context.Context) error }); ok {
		if err := checker.HealthCheck(ctx); err != nil {
			return stage.Unhealthy(name, err.Error())
		}
	}
	return stage.Healthy(name)
}
