package workflow

import (
	"context"
	"errors"
	"strings"

	"quorum/internal/logging"
	"quorum/internal/queue"
	"quorum/internal/services"
)

func (m *Manager) handleStageFailure(ctx context.Context, stageName string, item *queue.Item, stageErr error) {
	logger := m.logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.WithContext(ctx, logger.With(logging.String(logging.FieldComponent, "workflow-manager")))

	message := classifyStageFailure(stageName, stageErr)
	item.SetFailed(stageName, message)

	logger.Error("stage failed",
		logging.String(logging.FieldStage, stageName),
		logging.String("error_message", message),
		logging.String(logging.FieldErrorKind, services.Kind(stageErr)),
		logging.Error(stageErr),
	)

	if err := m.store.Update(ctx, item); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("daemon shutting down, could not update stage failure")
		} else {
			logger.Error("failed to persist stage failure", logging.Error(err))
		}
	}

	m.setLastItem(item)
	if m.notifier != nil && stageErr != nil {
		if err := m.notifier.NotifyProcessingFailed(ctx, item.Title, stageName, stageErr); err != nil && !errors.Is(err, context.Canceled) {
			logger.Debug("failure notification failed", logging.Error(err))
		}
	}
}

func classifyStageFailure(stageName string, stageErr error) string {
	if stageErr == nil {
		if stageName != "" {
			return stageName + " failed without error detail"
		}
		return "workflow failed without error detail"
	}
	message := strings.TrimSpace(stageErr.Error())
	if message == "" {
		message = stageName + " failed"
	}
	return message
}
