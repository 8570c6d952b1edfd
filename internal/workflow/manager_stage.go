package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"quorum/internal/logging"
	"quorum/internal/meeting"
	"quorum/internal/queue"
	"quorum/internal/services"
)

func (m *Manager) processItem(ctx context.Context, workerLogger *slog.Logger, item *queue.Item, stg pipelineStage) error {
	requestID := uuid.NewString()
	stageCtx := withStageContext(ctx, stg.name, item, requestID)
	stageLogger := logging.WithContext(stageCtx, workerLogger)

	m.setLastItem(item)
	if stg.startStatus == queue.StatusPending && m.notifier != nil {
		if err := m.notifier.NotifyProcessingStarted(stageCtx, item.Title); err != nil && !errors.Is(err, context.Canceled) {
			stageLogger.Debug("start notification failed", logging.Error(err))
		}
	}

	return m.executeStage(stageCtx, stageLogger, stg, item)
}

func (m *Manager) executeStage(ctx context.Context, stageLogger *slog.Logger, stg pipelineStage, item *queue.Item) error {
	stageStart := time.Now()
	stageLogger.Info("stage started",
		logging.String(logging.FieldStage, stg.name),
		logging.String("processing_status", string(stg.processingStatus)),
		logging.String("title", strings.TrimSpace(item.Title)),
	)

	if err := stg.handler.Prepare(ctx, item); err != nil {
		m.handleStageFailure(ctx, stg.name, item, err)
		m.setLastError(err)
		return err
	}
	if err := m.store.Update(ctx, item); err != nil {
		wrapped := fmt.Errorf("persist stage preparation: %w", err)
		stageLogger.Error("failed to persist stage preparation", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}

	execErr := m.executeWithHeartbeat(ctx, stg, item)
	if execErr != nil {
		if errors.Is(execErr, context.Canceled) {
			stageLogger.Debug("stage interrupted by shutdown")
			return execErr
		}
		m.handleStageFailure(ctx, stg.name, item, execErr)
		m.setLastError(execErr)
		return execErr
	}

	if item.Status == stg.processingStatus || item.Status == "" {
		item.Status = stg.doneStatus
	}
	item.LastHeartbeat = nil
	if item.Status == queue.StatusCompleted && item.ProgressPercent < 100 {
		item.ProgressPercent = 100
	}
	if err := m.store.Update(ctx, item); err != nil {
		wrapped := fmt.Errorf("persist stage result: %w", err)
		stageLogger.Error("failed to persist stage result", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}
	stageLogger.Info("stage completed",
		logging.String(logging.FieldStage, stg.name),
		logging.String("next_status", string(item.Status)),
		logging.Duration("stage_duration", time.Since(stageStart)),
	)
	m.setLastItem(item)
	if item.Status == queue.StatusCompleted {
		m.notifyCompleted(ctx, stageLogger, item)
	}
	return nil
}

// executeWithHeartbeat runs the handler with a per-stage timeout while a
// background loop keeps the item's heartbeat fresh so other workers do not
// reclaim it mid-flight.
func (m *Manager) executeWithHeartbeat(ctx context.Context, stg pipelineStage, item *queue.Item) error {
	execCtx := ctx
	if timeout := time.Duration(m.cfg.Workflow.StageTimeoutSeconds) * time.Second; timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	hbCtx, hbCancel := context.WithCancel(ctx)
	var hbWG sync.WaitGroup
	hbWG.Add(1)
	go m.heartbeat.StartLoop(hbCtx, &hbWG, item.ID)

	execErr := stg.handler.Execute(execCtx, item)
	hbCancel()
	hbWG.Wait()

	if execErr != nil && errors.Is(execErr, context.DeadlineExceeded) && ctx.Err() == nil {
		return services.Wrap(services.ErrUnavailable, stg.name, "execute",
			fmt.Sprintf("Stage timed out after %ds", m.cfg.Workflow.StageTimeoutSeconds), execErr)
	}
	return execErr
}

func (m *Manager) notifyCompleted(ctx context.Context, stageLogger *slog.Logger, item *queue.Item) {
	if m.notifier == nil {
		return
	}
	speakers := 0
	if attributed, err := item.Attributed(); err == nil {
		speakers = meeting.SpeakerCount(attributed)
	}
	actionItems := 0
	if items, err := item.ActionItems(); err == nil {
		actionItems = len(items)
	}
	if err := m.notifier.NotifyProcessingCompleted(ctx, item.Title, speakers, actionItems); err != nil && !errors.Is(err, context.Canceled) {
		stageLogger.Debug("completion notification failed", logging.Error(err))
	}
}

func withStageContext(ctx context.Context, stageName string, item *queue.Item, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if item != nil {
		ctx = services.WithMeetingID(ctx, item.MeetingID)
	}
	if stageName != "" {
		ctx = services.WithStage(ctx, stageName)
	}
	if requestID != "" {
		ctx = services.WithRequestID(ctx, requestID)
	}
	return ctx
}
