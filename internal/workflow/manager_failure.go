package workflow

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"wordburn/internal/logging"
	"wordburn/internal/queue"
	"wordburn/internal/services"
)

func (m *Manager) handleStageFailure(ctx context.Context, stageName string, item *queue.Item, stageErr error) {
	logger := logging.WithContext(ctx, m.logger)

	message := classifyStageFailure(stageName, stageErr)
	item.SetFailed(message)

	logger.Error("stage failed",
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.String(logging.FieldRunID, item.RunID),
		logging.String(logging.FieldErrorKind, services.Kind(stageErr)),
		logging.String("error_message", message),
		logging.Error(stageErr))

	if err := m.store.Update(ctx, item); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("daemon shutting down, could not update stage failure")
		} else {
			logger.Error("failed to persist stage failure", logging.Error(err))
		}
	}

	m.cleanupRunArtifacts(item, logger)
	m.setLastItem(item)
}

// cleanupRunArtifacts removes the failed run's scratch and published
// directories so retries start from a clean slate. Only paths scoped to this
// run's ID are touched.
func (m *Manager) cleanupRunArtifacts(item *queue.Item, logger *slog.Logger) {
	if strings.TrimSpace(item.RunID) == "" {
		return
	}
	for _, dir := range []string{m.cfg.RunWorkDir(item.RunID), m.cfg.RunMediaDir(item.RunID)} {
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn("failed run cleanup incomplete",
				logging.String("directory", dir),
				logging.Error(err))
		}
	}
	item.VideoFile = ""
	item.SubtitleFile = ""
	item.FinalFile = ""
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
