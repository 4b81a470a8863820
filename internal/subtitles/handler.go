package subtitles

import (
	"context"
	"fmt"
	"log/slog"

	"wordburn/internal/config"
	"wordburn/internal/logging"
	"wordburn/internal/queue"
	"wordburn/internal/services"
	"wordburn/internal/stage"
	"wordburn/internal/transcription"
)

// Handler converts stored transcript segments into a published SRT document.
type Handler struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewHandler constructs the subtitle writing stage handler.
func NewHandler(cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "subtitles"),
	}
}

// Prepare verifies transcript segments exist for the item.
func (h *Handler) Prepare(_ context.Context, item *queue.Item) error {
	if item.SegmentsJSON == "" {
		return services.Wrap(services.ErrSubtitleIO, "subtitle", "prepare",
			"no transcript segments recorded for item", nil)
	}
	item.SetProgress("Subtitling", "Writing subtitle file", 0)
	return nil
}

// Execute writes the SRT document into the run's media directory.
func (h *Handler) Execute(_ context.Context, item *queue.Item) error {
	segments, err := transcription.DecodeSegments(item)
	if err != nil {
		return services.Wrap(services.ErrSubtitleIO, "subtitle", "decode",
			"restore transcript segments", err)
	}

	// A silent run produces an empty document rather than failing.
	cues := FromSegments(segments)

	path := h.cfg.SubtitlePath(item.RunID)
	if err := WriteFile(path, cues); err != nil {
		return services.Wrap(services.ErrSubtitleIO, "subtitle", "write",
			fmt.Sprintf("write subtitle file %s", path), err)
	}

	item.SubtitleFile = path
	item.SetProgress("Subtitling", fmt.Sprintf("Wrote %d cues", len(cues)), 100)

	h.logger.Info("subtitle file written",
		logging.String(logging.FieldRunID, item.RunID),
		logging.String("subtitle_file", path),
		logging.Int("cues", len(cues)))
	return nil
}

// HealthCheck reports ready; the stage only needs filesystem access.
func (h *Handler) HealthCheck(context.Context) stage.Health {
	return stage.Healthy("subtitle")
}
