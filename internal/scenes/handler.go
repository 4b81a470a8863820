package scenes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"

	"wordburn/internal/config"
	"wordburn/internal/logging"
	"wordburn/internal/media/ffprobe"
	"wordburn/internal/queue"
	"wordburn/internal/services"
	"wordburn/internal/stage"
)

// Handler runs scene boundary analysis over the fetched video and persists
// the detected ranges on the queue item.
type Handler struct {
	cfg      *config.Config
	detector *Detector
	logger   *slog.Logger
}

// NewHandler constructs the scene analysis stage handler.
func NewHandler(cfg *config.Config, logger *slog.Logger) *Handler {
	detector := NewDetector(DetectorConfig{
		Binary:      cfg.FFmpegBinary(),
		Threshold:   cfg.Scenes.Threshold,
		MinDuration: cfg.Scenes.MinDuration,
	})
	return &Handler{
		cfg:      cfg,
		detector: detector,
		logger:   logging.NewComponentLogger(logger, "scenes"),
	}
}

// Detector exposes the underlying detector for test injection.
func (h *Handler) Detector() *Detector {
	return h.detector
}

// Prepare checks stage inputs and short-circuits progress reporting.
func (h *Handler) Prepare(_ context.Context, item *queue.Item) error {
	if item.VideoFile == "" {
		return services.Wrap(services.ErrSceneDetection, "analyze", "prepare",
			"no video file recorded for item", nil)
	}
	item.SetProgress("Analyzing", "Scanning for scene changes", 0)
	return nil
}

// Execute detects scenes and stores them as JSON. When detection is disabled
// in configuration the stage records an empty scene list and moves on.
func (h *Handler) Execute(ctx context.Context, item *queue.Item) error {
	if !h.cfg.Scenes.Enabled {
		item.ScenesJSON = "[]"
		item.SetProgress("Analyzing", "Scene detection disabled", 100)
		h.logger.Info("scene detection disabled, skipping",
			logging.String(logging.FieldRunID, item.RunID))
		return nil
	}

	probe, err := ffprobe.Inspect(ctx, h.cfg.FFprobeBinary(), item.VideoFile)
	if err != nil {
		return services.Wrap(services.ErrSceneDetection, "analyze", "probe",
			"inspect video duration", err)
	}
	if probe.VideoStreamCount() == 0 {
		return services.Wrap(services.ErrSceneDetection, "analyze", "probe",
			fmt.Sprintf("%s contains no video stream", item.VideoFile), nil)
	}
	duration := probe.DurationSeconds()
	if duration <= 0 {
		return services.Wrap(services.ErrSceneDetection, "analyze", "probe",
			fmt.Sprintf("video %s reports no duration", item.VideoFile), nil)
	}

	ranges, err := h.detector.Detect(ctx, item.VideoFile, duration)
	if err != nil {
		return services.Wrap(services.ErrSceneDetection, "analyze", "detect",
			"scene boundary detection failed", err)
	}

	encoded, err := json.Marshal(ranges)
	if err != nil {
		return services.Wrap(services.ErrSceneDetection, "analyze", "encode",
			"encode scene ranges", err)
	}

	item.ScenesJSON = string(encoded)
	item.SetProgress("Analyzing", fmt.Sprintf("Found %d scenes", len(ranges)), 100)

	h.logger.Info("scene analysis complete",
		logging.String(logging.FieldRunID, item.RunID),
		logging.Int("scenes", len(ranges)),
		logging.Float64("duration_seconds", duration),
		logging.Int64("size_bytes", probe.SizeBytes()),
		logging.Bool("has_audio", probe.AudioStreamCount() > 0))
	return nil
}

// HealthCheck verifies ffmpeg and ffprobe are resolvable.
func (h *Handler) HealthCheck(context.Context) stage.Health {
	for _, binary := range []string{h.cfg.FFmpegBinary(), h.cfg.FFprobeBinary()} {
		if _, err := exec.LookPath(binary); err != nil {
			return stage.Unhealthy("analyze", fmt.Sprintf("%s unavailable: %v", binary, err))
		}
	}
	return stage.Healthy("analyze")
}

// DecodeRanges restores the scene ranges persisted on a queue item.
func DecodeRanges(item *queue.Item) ([]Range, error) {
	if item.ScenesJSON == "" {
		return nil, nil
	}
	var ranges []Range
	if err := json.Unmarshal([]byte(item.ScenesJSON), &ranges); err != nil {
		return nil, fmt.Errorf("decode scene ranges: %w", err)
	}
	return ranges, nil
}
