package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"wordburn/internal/config"
	"wordburn/internal/logging"
	"wordburn/internal/queue"
	"wordburn/internal/services"
	"wordburn/internal/services/whisper"
	"wordburn/internal/stage"
)

// Handler transcribes the fetched video's audio with whisper and stores the
// resulting segments on the queue item.
type Handler struct {
	cfg    *config.Config
	client *whisper.Client
	logger *slog.Logger
}

// NewHandler constructs the transcription stage handler.
func NewHandler(cfg *config.Config, logger *slog.Logger) *Handler {
	client := whisper.NewClient(whisper.Config{
		Binary:   cfg.WhisperBinary(),
		Model:    cfg.Transcription.Model,
		Language: cfg.Transcription.Language,
		Timeout:  cfg.TranscriptionTimeout(),
	})
	return &Handler{
		cfg:    cfg,
		client: client,
		logger: logging.NewComponentLogger(logger, "transcription"),
	}
}

// Client exposes the underlying whisper client for test injection.
func (h *Handler) Client() *whisper.Client {
	return h.client
}

// Prepare checks that the fetch stage left a video behind.
func (h *Handler) Prepare(_ context.Context, item *queue.Item) error {
	if item.VideoFile == "" {
		return services.Wrap(services.ErrTranscription, "transcribe", "prepare",
			"no video file recorded for item", nil)
	}
	item.SetProgress("Transcribing", "Starting transcription", 0)
	return nil
}

// Execute runs whisper and persists the transcript text and timed segments.
func (h *Handler) Execute(ctx context.Context, item *queue.Item) error {
	h.logger.Info("transcribing audio",
		logging.String(logging.FieldRunID, item.RunID),
		logging.String("video_file", item.VideoFile),
		logging.String("model", h.cfg.Transcription.Model))

	result, err := h.client.Transcribe(ctx, item.VideoFile, h.cfg.RunWorkDir(item.RunID))
	if err != nil {
		return services.Wrap(services.ErrTranscription, "transcribe", "run",
			"whisper transcription failed", err)
	}
	if len(result.Segments) == 0 {
		// Silent input is valid; downstream stages publish an empty
		// subtitle document and an uncaptioned render.
		item.TranscriptText = result.Text
		item.SegmentsJSON = "[]"
		item.SetProgress("Transcribing", "No speech detected", 100)
		h.logger.Info("transcription found no speech",
			logging.String(logging.FieldRunID, item.RunID))
		return nil
	}

	encoded, err := json.Marshal(result.Segments)
	if err != nil {
		return services.Wrap(services.ErrTranscription, "transcribe", "encode",
			"encode transcript segments", err)
	}

	item.TranscriptText = result.Text
	item.SegmentsJSON = string(encoded)
	item.SetProgress("Transcribing", fmt.Sprintf("Transcribed %d segments", len(result.Segments)), 100)

	h.logger.Info("transcription complete",
		logging.String(logging.FieldRunID, item.RunID),
		logging.Int("segments", len(result.Segments)))
	return nil
}

// HealthCheck verifies the whisper binary is resolvable.
func (h *Handler) HealthCheck(context.Context) stage.Health {
	if err := h.client.Available(); err != nil {
		return stage.Unhealthy("transcribe", fmt.Sprintf("whisper unavailable: %v", err))
	}
	return stage.Healthy("transcribe")
}

// DecodeSegments restores the timed segments persisted on a queue item.
func DecodeSegments(item *queue.Item) ([]whisper.Segment, error) {
	if item.SegmentsJSON == "" {
		return nil, fmt.Errorf("item %d has no transcript segments", item.ID)
	}
	var segments []whisper.Segment
	if err := json.Unmarshal([]byte(item.SegmentsJSON), &segments); err != nil {
		return nil, fmt.Errorf("decode transcript segments: %w", err)
	}
	return segments, nil
}
