package compositing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"wordburn/internal/config"
	"wordburn/internal/logging"
	"wordburn/internal/queue"
	"wordburn/internal/services"
	"wordburn/internal/stage"
	"wordburn/internal/subtitles"
)

// Handler burns word-by-word captions into the fetched video and publishes
// the result. On success the run's scratch directory is removed.
type Handler struct {
	cfg      *config.Config
	renderer *Renderer
	logger   *slog.Logger
}

// NewHandler constructs the caption render stage handler.
func NewHandler(cfg *config.Config, logger *slog.Logger) *Handler {
	renderer := NewRenderer(RendererConfig{
		Binary:    cfg.FFmpegBinary(),
		FrameRate: cfg.Captions.FrameRate,
		Codec:     cfg.Captions.Codec,
	})
	return &Handler{
		cfg:      cfg,
		renderer: renderer,
		logger:   logging.NewComponentLogger(logger, "compositing"),
	}
}

// Renderer exposes the underlying renderer for test injection.
func (h *Handler) Renderer() *Renderer {
	return h.renderer
}

// Prepare checks that upstream stages left a video and subtitle file behind.
func (h *Handler) Prepare(_ context.Context, item *queue.Item) error {
	if item.VideoFile == "" {
		return services.Wrap(services.ErrRender, "render", "prepare",
			"no video file recorded for item", nil)
	}
	if item.SubtitleFile == "" {
		return services.Wrap(services.ErrRender, "render", "prepare",
			"no subtitle file recorded for item", nil)
	}
	item.SetProgress("Rendering", "Burning captions", 0)
	return nil
}

// Execute reads the published SRT, expands it into word windows, renders the
// captioned video, and cleans up the run's work directory.
func (h *Handler) Execute(ctx context.Context, item *queue.Item) error {
	cues, err := subtitles.ReadFile(item.SubtitleFile)
	if err != nil {
		return services.Wrap(services.ErrRender, "render", "read",
			"read subtitle file", err)
	}

	// Zero windows means a silent source; the render proceeds uncaptioned.
	windows := SplitCues(cues)
	filter := BuildFilter(windows, FilterOptions{
		FontPath:  h.cfg.Captions.FontPath,
		FontSize:  h.cfg.Captions.FontSize,
		FontColor: h.cfg.Captions.FontColor,
		BoxColor:  h.cfg.Captions.BoxColor,
	})

	output := h.cfg.FinalVideoPath(item.RunID)
	scriptPath := filepath.Join(h.cfg.RunWorkDir(item.RunID), "captions.filter")

	h.logger.Info("rendering captioned video",
		logging.String(logging.FieldRunID, item.RunID),
		logging.Int("words", len(windows)),
		logging.String("output", output))

	if err := h.renderer.Render(ctx, item.VideoFile, output, filter, scriptPath); err != nil {
		return services.Wrap(services.ErrRender, "render", "encode",
			"caption render failed", err)
	}

	item.FinalFile = output
	item.SetProgress("Rendering", "Render complete", 100)

	workDir := h.cfg.RunWorkDir(item.RunID)
	if err := os.RemoveAll(workDir); err != nil {
		h.logger.Warn("work directory cleanup failed",
			logging.String(logging.FieldRunID, item.RunID),
			logging.String("work_dir", workDir),
			logging.Error(err))
	}

	h.logger.Info("captioned video published",
		logging.String(logging.FieldRunID, item.RunID),
		logging.String("final_file", output))
	return nil
}

// HealthCheck verifies ffmpeg is resolvable and the configured font exists.
func (h *Handler) HealthCheck(context.Context) stage.Health {
	if _, err := exec.LookPath(h.cfg.FFmpegBinary()); err != nil {
		return stage.Unhealthy("render", fmt.Sprintf("ffmpeg unavailable: %v", err))
	}
	if font := h.cfg.Captions.FontPath; font != "" {
		if _, err := os.Stat(font); err != nil {
			return stage.Unhealthy("render", fmt.Sprintf("font file %s: %v", font, err))
		}
	}
	return stage.Healthy("render")
}
