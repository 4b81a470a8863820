package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"wordburn/internal/config"
	"wordburn/internal/logging"
	"wordburn/internal/queue"
	"wordburn/internal/services"
	"wordburn/internal/services/ytdlp"
	"wordburn/internal/stage"
)

// Handler downloads the source video for a queue item into the run's work
// directory.
type Handler struct {
	cfg    *config.Config
	client *ytdlp.Client
	logger *slog.Logger
}

// NewHandler constructs the fetch stage handler.
func NewHandler(cfg *config.Config, logger *slog.Logger) *Handler {
	client := ytdlp.NewClient(ytdlp.Config{
		Binary:  cfg.YtdlpBinary(),
		Format:  cfg.Download.Format,
		Timeout: cfg.DownloadTimeout(),
	})
	return &Handler{
		cfg:    cfg,
		client: client,
		logger: logging.NewComponentLogger(logger, "fetch"),
	}
}

// Client exposes the underlying yt-dlp client for test injection.
func (h *Handler) Client() *ytdlp.Client {
	return h.client
}

// Prepare validates the source URL before any download begins.
func (h *Handler) Prepare(_ context.Context, item *queue.Item) error {
	parsed, err := url.Parse(strings.TrimSpace(item.SourceURL))
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return services.Wrap(services.ErrDownload, "fetch", "prepare",
			fmt.Sprintf("source URL %q is not an absolute http(s) URL", item.SourceURL), err)
	}
	item.SetProgress("Fetching", "Starting download", 0)
	return nil
}

// Execute downloads the video and records its path and title on the item.
func (h *Handler) Execute(ctx context.Context, item *queue.Item) error {
	dest := h.cfg.WorkVideoPath(item.RunID)

	h.logger.Info("downloading source video",
		logging.String(logging.FieldRunID, item.RunID),
		logging.String("url", item.SourceURL),
		logging.String("destination", dest))

	if title, err := h.client.Title(ctx, item.SourceURL); err == nil {
		item.Title = title
	} else {
		h.logger.Warn("title lookup failed, using URL for display",
			logging.String(logging.FieldRunID, item.RunID),
			logging.Error(err))
	}

	if err := h.client.Download(ctx, item.SourceURL, dest); err != nil {
		return services.Wrap(services.ErrDownload, "fetch", "download",
			"yt-dlp download failed", err)
	}

	item.VideoFile = dest
	item.SetProgress("Fetching", "Download complete", 100)

	h.logger.Info("source video downloaded",
		logging.String(logging.FieldRunID, item.RunID),
		logging.String("video_file", dest))
	return nil
}

// HealthCheck verifies the yt-dlp binary is resolvable.
func (h *Handler) HealthCheck(context.Context) stage.Health {
	if err := h.client.Available(); err != nil {
		return stage.Unhealthy("fetch", fmt.Sprintf("yt-dlp unavailable: %v", err))
	}
	return stage.Healthy("fetch")
}
