package ytdlp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"wordburn/internal/services"
)

// Config carries the download settings injected from application config.
type Config struct {
	Binary  string
	Format  string
	Timeout time.Duration
}

// Client wraps the yt-dlp binary for video retrieval.
type Client struct {
	cfg    Config
	runner services.CommandRunner
}

// NewClient constructs a yt-dlp client.
func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = "yt-dlp"
	}
	if strings.TrimSpace(cfg.Format) == "" {
		cfg.Format = "best"
	}
	return &Client{cfg: cfg, runner: services.RunCommand}
}

// WithCommandRunner sets a custom command runner (used in tests).
func (c *Client) WithCommandRunner(runner services.CommandRunner) {
	c.runner = runner
}

// Binary returns the configured executable name.
func (c *Client) Binary() string {
	return c.cfg.Binary
}

// Available reports whether the yt-dlp binary can be resolved on PATH.
func (c *Client) Available() error {
	_, err := exec.LookPath(c.cfg.Binary)
	return err
}

// Download retrieves the best-format stream for sourceURL into dest,
// overwriting any prior download at that path.
func (c *Client) Download(ctx context.Context, sourceURL, dest string) error {
	sourceURL = strings.TrimSpace(sourceURL)
	if sourceURL == "" {
		return fmt.Errorf("download: source url required")
	}
	if dest == "" {
		return fmt.Errorf("download: destination path required")
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("download: ensure destination dir: %w", err)
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	args := []string{
		"--format", c.cfg.Format,
		"--output", dest,
		"--no-playlist",
		"--force-overwrites",
		"--no-progress",
		sourceURL,
	}
	if _, err := c.runner(ctx, c.cfg.Binary, args...); err != nil {
		return fmt.Errorf("yt-dlp: %w", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		return fmt.Errorf("download: output missing after yt-dlp reported success: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("download: output file %s is empty", dest)
	}
	return nil
}

// Title fetches the remote video title without downloading media. Failures
// are soft; callers fall back to the URL for display.
func (c *Client) Title(ctx context.Context, sourceURL string) (string, error) {
	output, err := c.runner(ctx, c.cfg.Binary, "--print", "title", "--no-playlist", "--skip-download", sourceURL)
	if err != nil {
		return "", fmt.Errorf("yt-dlp title: %w", err)
	}
	title := strings.TrimSpace(string(output))
	if title == "" {
		return "", fmt.Errorf("yt-dlp title: empty response")
	}
	// Multi-line output means yt-dlp printed warnings; the title is last.
	lines := strings.Split(title, "\n")
	return strings.TrimSpace(lines[len(lines)-1]), nil
}
