package compositing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"wordburn/internal/services"
)

// RendererConfig carries the encode parameters for the caption burn.
type RendererConfig struct {
	Binary    string
	FrameRate int
	Codec     string
}

// Renderer burns a drawtext filter chain into a video with ffmpeg.
type Renderer struct {
	cfg    RendererConfig
	runner services.CommandRunner
}

// NewRenderer constructs a caption renderer.
func NewRenderer(cfg RendererConfig) *Renderer {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = "ffmpeg"
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = 30
	}
	if strings.TrimSpace(cfg.Codec) == "" {
		cfg.Codec = "libx264"
	}
	return &Renderer{cfg: cfg, runner: services.RunCommand}
}

// WithCommandRunner sets a custom command runner (used in tests).
func (r *Renderer) WithCommandRunner(runner services.CommandRunner) {
	r.runner = runner
}

// Render encodes input into output with the filter chain applied to the
// video stream. The filter is passed via a script file so long word lists
// never hit argument length limits. An empty filter re-encodes without
// overlays. Audio is copied through untouched.
func (r *Renderer) Render(ctx context.Context, input, output, filter, scriptPath string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("render: ensure output dir: %w", err)
	}

	args := []string{
		"-hide_banner",
		"-y",
		"-i", input,
	}
	if filter != "" {
		if err := os.WriteFile(scriptPath, []byte(filter), 0o644); err != nil {
			return fmt.Errorf("render: write filter script: %w", err)
		}
		args = append(args, "-filter_script:v", scriptPath)
	}
	args = append(args,
		"-r", strconv.Itoa(r.cfg.FrameRate),
		"-c:v", r.cfg.Codec,
		"-c:a", "copy",
		output,
	)
	if _, err := r.runner(ctx, r.cfg.Binary, args...); err != nil {
		return fmt.Errorf("ffmpeg render: %w", err)
	}

	info, err := os.Stat(output)
	if err != nil {
		return fmt.Errorf("render: output missing after ffmpeg reported success: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("render: output file %s is empty", output)
	}
	return nil
}
