package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"wordburn/internal/services"
)

// Config carries the transcription settings injected from application config.
type Config struct {
	Binary   string
	Model    string
	Language string
	Timeout  time.Duration
}

// Segment is a single timed span of transcribed speech.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result holds the outcome of a transcription run.
type Result struct {
	Text     string
	Segments []Segment
	JSONPath string
}

// transcript mirrors the JSON document whisper writes alongside the audio.
type transcript struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
	Language string    `json:"language"`
}

// Client wraps the whisper command-line transcriber.
type Client struct {
	cfg    Config
	runner services.CommandRunner
}

// NewClient constructs a whisper client.
func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = "whisper"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "small"
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

// Available reports whether the whisper binary can be resolved on PATH.
func (c *Client) Available() error {
	_, err := exec.LookPath(c.cfg.Binary)
	return err
}

// Transcribe runs whisper over the media at source, writing its JSON output
// into outputDir, and returns the parsed transcript.
func (c *Client) Transcribe(ctx context.Context, source, outputDir string) (Result, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return Result{}, fmt.Errorf("transcribe: source path required")
	}
	if outputDir == "" {
		return Result{}, fmt.Errorf("transcribe: output directory required")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("transcribe: ensure output dir: %w", err)
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	args := []string{
		source,
		"--model", c.cfg.Model,
		"--output_format", "json",
		"--output_dir", outputDir,
		"--verbose", "False",
	}
	if lang := strings.TrimSpace(c.cfg.Language); lang != "" {
		args = append(args, "--language", lang)
	}
	if _, err := c.runner(ctx, c.cfg.Binary, args...); err != nil {
		return Result{}, fmt.Errorf("whisper: %w", err)
	}

	jsonPath := transcriptPath(source, outputDir)
	doc, err := readTranscript(jsonPath)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Text:     strings.TrimSpace(doc.Text),
		Segments: cleanSegments(doc.Segments),
		JSONPath: jsonPath,
	}, nil
}

// transcriptPath computes where whisper writes its JSON document: the source
// basename with the extension swapped for .json, inside outputDir.
func transcriptPath(source, outputDir string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, base+".json")
}

func readTranscript(path string) (transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return transcript{}, fmt.Errorf("whisper output: %w", err)
	}
	var doc transcript
	if err := json.Unmarshal(data, &doc); err != nil {
		return transcript{}, fmt.Errorf("whisper output parse: %w", err)
	}
	return doc, nil
}

// cleanSegments trims segment text and drops entries with no speech or an
// inverted time range.
func cleanSegments(raw []Segment) []Segment {
	segments := make([]Segment, 0, len(raw))
	for _, segment := range raw {
		segment.Text = strings.TrimSpace(segment.Text)
		if segment.Text == "" {
			continue
		}
		if segment.End < segment.Start {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}
