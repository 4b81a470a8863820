package scenes

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"wordburn/internal/services"
)

// Range is one detected scene with a half-open time window in seconds.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Duration returns the scene length in seconds.
func (r Range) Duration() float64 {
	return r.End - r.Start
}

// DetectorConfig carries scene detection parameters.
type DetectorConfig struct {
	Binary      string
	Threshold   float64
	MinDuration float64
}

// Detector finds scene boundaries with ffmpeg's scene-change filter.
type Detector struct {
	cfg    DetectorConfig
	runner services.CommandRunner
}

// NewDetector constructs a scene detector.
func NewDetector(cfg DetectorConfig) *Detector {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = "ffmpeg"
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 0.4
	}
	return &Detector{cfg: cfg, runner: services.RunCommand}
}

// WithCommandRunner sets a custom command runner (used in tests).
func (d *Detector) WithCommandRunner(runner services.CommandRunner) {
	d.runner = runner
}

// Detect runs ffmpeg over the video and returns the scenes that meet the
// configured minimum duration. totalDuration bounds the final scene.
func (d *Detector) Detect(ctx context.Context, videoPath string, totalDuration float64) ([]Range, error) {
	if strings.TrimSpace(videoPath) == "" {
		return nil, fmt.Errorf("scene detect: video path required")
	}
	if totalDuration <= 0 {
		return nil, fmt.Errorf("scene detect: total duration must be positive, got %v", totalDuration)
	}

	filter := fmt.Sprintf("select='gt(scene,%s)',metadata=print", formatThreshold(d.cfg.Threshold))
	args := []string{
		"-hide_banner",
		"-i", videoPath,
		"-filter:v", filter,
		"-an",
		"-f", "null",
		"-",
	}
	output, err := d.runner(ctx, d.cfg.Binary, args...)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg scene filter: %w", err)
	}

	boundaries := ParseBoundaries(string(output))
	return BuildRanges(boundaries, totalDuration, d.cfg.MinDuration), nil
}

// ParseBoundaries extracts the pts_time values the metadata filter printed.
func ParseBoundaries(output string) []float64 {
	var boundaries []float64
	for _, line := range strings.Split(output, "\n") {
		idx := strings.Index(line, "pts_time:")
		if idx < 0 {
			continue
		}
		value := line[idx+len("pts_time:"):]
		if cut := strings.IndexAny(value, " \t"); cut >= 0 {
			value = value[:cut]
		}
		seconds, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || seconds < 0 {
			continue
		}
		boundaries = append(boundaries, seconds)
	}
	sort.Float64s(boundaries)
	return boundaries
}

// BuildRanges converts sorted boundary times into scene ranges covering
// [0, totalDuration], keeping only scenes at least minDuration long. The
// minimum is inclusive, so a scene exactly minDuration long survives.
func BuildRanges(boundaries []float64, totalDuration, minDuration float64) []Range {
	points := make([]float64, 0, len(boundaries)+2)
	points = append(points, 0)
	for _, boundary := range boundaries {
		if boundary <= 0 || boundary >= totalDuration {
			continue
		}
		points = append(points, boundary)
	}
	points = append(points, totalDuration)

	ranges := make([]Range, 0, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		candidate := Range{Start: points[i], End: points[i+1]}
		if candidate.Duration() >= minDuration {
			ranges = append(ranges, candidate)
		}
	}
	return ranges
}

func formatThreshold(threshold float64) string {
	return strconv.FormatFloat(threshold, 'f', -1, 64)
}
