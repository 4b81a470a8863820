package subtitles

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"wordburn/internal/services/whisper"
)

// Cue is one subtitle entry with a half-open time window in seconds.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Duration returns the cue length in seconds.
func (c Cue) Duration() float64 {
	return c.End - c.Start
}

// FromSegments converts transcription segments into sequential cues,
// numbering from zero.
func FromSegments(segments []whisper.Segment) []Cue {
	cues := make([]Cue, 0, len(segments))
	for _, segment := range segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		cues = append(cues, Cue{
			Index: len(cues),
			Start: segment.Start,
			End:   segment.End,
			Text:  text,
		})
	}
	return cues
}

// Format renders cues as an SRT document.
func Format(cues []Cue) string {
	var builder strings.Builder
	for i, cue := range cues {
		if i > 0 {
			builder.WriteString("\n")
		}
		fmt.Fprintf(&builder, "%d\n", cue.Index)
		fmt.Fprintf(&builder, "%s --> %s\n", FormatTimestamp(cue.Start), FormatTimestamp(cue.End))
		builder.WriteString(cue.Text)
		builder.WriteString("\n")
	}
	return builder.String()
}

// WriteFile writes cues to path in SRT format, creating parent directories.
func WriteFile(path string, cues []Cue) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("subtitles: ensure dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Format(cues)), 0o644); err != nil {
		return fmt.Errorf("subtitles: write %s: %w", path, err)
	}
	return nil
}

// ReadFile parses the SRT document at path.
func ReadFile(path string) ([]Cue, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("subtitles: open %s: %w", path, err)
	}
	defer file.Close()

	cues, err := parse(bufio.NewScanner(file))
	if err != nil {
		return nil, fmt.Errorf("subtitles: parse %s: %w", path, err)
	}
	return cues, nil
}

// Parse decodes an SRT document from a string.
func Parse(document string) ([]Cue, error) {
	return parse(bufio.NewScanner(strings.NewReader(document)))
}

func parse(scanner *bufio.Scanner) ([]Cue, error) {
	var cues []Cue
	var block []string

	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		cue, err := parseBlock(block)
		if err != nil {
			return err
		}
		cues = append(cues, cue)
		block = block[:0]
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return cues, nil
}

func parseBlock(lines []string) (Cue, error) {
	if len(lines) < 2 {
		return Cue{}, fmt.Errorf("cue block truncated: %q", strings.Join(lines, " / "))
	}
	index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return Cue{}, fmt.Errorf("cue index %q: %w", lines[0], err)
	}
	start, end, err := parseTimeRange(lines[1])
	if err != nil {
		return Cue{}, err
	}
	return Cue{
		Index: index,
		Start: start,
		End:   end,
		Text:  strings.Join(lines[2:], "\n"),
	}, nil
}

func parseTimeRange(line string) (float64, float64, error) {
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("cue time range %q malformed", line)
	}
	start, err := ParseTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseTimestamp(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// FormatTimestamp renders seconds as an SRT timestamp (HH:MM:SS,mmm).
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int64(math.Round(seconds * 1000))
	hours := millis / 3_600_000
	millis -= hours * 3_600_000
	minutes := millis / 60_000
	millis -= minutes * 60_000
	secs := millis / 1000
	millis -= secs * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// ParseTimestamp decodes an SRT timestamp into seconds.
func ParseTimestamp(value string) (float64, error) {
	clock, fraction, ok := strings.Cut(value, ",")
	if !ok {
		return 0, fmt.Errorf("timestamp %q missing millisecond separator", value)
	}
	fields := strings.Split(clock, ":")
	if len(fields) != 3 {
		return 0, fmt.Errorf("timestamp %q malformed", value)
	}
	hours, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("timestamp hours %q: %w", fields[0], err)
	}
	minutes, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("timestamp minutes %q: %w", fields[1], err)
	}
	seconds, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, fmt.Errorf("timestamp seconds %q: %w", fields[2], err)
	}
	millis, err := strconv.Atoi(fraction)
	if err != nil {
		return 0, fmt.Errorf("timestamp millis %q: %w", fraction, err)
	}
	total := float64(hours)*3600 + float64(minutes)*60 + float64(seconds) + float64(millis)/1000
	return total, nil
}
