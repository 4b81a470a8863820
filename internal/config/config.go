package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	WorkDir        string `toml:"work_dir"`
	MediaDir       string `toml:"media_dir"`
	LogDir         string `toml:"log_dir"`
	MediaURLPrefix string `toml:"media_url_prefix"`
	APIBind        string `toml:"api_bind"`
	APIToken       string `toml:"api_token"`
}

// Download contains configuration for the yt-dlp fetch stage.
type Download struct {
	Binary         string `toml:"binary"`
	Format         string `toml:"format"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Transcription contains configuration for the whisper transcribe stage.
type Transcription struct {
	Binary         string `toml:"binary"`
	Model          string `toml:"model"`
	Language       string `toml:"language"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Scenes contains configuration for scene boundary detection.
type Scenes struct {
	Enabled     bool    `toml:"enabled"`
	Threshold   float64 `toml:"threshold"`
	MinDuration float64 `toml:"min_duration"`
}

// Captions contains configuration for the caption render stage.
type Captions struct {
	FontPath  string `toml:"font_path"`
	FontSize  int    `toml:"font_size"`
	FontColor string `toml:"font_color"`
	BoxColor  string `toml:"box_color"`
	FrameRate int    `toml:"frame_rate"`
	Codec     string `toml:"codec"`
}

// Tools contains overrides for the shared ffmpeg toolchain binaries, which
// serve both the scene scan and the caption render.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Workflow contains configuration for daemon timing and intervals.
type Workflow struct {
	QueuePollInterval  int `toml:"queue_poll_interval"`
	ErrorRetryInterval int `toml:"error_retry_interval"`
	HeartbeatInterval  int `toml:"heartbeat_interval"`
	HeartbeatTimeout   int `toml:"heartbeat_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for wordburn.
//
// Configuration sections by subsystem:
//   - Paths: work/media/log directories, published URL prefix, API bind
//   - Download: yt-dlp binary and format selection
//   - Transcription: whisper binary, model, and language
//   - Scenes: scene-change threshold and minimum scene duration
//   - Captions: font resource and render parameters
//   - Tools: ffmpeg/ffprobe binary overrides
//   - Workflow: daemon polling intervals and heartbeats
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Download      Download      `toml:"download"`
	Transcription Transcription `toml:"transcription"`
	Scenes        Scenes        `toml:"scenes"`
	Captions      Captions      `toml:"captions"`
	Tools         Tools         `toml:"tools"`
	Workflow      Workflow      `toml:"workflow"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/wordburn/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("wordburn.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.MediaDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// YtdlpBinary returns the yt-dlp executable used for downloads.
func (c *Config) YtdlpBinary() string {
	if b := strings.TrimSpace(c.Download.Binary); b != "" {
		return b
	}
	return "yt-dlp"
}

// WhisperBinary returns the whisper executable used for transcription.
func (c *Config) WhisperBinary() string {
	if b := strings.TrimSpace(c.Transcription.Binary); b != "" {
		return b
	}
	return "whisper"
}

// FFmpegBinary returns the ffmpeg executable used for scene detection and rendering.
func (c *Config) FFmpegBinary() string {
	if b := strings.TrimSpace(c.Tools.FFmpeg); b != "" {
		return b
	}
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable used for media inspection.
func (c *Config) FFprobeBinary() string {
	if b := strings.TrimSpace(c.Tools.FFprobe); b != "" {
		return b
	}
	return "ffprobe"
}

// DownloadTimeout returns the fetch stage timeout as a duration.
func (c *Config) DownloadTimeout() time.Duration {
	return time.Duration(c.Download.TimeoutSeconds) * time.Second
}

// TranscriptionTimeout returns the transcribe stage timeout as a duration.
func (c *Config) TranscriptionTimeout() time.Duration {
	return time.Duration(c.Transcription.TimeoutSeconds) * time.Second
}

// RunWorkDir returns the scratch directory for one pipeline run.
func (c *Config) RunWorkDir(runID string) string {
	return filepath.Join(c.Paths.WorkDir, runID)
}

// RunMediaDir returns the published output directory for one pipeline run.
func (c *Config) RunMediaDir(runID string) string {
	return filepath.Join(c.Paths.MediaDir, runID)
}

// WorkVideoPath returns where the fetched source video is stored for a run.
func (c *Config) WorkVideoPath(runID string) string {
	return filepath.Join(c.RunWorkDir(runID), "video.mp4")
}

// SubtitlePath returns where the SRT document is published for a run.
func (c *Config) SubtitlePath(runID string) string {
	return filepath.Join(c.RunMediaDir(runID), "subtitles.srt")
}

// FinalVideoPath returns where the captioned video is published for a run.
func (c *Config) FinalVideoPath(runID string) string {
	return filepath.Join(c.RunMediaDir(runID), "video_subtitled.mp4")
}

// MediaURL maps a published file path onto the configured URL prefix. An
// empty string is returned when the path is outside the media directory.
func (c *Config) MediaURL(path string) string {
	rel, err := filepath.Rel(c.Paths.MediaDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	return c.Paths.MediaURLPrefix + "/" + filepath.ToSlash(rel)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
