package ffprobe

import (
	"encoding/json"
	"testing"
)

const probeOutput = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1280, "height": 720},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "sample_rate": "44100", "channels": 2}
  ],
  "format": {
    "filename": "video.mp4",
    "nb_streams": 2,
    "duration": "12.480000",
    "size": "1048576",
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2"
  }
}`

func TestResultAccessors(t *testing.T) {
	var result Result
	if err := json.Unmarshal([]byte(probeOutput), &result); err != nil {
		t.Fatalf("unmarshal probe output: %v", err)
	}

	if got := result.VideoStreamCount(); got != 1 {
		t.Errorf("VideoStreamCount = %d", got)
	}
	if got := result.AudioStreamCount(); got != 1 {
		t.Errorf("AudioStreamCount = %d", got)
	}
	if got := result.DurationSeconds(); got != 12.48 {
		t.Errorf("DurationSeconds = %v", got)
	}
	if got := result.SizeBytes(); got != 1048576 {
		t.Errorf("SizeBytes = %d", got)
	}
}

func TestResultAccessorsToleratesMissingFields(t *testing.T) {
	var result Result
	if result.VideoStreamCount() != 0 || result.AudioStreamCount() != 0 {
		t.Error("empty result should report zero streams")
	}
	if result.DurationSeconds() != 0 {
		t.Errorf("DurationSeconds = %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Errorf("SizeBytes = %d", result.SizeBytes())
	}

	result.Format.Duration = "garbage"
	if result.DurationSeconds() != 0 {
		t.Errorf("garbage duration should map to 0, got %v", result.DurationSeconds())
	}
}
