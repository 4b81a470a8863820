package scenes

import (
	"context"
	"testing"

	"wordburn/internal/logging"
	"wordburn/internal/queue"
	"wordburn/internal/testsupport"
)

func TestHandlerDisabledRecordsEmptyScenes(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithScenesDisabled())
	handler := NewHandler(cfg, logging.NewNop())

	item := &queue.Item{RunID: "run-1", VideoFile: "/tmp/video.mp4"}
	if err := handler.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if item.ScenesJSON != "[]" {
		t.Fatalf("ScenesJSON = %q", item.ScenesJSON)
	}

	ranges, err := DecodeRanges(item)
	if err != nil {
		t.Fatalf("DecodeRanges failed: %v", err)
	}
	if len(ranges) != 0 {
		t.Fatalf("expected no ranges, got %#v", ranges)
	}
}

func TestHandlerPrepareRequiresVideo(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	handler := NewHandler(cfg, logging.NewNop())

	if err := handler.Prepare(context.Background(), &queue.Item{RunID: "run-1"}); err == nil {
		t.Fatal("expected error without a video file")
	}

	item := &queue.Item{RunID: "run-1", VideoFile: "/tmp/video.mp4"}
	if err := handler.Prepare(context.Background(), item); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if item.ProgressStage != "Analyzing" {
		t.Fatalf("progress stage = %q", item.ProgressStage)
	}
}

func TestDecodeRangesRejectsMalformedJSON(t *testing.T) {
	if _, err := DecodeRanges(&queue.Item{ScenesJSON: "{broken"}); err == nil {
		t.Fatal("expected error for malformed scene JSON")
	}
}
