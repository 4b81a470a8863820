package subtitles_test

import (
	"context"
	"testing"

	"wordburn/internal/logging"
	"wordburn/internal/queue"
	"wordburn/internal/subtitles"
	"wordburn/internal/testsupport"
)

func TestHandlerWritesSubtitleFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	handler := subtitles.NewHandler(cfg, logging.NewNop())

	item := &queue.Item{
		RunID:        "run-1",
		SegmentsJSON: `[{"start":0,"end":1.5,"text":"hello"},{"start":1.5,"end":3,"text":"world"}]`,
	}
	if err := handler.Prepare(context.Background(), item); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := handler.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if item.SubtitleFile != cfg.SubtitlePath("run-1") {
		t.Fatalf("subtitle file = %q", item.SubtitleFile)
	}
	cues, err := subtitles.ReadFile(item.SubtitleFile)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(cues) != 2 || cues[1].Text != "world" {
		t.Fatalf("unexpected cues: %#v", cues)
	}
}

func TestHandlerRequiresSegments(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	handler := subtitles.NewHandler(cfg, logging.NewNop())

	if err := handler.Prepare(context.Background(), &queue.Item{RunID: "run-2"}); err == nil {
		t.Fatal("expected error without transcript segments")
	}
}

func TestHandlerWritesEmptyDocumentForSilentRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	handler := subtitles.NewHandler(cfg, logging.NewNop())

	item := &queue.Item{RunID: "run-3", SegmentsJSON: "[]"}
	if err := handler.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if item.SubtitleFile != cfg.SubtitlePath("run-3") {
		t.Fatalf("subtitle file = %q", item.SubtitleFile)
	}

	cues, err := subtitles.ReadFile(item.SubtitleFile)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(cues) != 0 {
		t.Fatalf("expected empty document, got %#v", cues)
	}
}
