package fetch_test

import (
	"context"
	"os"
	"testing"

	"wordburn/internal/fetch"
	"wordburn/internal/logging"
	"wordburn/internal/queue"
	"wordburn/internal/testsupport"
)

func TestPrepareValidatesSourceURL(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	handler := fetch.NewHandler(cfg, logging.NewNop())

	for _, source := range []string{"", "not-a-url", "/relative/path", "http://"} {
		if err := handler.Prepare(context.Background(), &queue.Item{SourceURL: source}); err == nil {
			t.Errorf("expected error for source %q", source)
		}
	}

	item := &queue.Item{SourceURL: "https://example.com/watch?v=abc"}
	if err := handler.Prepare(context.Background(), item); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if item.ProgressStage != "Fetching" {
		t.Fatalf("progress stage = %q", item.ProgressStage)
	}
}

func TestExecuteRecordsVideoAndTitle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	handler := fetch.NewHandler(cfg, logging.NewNop())

	item := &queue.Item{RunID: "run-1", SourceURL: "https://example.com/v"}
	dest := cfg.WorkVideoPath(item.RunID)

	calls := 0
	handler.Client().WithCommandRunner(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		calls++
		for _, arg := range args {
			if arg == "--print" {
				return []byte("A Video Title\n"), nil
			}
		}
		return nil, os.WriteFile(dest, []byte("video"), 0o644)
	})

	if err := handler.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if item.Title != "A Video Title" {
		t.Errorf("title = %q", item.Title)
	}
	if item.VideoFile != dest {
		t.Errorf("video file = %q", item.VideoFile)
	}
	if calls != 2 {
		t.Errorf("expected title lookup and download, got %d calls", calls)
	}
}

func TestExecuteSurvivesTitleFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	handler := fetch.NewHandler(cfg, logging.NewNop())

	item := &queue.Item{RunID: "run-2", SourceURL: "https://example.com/v"}
	dest := cfg.WorkVideoPath(item.RunID)

	handler.Client().WithCommandRunner(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		for _, arg := range args {
			if arg == "--print" {
				return nil, context.DeadlineExceeded
			}
		}
		return nil, os.WriteFile(dest, []byte("video"), 0o644)
	})

	if err := handler.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if item.Title != "" {
		t.Errorf("title should stay empty on lookup failure, got %q", item.Title)
	}
}
