package compositing

import (
	"context"
	"errors"
	"os"
	"testing"

	"wordburn/internal/logging"
	"wordburn/internal/queue"
	"wordburn/internal/subtitles"
	"wordburn/internal/testsupport"
)

func TestHandlerRendersAndCleansWorkDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	handler := NewHandler(cfg, logging.NewNop())

	const runID = "run-1"
	workDir := cfg.RunWorkDir(runID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		t.Fatalf("mkdir work dir: %v", err)
	}
	videoPath := cfg.WorkVideoPath(runID)
	if err := os.WriteFile(videoPath, []byte("source"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}
	subtitlePath := cfg.SubtitlePath(runID)
	if err := subtitles.WriteFile(subtitlePath, []subtitles.Cue{
		{Index: 0, Start: 0, End: 2, Text: "hello wide world"},
	}); err != nil {
		t.Fatalf("write subtitles: %v", err)
	}

	var renderedFilter string
	handler.Renderer().WithCommandRunner(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		for i, arg := range args {
			if arg == "-filter_script:v" && i+1 < len(args) {
				data, err := os.ReadFile(args[i+1])
				if err != nil {
					t.Errorf("read filter script: %v", err)
				}
				renderedFilter = string(data)
			}
		}
		return nil, os.WriteFile(cfg.FinalVideoPath(runID), []byte("rendered"), 0o644)
	})

	item := &queue.Item{RunID: runID, VideoFile: videoPath, SubtitleFile: subtitlePath}
	if err := handler.Prepare(context.Background(), item); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := handler.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if item.FinalFile != cfg.FinalVideoPath(runID) {
		t.Errorf("final file = %q", item.FinalFile)
	}
	if renderedFilter == "" {
		t.Error("filter script never reached the renderer")
	}
	if _, err := os.Stat(workDir); !os.IsNotExist(err) {
		t.Errorf("work dir should be removed after a successful render, stat err: %v", err)
	}
}

func TestHandlerRendersUncaptionedWhenSilent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	handler := NewHandler(cfg, logging.NewNop())

	const runID = "run-silent"
	if err := os.MkdirAll(cfg.RunWorkDir(runID), 0o755); err != nil {
		t.Fatalf("mkdir work dir: %v", err)
	}
	videoPath := cfg.WorkVideoPath(runID)
	if err := os.WriteFile(videoPath, []byte("source"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}
	subtitlePath := cfg.SubtitlePath(runID)
	if err := subtitles.WriteFile(subtitlePath, nil); err != nil {
		t.Fatalf("write subtitles: %v", err)
	}

	handler.Renderer().WithCommandRunner(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		for _, arg := range args {
			if arg == "-filter_script:v" {
				t.Errorf("uncaptioned render should not carry a filter: %v", args)
			}
		}
		return nil, os.WriteFile(cfg.FinalVideoPath(runID), []byte("rendered"), 0o644)
	})

	item := &queue.Item{RunID: runID, VideoFile: videoPath, SubtitleFile: subtitlePath}
	if err := handler.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if item.FinalFile != cfg.FinalVideoPath(runID) {
		t.Errorf("final file = %q", item.FinalFile)
	}
}

func TestHandlerPrepareRequiresArtifacts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	handler := NewHandler(cfg, logging.NewNop())

	if err := handler.Prepare(context.Background(), &queue.Item{RunID: "r"}); err == nil {
		t.Fatal("expected error without a video file")
	}
	if err := handler.Prepare(context.Background(), &queue.Item{RunID: "r", VideoFile: "/tmp/v.mp4"}); err == nil {
		t.Fatal("expected error without a subtitle file")
	}
}

func TestHandlerExecuteFailsOnMissingSubtitles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	handler := NewHandler(cfg, logging.NewNop())

	item := &queue.Item{
		RunID:        "run-2",
		VideoFile:    "/tmp/video.mp4",
		SubtitleFile: cfg.SubtitlePath("run-2"),
	}
	if err := handler.Execute(context.Background(), item); err == nil {
		t.Fatal("expected error when subtitle file is missing")
	}
}

func TestRendererOmitsFilterWhenEmpty(t *testing.T) {
	dir := t.TempDir()
	renderer := NewRenderer(RendererConfig{})

	var capturedArgs []string
	renderer.WithCommandRunner(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		capturedArgs = args
		return nil, os.WriteFile(dir+"/out.mp4", []byte("rendered"), 0o644)
	})

	if err := renderer.Render(context.Background(), "in.mp4", dir+"/out.mp4", "", dir+"/script"); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for _, arg := range capturedArgs {
		if arg == "-filter_script:v" {
			t.Fatalf("filter args present for empty filter: %v", capturedArgs)
		}
	}
	if _, err := os.Stat(dir + "/script"); !os.IsNotExist(err) {
		t.Errorf("script file should not be written for empty filter, stat err: %v", err)
	}
}

func TestRendererFailsWhenOutputEmpty(t *testing.T) {
	dir := t.TempDir()
	renderer := NewRenderer(RendererConfig{})
	renderer.WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		return nil, os.WriteFile(dir+"/out.mp4", nil, 0o644)
	})

	err := renderer.Render(context.Background(), "in.mp4", dir+"/out.mp4", "drawtext=text='hi'", dir+"/script")
	if err == nil {
		t.Fatal("expected error for empty render output")
	}
}

func TestRendererPropagatesToolFailure(t *testing.T) {
	dir := t.TempDir()
	renderer := NewRenderer(RendererConfig{})
	renderer.WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	})

	err := renderer.Render(context.Background(), "in.mp4", dir+"/out.mp4", "drawtext=text='hi'", dir+"/script")
	if err == nil {
		t.Fatal("expected error when ffmpeg fails")
	}
}
