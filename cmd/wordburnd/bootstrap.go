package main

import (
	"log/slog"

	"wordburn/internal/compositing"
	"wordburn/internal/config"
	"wordburn/internal/fetch"
	"wordburn/internal/scenes"
	"wordburn/internal/subtitles"
	"wordburn/internal/transcription"
	"wordburn/internal/workflow"
)

func buildStages(cfg *config.Config, logger *slog.Logger) workflow.StageSet {
	return workflow.StageSet{
		Fetcher:     fetch.NewHandler(cfg, logger),
		Transcriber: transcription.NewHandler(cfg, logger),
		Analyzer:    scenes.NewHandler(cfg, logger),
		Subtitler:   subtitles.NewHandler(cfg, logger),
		Renderer:    compositing.NewHandler(cfg, logger),
	}
}
