package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wordburn/internal/compositing"
	"wordburn/internal/daemon"
	"wordburn/internal/fetch"
	"wordburn/internal/logging"
	"wordburn/internal/queue"
	"wordburn/internal/scenes"
	"wordburn/internal/subtitles"
	"wordburn/internal/transcription"
	"wordburn/internal/workflow"
)

// newRunCommand runs the daemon in the foreground, useful for development
// and for supervisors that manage the process directly.
func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the daemon in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}

			manager := workflow.NewManager(cfg, store, logger)
			manager.ConfigureStages(workflow.StageSet{
				Fetcher:     fetch.NewHandler(cfg, logger),
				Transcriber: transcription.NewHandler(cfg, logger),
				Analyzer:    scenes.NewHandler(cfg, logger),
				Subtitler:   subtitles.NewHandler(cfg, logger),
				Renderer:    compositing.NewHandler(cfg, logger),
			})

			d, err := daemon.New(cfg, store, logger, manager)
			if err != nil {
				_ = store.Close()
				return err
			}
			defer d.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := d.Start(runCtx); err != nil {
				return err
			}
			<-runCtx.Done()
			return nil
		},
	}
}
