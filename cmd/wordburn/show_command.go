package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|run-id>",
		Short: "Show full detail for one job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			item, err := client.Job(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job %d\n", item.ID)
			fmt.Fprintf(out, "  Run ID:    %s\n", item.RunID)
			fmt.Fprintf(out, "  Source:    %s\n", item.SourceURL)
			if item.Title != "" {
				fmt.Fprintf(out, "  Title:     %s\n", item.Title)
			}
			fmt.Fprintf(out, "  Status:    %s\n", item.StageLabel)
			fmt.Fprintf(out, "  Progress:  %.0f%%", item.ProgressPercent)
			if item.ProgressMessage != "" {
				fmt.Fprintf(out, " (%s)", item.ProgressMessage)
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  Created:   %s\n", humanize.Time(item.CreatedAt))
			fmt.Fprintf(out, "  Updated:   %s\n", humanize.Time(item.UpdatedAt))
			if item.ErrorMessage != "" {
				fmt.Fprintf(out, "  Error:     %s\n", item.ErrorMessage)
			}
			if item.SubtitleFile != "" {
				fmt.Fprintf(out, "  Subtitles: %s%s\n", item.SubtitleFile, fileSizeSuffix(item.SubtitleFile))
			}
			if item.FinalFile != "" {
				fmt.Fprintf(out, "  Video:     %s%s\n", item.FinalFile, fileSizeSuffix(item.FinalFile))
			}
			if item.SubtitleURL != "" {
				fmt.Fprintf(out, "  Subtitle URL: %s\n", item.SubtitleURL)
			}
			if item.FinalURL != "" {
				fmt.Fprintf(out, "  Video URL:    %s\n", item.FinalURL)
			}
			return nil
		},
	}
}

// fileSizeSuffix annotates local paths with their size when the file is
// visible from this machine. Remote CLI use just omits the size.
func fileSizeSuffix(path string) string {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return ""
	}
	return fmt.Sprintf(" (%s)", humanize.Bytes(uint64(info.Size())))
}
