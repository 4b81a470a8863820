package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and pipeline status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			status, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			running := "stopped"
			if status.Running {
				running = fmt.Sprintf("running (pid %d)", status.PID)
			}
			fmt.Fprintf(out, "Daemon: %s\n", running)
			fmt.Fprintf(out, "Queue DB: %s\n", status.QueueDBPath)
			if status.Workflow.LastError != "" {
				fmt.Fprintf(out, "Last error: %s\n", status.Workflow.LastError)
			}

			if len(status.Workflow.QueueStats) > 0 {
				keys := make([]string, 0, len(status.Workflow.QueueStats))
				for status := range status.Workflow.QueueStats {
					keys = append(keys, status)
				}
				sort.Strings(keys)
				rows := make([][]string, 0, len(keys))
				for _, key := range keys {
					rows = append(rows, []string{key, strconv.Itoa(status.Workflow.QueueStats[key])})
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderTable(
					[]string{"Status", "Items"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
			}

			if len(status.Workflow.StageHealth) > 0 {
				names := make([]string, 0, len(status.Workflow.StageHealth))
				for name := range status.Workflow.StageHealth {
					names = append(names, name)
				}
				sort.Strings(names)
				rows := make([][]string, 0, len(names))
				for _, name := range names {
					health := status.Workflow.StageHealth[name]
					ready := "ok"
					if !health.Ready {
						ready = "unavailable"
					}
					rows = append(rows, []string{name, ready, health.Detail})
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderTable(
					[]string{"Stage", "Health", "Detail"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				))
			}

			if len(status.Dependencies) > 0 {
				rows := make([][]string, 0, len(status.Dependencies))
				for _, dep := range status.Dependencies {
					available := "ok"
					if !dep.Available {
						available = "missing"
					}
					rows = append(rows, []string{dep.Name, dep.Command, available, dep.Detail})
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderTable(
					[]string{"Dependency", "Command", "State", "Detail"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
			}
			return nil
		},
	}
}
