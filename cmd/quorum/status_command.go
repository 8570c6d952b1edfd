package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and pipeline status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiClient) error {
				status, err := client.Status(cmd.Context())
				if err != nil {
					return err
				}
				health, err := client.Health(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				for _, line := range renderSectionHeader("Daemon", colorize) {
					fmt.Fprintln(out, line)
				}
				runningKind := statusOK
				if !status.Running {
					runningKind = statusError
				}
				fmt.Fprintln(out, renderStatusLine("Running", runningKind, yesNo(status.Running), colorize))
				fmt.Fprintln(out, renderStatusLine("Queue DB", statusInfo, status.QueueDBPath, colorize))
				if status.Workflow.LastError != "" {
					fmt.Fprintln(out, renderStatusLine("Last Error", statusError, status.Workflow.LastError, colorize))
				}

				fmt.Fprintln(out)
				for _, line := range renderSectionHeader("Stages", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, stg := range health.Stages {
					kind := statusOK
					if !stg.Ready {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(formatStageLabel(stg.Name), kind, stg.Detail, colorize))
				}

				if len(status.Workflow.QueueStats) > 0 {
					fmt.Fprintln(out)
					for _, line := range renderSectionHeader("Queue", colorize) {
						fmt.Fprintln(out, line)
					}
					headers := []string{"Status", "Count"}
					fmt.Fprintln(out, renderTable(headers, buildQueueStatsRows(status.Workflow.QueueStats), []columnAlignment{alignLeft, alignRight}))
				}
				return nil
			})
		},
	}
}
