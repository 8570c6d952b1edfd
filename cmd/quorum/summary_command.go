package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSummaryCommand(ctx *commandContext) *cobra.Command {
	var level string

	cmd := &cobra.Command{
		Use:   "summary <meeting-id>",
		Short: "Print one summary level for a meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meetingID := strings.TrimSpace(args[0])
			return ctx.withClient(func(client *apiClient) error {
				summary, err := client.Summary(cmd.Context(), meetingID, strings.TrimSpace(level))
				if err != nil {
					if isNotFound(err) {
						return fmt.Errorf("meeting %s not found", meetingID)
					}
					return err
				}
				out := cmd.OutOrStdout()
				if strings.TrimSpace(summary.Summary) == "" {
					fmt.Fprintf(out, "No %s summary available yet for %s\n", summary.Level, meetingID)
					return nil
				}
				fmt.Fprintln(out, summary.Summary)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&level, "level", "l", "", "Summary level: brief, medium, or detailed (default medium)")
	return cmd
}
