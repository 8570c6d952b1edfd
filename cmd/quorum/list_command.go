package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued meetings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *apiClient) error {
				meetings, err := client.ListMeetings(cmd.Context(), strings.TrimSpace(status))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(meetings) == 0 {
					fmt.Fprintln(out, "No meetings in the queue")
					return nil
				}
				headers := []string{"Meeting", "Title", "Status", "Progress", "Created"}
				rows := buildMeetingRows(meetings)
				fmt.Fprintln(out, renderTable(headers, rows, nil))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (e.g. pending, completed, failed)")
	return cmd
}
