package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newActionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "actions <meeting-id>",
		Short: "List the action items extracted from a meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meetingID := strings.TrimSpace(args[0])
			return ctx.withClient(func(client *apiClient) error {
				detail, err := client.GetMeeting(cmd.Context(), meetingID)
				if err != nil {
					if isNotFound(err) {
						return fmt.Errorf("meeting %s not found", meetingID)
					}
					return err
				}
				out := cmd.OutOrStdout()
				if len(detail.ActionItems) == 0 {
					fmt.Fprintf(out, "No action items recorded for %s\n", meetingID)
					return nil
				}
				headers := []string{"#", "Task", "Assignee", "Deadline", "Priority"}
				fmt.Fprintln(out, renderTable(headers, buildActionItemRows(detail.ActionItems), []columnAlignment{alignRight}))
				return nil
			})
		},
	}
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <meeting-id>",
		Short: "Remove a meeting from the queue and the vector index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meetingID := strings.TrimSpace(args[0])
			return ctx.withClient(func(client *apiClient) error {
				if err := client.RemoveMeeting(cmd.Context(), meetingID); err != nil {
					if isNotFound(err) {
						return fmt.Errorf("meeting %s not found", meetingID)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed meeting %s\n", meetingID)
				return nil
			})
		},
	}
}
