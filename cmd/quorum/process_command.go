package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"quorum/internal/api"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var title string
	var participants []string

	cmd := &cobra.Command{
		Use:   "process <audio-file>",
		Short: "Queue a recorded meeting for processing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			audioPath, err := filepath.Abs(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve audio path: %w", err)
			}

			return ctx.withClient(func(client *apiClient) error {
				meeting, err := client.CreateMeeting(cmd.Context(), api.CreateMeetingRequest{
					AudioPath:    audioPath,
					Title:        strings.TrimSpace(title),
					Participants: participants,
				})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Queued meeting %s\n", meeting.MeetingID)
				if meeting.Title != "" {
					fmt.Fprintf(out, "Title: %s\n", meeting.Title)
				}
				fmt.Fprintf(out, "Track progress with `quorum show %s`\n", meeting.MeetingID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Meeting title")
	cmd.Flags().StringSliceVarP(&participants, "participant", "p", nil, "Known participant name (repeatable)")
	return cmd
}
