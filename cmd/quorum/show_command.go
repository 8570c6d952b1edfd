package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"quorum/internal/api"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var withTranscript bool

	cmd := &cobra.Command{
		Use:   "show <meeting-id>",
		Short: "Show a meeting with its summaries and context",
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
				renderMeetingDetail(cmd.OutOrStdout(), detail, withTranscript)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&withTranscript, "transcript", false, "Include the full speaker-attributed transcript")
	return cmd
}

func renderMeetingDetail(out io.Writer, detail *api.MeetingDetail, withTranscript bool) {
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Meeting "+detail.MeetingID, colorize) {
		fmt.Fprintln(out, line)
	}
	title := detail.Title
	if title == "" {
		title = "Untitled"
	}
	fmt.Fprintln(out, renderStatusLine("Title", statusInfo, title, colorize))
	fmt.Fprintln(out, renderStatusLine("Status", meetingStatusKind(detail.Status), formatStatusLabel(detail.Status), colorize))
	if len(detail.Participants) > 0 {
		fmt.Fprintln(out, renderStatusLine("Participants", statusInfo, strings.Join(detail.Participants, ", "), colorize))
	}
	if detail.Progress.Stage != "" && detail.Status != "completed" && detail.Status != "failed" {
		message := fmt.Sprintf("%s %.0f%%", formatStageLabel(detail.Progress.Stage), detail.Progress.Percent)
		if detail.Progress.Message != "" {
			message += " (" + detail.Progress.Message + ")"
		}
		fmt.Fprintln(out, renderStatusLine("Progress", statusInfo, message, colorize))
	}
	if detail.FailedStage != "" {
		fmt.Fprintln(out, renderStatusLine("Failed Stage", statusError, formatStageLabel(detail.FailedStage), colorize))
	}
	if detail.ErrorMessage != "" {
		fmt.Fprintln(out, renderStatusLine("Error", statusError, detail.ErrorMessage, colorize))
	}
	for _, warning := range detail.Warnings {
		fmt.Fprintln(out, renderStatusLine("Warning", statusWarn, warning, colorize))
	}

	if detail.Summaries != nil && detail.Summaries.Medium != "" {
		fmt.Fprintln(out)
		for _, line := range renderSectionHeader("Summary", colorize) {
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out, detail.Summaries.Medium)
	}

	if len(detail.ActionItems) > 0 {
		fmt.Fprintln(out)
		for _, line := range renderSectionHeader("Action Items", colorize) {
			fmt.Fprintln(out, line)
		}
		headers := []string{"#", "Task", "Assignee", "Deadline", "Priority"}
		fmt.Fprintln(out, renderTable(headers, buildActionItemRows(detail.ActionItems), []columnAlignment{alignRight}))
	}

	if len(detail.Context) > 0 {
		fmt.Fprintln(out)
		for _, line := range renderSectionHeader("Historical Context", colorize) {
			fmt.Fprintln(out, line)
		}
		for _, match := range detail.Context {
			fmt.Fprintf(out, "  [%s, relevance %.2f] %s\n", match.MeetingID, match.Score, truncate(match.Excerpt, 120))
		}
	}

	if withTranscript && len(detail.Transcript) > 0 {
		fmt.Fprintln(out)
		for _, line := range renderSectionHeader("Transcript", colorize) {
			fmt.Fprintln(out, line)
		}
		for _, seg := range detail.Transcript {
			fmt.Fprintf(out, "  %s %s: %s\n", formatClock(seg.Start), seg.Speaker, seg.Text)
		}
	}
}

func meetingStatusKind(status string) statusKind {
	switch status {
	case "completed":
		return statusOK
	case "failed":
		return statusError
	case "pending":
		return statusInfo
	default:
		return statusWarn
	}
}
