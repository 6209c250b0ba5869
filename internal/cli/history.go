package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently executed queries",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	sess, cleanup, err := openSession()
	if err != nil {
		return trackCLIError("history", err)
	}
	defer cleanup()

	entries := sess.History().List()
	telemetryClient.TrackHistoryViewed(len(entries))

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(out, "No queries yet.")
		_, _ = fmt.Fprintln(out, "\nUse 'sqlgram run <query>' or the playground to run one.")
		return nil
	}

	for _, e := range entries {
		mark := successStyle.Render("✓")
		if !e.Success {
			mark = failureStyle.Render("✗")
		}
		query := strings.Join(strings.Fields(e.Query), " ")
		_, _ = fmt.Fprintf(out, "%s %s  %s\n", mark, mutedStyle.Render(e.Timestamp), query)
	}
	return nil
}
