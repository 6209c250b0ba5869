package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completeCmd = &cobra.Command{
	Use:   "complete <tutorial>",
	Short: "Mark a tutorial as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runComplete,
}

func runComplete(cmd *cobra.Command, args []string) error {
	sess, cleanup, err := openSession()
	if err != nil {
		return trackCLIError("complete", err)
	}
	defer cleanup()

	if _, err := sess.CompleteTutorial(args[0]); err != nil {
		return trackCLIError("complete", fmt.Errorf("complete tutorial: %w", err))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Tutorial %q completed. Overall progress: %d%%\n",
		successStyle.Render("✓"), args[0], sess.Ledger().OverallPercentage())
	return nil
}
