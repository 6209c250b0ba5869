package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	resetProgress bool
	resetHistory  bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset saved progress and/or query history",
	Long: `Reset saved learner state.

The sample database is rebuilt for every command, so only persisted
state needs resetting:

  sqlgram reset --progress     forget tutorial and exercise progress
  sqlgram reset --history      clear the playground query history`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetProgress, "progress", false, "Reset tutorial progress")
	resetCmd.Flags().BoolVar(&resetHistory, "history", false, "Clear query history")
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetProgress && !resetHistory {
		return trackCLIError("reset", errors.New("nothing to reset: pass --progress and/or --history"))
	}

	sess, cleanup, err := openSession()
	if err != nil {
		return trackCLIError("reset", err)
	}
	defer cleanup()

	out := cmd.OutOrStdout()
	if resetProgress {
		sess.ResetProgress()
		_, _ = fmt.Fprintln(out, "Progress reset.")
	}
	if resetHistory {
		n := sess.ClearHistory()
		_, _ = fmt.Fprintf(out, "Cleared %d history entries.\n", n)
	}
	return nil
}
