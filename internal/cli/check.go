package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sqlgram/sqlgram/internal/grading"
)

var checkSolution bool

var checkCmd = &cobra.Command{
	Use:   "check <exercise-id> [query | -]",
	Short: "Grade a query against an exercise",
	Long: `Grade a query against an exercise, for example:

  sqlgram check select-1 "SELECT product_name, price FROM products"
  echo "SELECT * FROM users" | sqlgram check select-2 -

Passing or failing attempts are recorded in your progress.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkSolution, "solution", false, "Print the reference solution instead of grading")
}

func runCheck(cmd *cobra.Command, args []string) error {
	sess, cleanup, err := openSession()
	if err != nil {
		return trackCLIError("check", err)
	}
	defer cleanup()

	ex, err := sess.Catalog().FindExercise(args[0])
	if err != nil {
		return trackCLIError("check", err)
	}
	out := cmd.OutOrStdout()

	if checkSolution {
		if ex.Config.Solution == "" {
			return trackCLIError("check", fmt.Errorf("exercise %s has no solution", ex.ID))
		}
		telemetryClient.TrackSolutionRevealed(ex.ID)
		_, _ = fmt.Fprintln(out, ex.Config.Solution)
		return nil
	}

	query, err := queryArg(cmd, args[1:])
	if err != nil {
		return trackCLIError("check", err)
	}
	sub, err := sess.SubmitExercise(cmd.Context(), ex.TutorialID, ex.ID, query)
	if err != nil {
		return trackCLIError("check", fmt.Errorf("check %s: %w", ex.ID, err))
	}

	v := sub.Verdict
	_, _ = fmt.Fprintf(out, "%s %s\n", mutedStyle.Render(ex.ID), ex.Prompt)
	switch v.Kind {
	case grading.Passed:
		_, _ = fmt.Fprintln(out, successStyle.Render("✓ "+v.Message))
	default:
		_, _ = fmt.Fprintln(out, failureStyle.Render("✗ "+v.Message))
	}
	if len(v.Results.Columns) > 0 {
		_, _ = fmt.Fprintln(out)
		printResult(out, v.Results)
	}
	if sub.Recorded {
		_, _ = fmt.Fprintf(out, "\n%s\n", mutedStyle.Render(fmt.Sprintf("%s: %d%% complete", ex.TutorialID, sub.Progress.PercentComplete)))
	}
	return nil
}
