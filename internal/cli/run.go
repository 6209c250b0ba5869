package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <query | ->",
	Short: "Run SQL against the sample database",
	Long: `Run SQL against a fresh copy of the sample database.

Several statements may be separated with semicolons; the first one
returning rows is displayed. Use "-" to read the script from stdin.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	sess, cleanup, err := openSession()
	if err != nil {
		return trackCLIError("run", err)
	}
	defer cleanup()

	query, err := queryArg(cmd, args)
	if err != nil {
		return trackCLIError("run", err)
	}
	res, err := sess.RunQuery(cmd.Context(), query)
	if err != nil {
		return trackCLIError("run", err)
	}

	out := cmd.OutOrStdout()
	if !res.Success {
		_, _ = fmt.Fprintln(out, failureStyle.Render(res.Message))
		return nil
	}
	printResult(out, res.Result)
	if len(res.Result.Columns) > 0 {
		_, _ = fmt.Fprintln(out)
	}
	_, _ = fmt.Fprintf(out, "%s %s\n", successStyle.Render(res.Message), mutedStyle.Render("("+res.ElapsedMillis()+" ms)"))
	if res.Info.Warning != "" {
		_, _ = fmt.Fprintln(out, mutedStyle.Render(res.Info.Warning))
	}
	return nil
}
