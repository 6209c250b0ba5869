// Package cli provides the command-line interface for SQLGram.
package cli

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/sqlgram/sqlgram/internal/engine"
	"github.com/sqlgram/sqlgram/internal/session"
	"github.com/sqlgram/sqlgram/internal/telemetry"
	"github.com/sqlgram/sqlgram/internal/tutorial"
	"github.com/sqlgram/sqlgram/pkg/version"
)

var telemetryClient telemetry.Client = telemetry.NewNoop()

var commandStartTime time.Time

var rootCmd = &cobra.Command{
	Use:   "sqlgram",
	Short: "Learn SQL in your terminal",
	Long: `Learn SQL in your terminal

Interactive SQL tutorials graded against a sample shop database
(users, products, orders, order_items) that lives entirely in memory.

Run without arguments to launch the playground.

Telemetry:
  Telemetry is enabled by default, always anonymous, and never records
  the queries you write or any personal information.

  Opt-out with:
  	SQLGRAM_TELEMETRY_TRACKING_ENABLED=false`,
	SilenceUsage: true,
	RunE:         runPlayground,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commandStartTime = time.Now()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cmd.Name() != "sqlgram" {
			durationMs := time.Since(commandStartTime).Milliseconds()
			hasFlags := cmd.Flags().NFlag() > 0
			telemetryClient.TrackCLICommandExecuted(cmd.Name(), hasFlags, durationMs)
		}

		if cmd.Flags().Changed("help") {
			telemetryClient.TrackCLIHelpViewed(cmd.Name(), os.Args[1:])
		}
	},
}

func init() {
	rootCmd.AddCommand(tutorialsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(playgroundCmd)
}

// Execute runs the CLI with fang enhancements.
func Execute(ctx context.Context, tc telemetry.Client) error {
	if tc == nil {
		tc = telemetry.New(nil)
	}
	telemetryClient = tc

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version.Short()),
		fang.WithCommit(version.Commit),
	)

	// The playground reports its own exit.
	if name := rootCmd.CalledAs(); name != "" && name != "sqlgram" && name != "playground" {
		durationMs := time.Since(commandStartTime).Milliseconds()
		telemetryClient.TrackAppExited("cli", durationMs, 1)
	}

	return err
}

// trackCLIError records err in telemetry and returns it unchanged.
func trackCLIError(cmdName string, err error) error {
	if err == nil {
		return nil
	}
	telemetryClient.TrackCLIError(cmdName, classifyError(err))
	return err
}

// classifyError determines the error type for telemetry.
func classifyError(err error) string {
	switch {
	case errors.Is(err, session.ErrEmptyQuery):
		return "empty_query"
	case errors.Is(err, tutorial.ErrNotFound):
		return "not_found_error"
	case errors.Is(err, engine.ErrUnavailable):
		return "engine_error"
	}

	errStr := err.Error()
	switch {
	case containsAny(errStr, "config", "configuration"):
		return "config_error"
	case containsAny(errStr, "database", "db"):
		return "database_error"
	case containsAny(errStr, "timeout", "interrupted"):
		return "timeout_error"
	case containsAny(errStr, "permission", "access denied"):
		return "permission_error"
	case containsAny(errStr, "not found", "does not exist"):
		return "not_found_error"
	case containsAny(errStr, "invalid", "parse", "format"):
		return "validation_error"
	default:
		return "unknown_error"
	}
}

// containsAny checks if s contains any of the substrings (case-insensitive).
func containsAny(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
