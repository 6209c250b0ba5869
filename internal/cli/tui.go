package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sqlgram/sqlgram/internal/config"
	"github.com/sqlgram/sqlgram/internal/log"
	"github.com/sqlgram/sqlgram/internal/progress"
	"github.com/sqlgram/sqlgram/internal/telemetry"
	"github.com/sqlgram/sqlgram/internal/tui"
	"github.com/sqlgram/sqlgram/internal/tutorial"
	"github.com/sqlgram/sqlgram/pkg/version"
)

var playgroundExercise string

var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Open the interactive SQL playground",
	Long: `Open the interactive SQL playground.

With --exercise, every run is graded against that exercise instead.`,
	Args: cobra.NoArgs,
	RunE: runPlayground,
}

func init() {
	playgroundCmd.Flags().StringVar(&playgroundExercise, "exercise", "", "Exercise id to practice (e.g. select-1)")
}

// runPlayground launches the TUI; it also runs when no subcommand is given.
func runPlayground(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return trackCLIError("playground", fmt.Errorf("load config: %w", err))
	}

	paths := config.GetPaths(cfg)
	if err := log.Init(paths.Log, log.WithoutConsole()); err != nil {
		return trackCLIError("playground", fmt.Errorf("initialize logger: %w", err))
	}
	defer func() {
		_ = log.Close()
	}()

	sess, cleanup, err := openSession()
	if err != nil {
		return trackCLIError("playground", err)
	}
	defer cleanup()

	var opts tui.Options
	if playgroundExercise != "" {
		ex, err := sess.Catalog().FindExercise(playgroundExercise)
		if err != nil {
			return trackCLIError("playground", err)
		}
		opts.Exercise = ex
		if _, err := sess.StartTutorial(ex.TutorialID); err != nil {
			return trackCLIError("playground", err)
		}
	}

	log.Printf("sqlgram %s starting playground\n", version.Short())
	log.Printf("base directory: %s\n", cfg.BaseDir)
	log.Printf("database: %s\n", paths.Database)
	if telemetry.IsEnabled() {
		log.Printf("telemetry: on (anon id %s)\n", telemetryClient.GetTrackingID())
	} else {
		log.Println("telemetry: off")
	}

	telemetryClient.TrackAppStarted("tui", startedTutorials(sess.Catalog(), sess.Ledger().Tutorials()))
	return tui.Run(sess, opts)
}

func startedTutorials(catalog *tutorial.Catalog, all map[string]progress.TutorialProgress) int {
	n := 0
	for _, id := range catalog.IDs() {
		if tp, ok := all[id]; ok && tp.Started {
			n++
		}
	}
	return n
}
