package cli

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var tutorialsCmd = &cobra.Command{
	Use:     "tutorials",
	Aliases: []string{"ls"},
	Short:   "List the tutorials with your progress (alias: ls)",
	Args:    cobra.NoArgs,
	RunE:    runTutorials,
}

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show <tutorial>",
	Short: "Read a tutorial and its exercises",
	Long: `Render a tutorial lesson followed by its exercises.

Viewing a tutorial marks it as started.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the lesson markdown without rendering")
}

func runTutorials(cmd *cobra.Command, args []string) error {
	sess, cleanup, err := openSession()
	if err != nil {
		return trackCLIError("tutorials", err)
	}
	defer cleanup()

	summaries, _ := sess.Overview()
	out := cmd.OutOrStdout()

	_, _ = fmt.Fprintf(out, "TUTORIALS (%d)\n", len(summaries))
	_, _ = fmt.Fprintln(out, "──────────────────────────────────────────────────")
	for _, s := range summaries {
		bar := NewProgressBar(15)
		bar.Update(s.Progress.PercentComplete, "")
		_, _ = fmt.Fprintf(out, "  %-10s %s  %s\n", s.Tutorial.ID, bar.Render(), s.Tutorial.Title)
		if s.Tutorial.Description != "" {
			_, _ = fmt.Fprintf(out, "             %s\n", s.Tutorial.Description)
		}
	}
	_, _ = fmt.Fprintln(out, "\nUse 'sqlgram show <tutorial>' to start a lesson.")
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	sess, cleanup, err := openSession()
	if err != nil {
		return trackCLIError("show", err)
	}
	defer cleanup()

	t, err := sess.Catalog().Get(args[0])
	if err != nil {
		return trackCLIError("show", err)
	}
	if _, err := sess.StartTutorial(t.ID); err != nil {
		return trackCLIError("show", err)
	}
	telemetryClient.TrackTutorialViewed(t.ID)

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, renderLesson(t.Body, showRaw))

	tp := sess.Ledger().Tutorial(t.ID)
	_, _ = fmt.Fprintf(out, "EXERCISES (%d)\n", len(t.Exercises))
	for _, ex := range t.Exercises {
		mark := " "
		if p, ok := tp.Exercises[ex.ID]; ok && p.Completed {
			mark = "✓"
		}
		_, _ = fmt.Fprintf(out, "  [%s] %-12s %s\n", mark, ex.ID, ex.Prompt)
	}
	if len(t.Exercises) > 0 {
		_, _ = fmt.Fprintf(out, "\nCheck an answer with: sqlgram check %s \"<query>\"\n", t.Exercises[0].ID)
	}
	return nil
}

// renderLesson renders markdown for the terminal, falling back to the
// source text.
func renderLesson(body string, raw bool) string {
	if raw {
		return body
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return body
	}
	rendered, err := renderer.Render(body)
	if err != nil {
		return body
	}
	return rendered
}
