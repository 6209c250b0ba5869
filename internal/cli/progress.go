package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// ProgressBar renders a completion bar for a percentage.
type ProgressBar struct {
	percent int
	label   string
	width   int
}

// NewProgressBar creates a progress bar of the given width.
func NewProgressBar(width int) *ProgressBar {
	if width <= 0 {
		width = 20
	}
	return &ProgressBar{width: width}
}

// Update sets the current percentage (clamped to 0..100) and label.
func (p *ProgressBar) Update(percent int, label string) {
	p.percent = min(max(percent, 0), 100)
	p.label = label
}

// Render returns the formatted progress bar.
func (p *ProgressBar) Render() string {
	filled := p.width * p.percent / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)

	color := lipgloss.Color("#F59E0B")
	if p.percent == 100 {
		color = lipgloss.Color("#10B981")
	}
	barStyle := lipgloss.NewStyle().Foreground(color)
	countStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B6B6B"))
	labelStyle := lipgloss.NewStyle().Bold(true)

	out := barStyle.Render("["+bar+"]") + countStyle.Render(fmt.Sprintf(" %3d%%", p.percent))
	if p.label != "" {
		out += " " + labelStyle.Render(p.label)
	}
	return out
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show your progress through the tutorials",
	Args:  cobra.NoArgs,
	RunE:  runProgress,
}

func runProgress(cmd *cobra.Command, args []string) error {
	sess, cleanup, err := openSession()
	if err != nil {
		return trackCLIError("progress", err)
	}
	defer cleanup()

	summaries, overall := sess.Overview()
	telemetryClient.TrackProgressViewed(overall)

	out := cmd.OutOrStdout()
	bar := NewProgressBar(30)
	bar.Update(overall, "overall")
	_, _ = fmt.Fprintf(out, "%s\n\n", bar.Render())

	for _, s := range summaries {
		tp := s.Progress
		status := "not started"
		switch {
		case tp.Completed:
			status = "completed"
		case tp.Started:
			status = "in progress"
		}

		bar := NewProgressBar(20)
		bar.Update(tp.PercentComplete, s.Tutorial.Title)
		_, _ = fmt.Fprintf(out, "%s\n", bar.Render())
		_, _ = fmt.Fprintf(out, "      %s, %d/%d exercises passed",
			status, tp.CompletedExercises(), len(s.Tutorial.Exercises))
		if tp.LastVisited != nil {
			_, _ = fmt.Fprintf(out, ", last visited %s", *tp.LastVisited)
		}
		_, _ = fmt.Fprintln(out)
	}
	return nil
}
