package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/sqlgram/sqlgram/internal/engine"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B6B6B"))
)

// printResult writes a result set as an aligned table.
func printResult(w io.Writer, r engine.QueryResult) {
	if len(r.Columns) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rule := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		rule[i] = strings.Repeat("-", max(len(c), 1))
	}
	_, _ = fmt.Fprintln(tw, tableLine(r.Columns))
	_, _ = fmt.Fprintln(tw, tableLine(rule))
	for _, row := range r.Strings() {
		_, _ = fmt.Fprintln(tw, tableLine(row))
	}
	_ = tw.Flush()
}

// tableLine joins cells with tabs. Tabs and newlines inside a cell would break
// the columns, so they become spaces.
func tableLine(cells []string) string {
	clean := make([]string, len(cells))
	for i, c := range cells {
		clean[i] = cellReplacer.Replace(c)
	}
	return strings.Join(clean, "\t")
}

var cellReplacer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ")
