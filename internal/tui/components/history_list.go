package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sqlgram/sqlgram/internal/history"
)

// maxPreview is how much of a query a history row shows.
const maxPreview = 50

// HistoryList renders the query history as a scrollable, selectable list.
type HistoryList struct {
	Items        []history.Entry
	Selected     int
	scrollOffset int
	viewportSize int // Number of entries visible at once
	width        int
}

// NewHistoryList creates an empty history list.
func NewHistoryList() *HistoryList {
	return &HistoryList{
		Selected:     -1,
		viewportSize: 5,
	}
}

// SetItems replaces the entries, newest first.
func (hl *HistoryList) SetItems(items []history.Entry) {
	hl.Items = items
	hl.scrollOffset = 0
	hl.Selected = -1
	if len(items) > 0 {
		hl.Selected = 0
	}
}

// SetSize sets the available width and height in lines. Each entry takes
// two lines.
func (hl *HistoryList) SetSize(width, lines int) {
	hl.width = width
	hl.viewportSize = max(1, lines/2)
	hl.adjustScroll()
}

// MoveUp moves selection up.
func (hl *HistoryList) MoveUp() bool {
	if hl.Selected > 0 {
		hl.Selected--
		hl.adjustScroll()
		return true
	}
	return false
}

// MoveDown moves selection down.
func (hl *HistoryList) MoveDown() bool {
	if hl.Selected < len(hl.Items)-1 {
		hl.Selected++
		hl.adjustScroll()
		return true
	}
	return false
}

// SelectedEntry returns the highlighted entry.
func (hl *HistoryList) SelectedEntry() (history.Entry, bool) {
	if hl.Selected >= 0 && hl.Selected < len(hl.Items) {
		return hl.Items[hl.Selected], true
	}
	return history.Entry{}, false
}

func (hl *HistoryList) adjustScroll() {
	if hl.Selected < hl.scrollOffset {
		hl.scrollOffset = hl.Selected
	}
	if hl.Selected >= hl.scrollOffset+hl.viewportSize {
		hl.scrollOffset = hl.Selected - hl.viewportSize + 1
	}
	maxOffset := max(0, len(hl.Items)-hl.viewportSize)
	hl.scrollOffset = max(0, min(hl.scrollOffset, maxOffset))
}

// View renders the visible entries.
func (hl *HistoryList) View() string {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B6B6B"))
	if len(hl.Items) == 0 {
		return muted.Render("No query history yet")
	}

	okBadge := lipgloss.NewStyle().Foreground(lipgloss.Color("#0D0D0D")).Background(lipgloss.Color("#10B981")).Padding(0, 1)
	errBadge := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#DC2626")).Padding(0, 1)
	selected := lipgloss.NewStyle().Foreground(lipgloss.Color("#F1C40F")).Bold(true)

	end := min(len(hl.Items), hl.scrollOffset+hl.viewportSize)
	var b strings.Builder
	for i := hl.scrollOffset; i < end; i++ {
		e := hl.Items[i]
		badge := okBadge.Render("Success")
		if !e.Success {
			badge = errBadge.Render("Error")
		}

		cursor := "  "
		query := Preview(e.Query)
		if i == hl.Selected {
			cursor = selected.Render("> ")
			query = selected.Render(query)
		}
		_, _ = fmt.Fprintf(&b, "%s%s %s\n", cursor, badge, query)
		_, _ = fmt.Fprintf(&b, "    %s\n", muted.Render(formatTimestamp(e.Timestamp)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Preview flattens a query onto one line and shortens it for display.
func Preview(query string) string {
	flat := strings.Join(strings.Fields(query), " ")
	if r := []rune(flat); len(r) > maxPreview {
		return string(r[:maxPreview]) + "..."
	}
	return flat
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
