package components

import (
	"github.com/charmbracelet/lipgloss"
)

// ConfirmDialog is a simple yes/no confirmation dialog.
type ConfirmDialog struct {
	title    string
	message  string
	selected bool // false = no, true = yes
}

// NewConfirmDialog creates a new confirmation dialog defaulting to "No".
func NewConfirmDialog(title, message string) *ConfirmDialog {
	return &ConfirmDialog{
		title:   title,
		message: message,
	}
}

// IsYesSelected returns whether "Yes" is selected.
func (c *ConfirmDialog) IsYesSelected() bool {
	return c.selected
}

// Reset selects "No" again.
func (c *ConfirmDialog) Reset() {
	c.selected = false
}

// Update handles a key press. done reports that the dialog was answered or
// dismissed; confirmed is true only when it was answered with yes.
func (c *ConfirmDialog) Update(key string) (done, confirmed bool) {
	switch key {
	case "left", "right", "tab", "h", "l":
		c.selected = !c.selected
	case "y", "Y":
		return true, true
	case "n", "N", "esc":
		return true, false
	case "enter":
		return true, c.selected
	}
	return false, false
}

// View renders the confirmation dialog.
func (c *ConfirmDialog) View() string {
	base := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Padding(0, 2)
	active := base.
		Background(lipgloss.Color("220")).
		Foreground(lipgloss.Color("0")).
		Bold(true)

	yesStyle, noStyle := base, active
	if c.selected {
		yesStyle, noStyle = active, base
	}

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		"[ ",
		yesStyle.Render("Yes"),
		" ] [ ",
		noStyle.Render("No"),
		" ]",
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(1, 2).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Center,
				lipgloss.NewStyle().Bold(true).Render(c.title),
				"",
				c.message,
				"",
				buttons,
			),
		)
}

// CenteredView renders the dialog centered on the screen.
func (c *ConfirmDialog) CenteredView(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, c.View())
}
