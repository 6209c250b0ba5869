package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// RenderMarkdown renders markdown content using Glamour for terminal display.
// It falls back to the source text if rendering fails.
func RenderMarkdown(content string, width int) string {
	if content == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(rendered, "\n")
}

// schemaMarkdown wraps the schema DDL in a SQL code fence.
func schemaMarkdown(schema string) string {
	return "```sql\n" + strings.TrimSpace(schema) + "\n```"
}
