package tui

import (
	_ "embed"

	glam "github.com/charmbracelet/glamour"
)

//go:embed help.md
var helpMD string

// renderHelp renders the embedded help markdown for the current theme and
// width. Falls back to the raw markdown if glamour cannot render.
func renderHelp(theme string, wrap int) string {
	if wrap < 10 {
		wrap = 10
	}
	if theme == "" {
		theme = "dark"
	}
	r, err := glam.NewTermRenderer(
		glam.WithStylePath(theme),
		glam.WithWordWrap(wrap),
	)
	if err != nil {
		return helpMD
	}
	out, err := r.Render(helpMD)
	if err != nil {
		return helpMD
	}
	return out
}
