package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// render applies a style only when stdout is a terminal, so piped output
// stays plain.
func render(s lipgloss.Style, text string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return text
	}
	return s.Render(text)
}
