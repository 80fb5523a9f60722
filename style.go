package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// styles colors terminal output. Everything renders as plain text when the
// writer is not a terminal.
type styles struct {
	title lipgloss.Style
	ok    lipgloss.Style
	bad   lipgloss.Style
	dim   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	if !isTerminal(w) {
		plain := lipgloss.NewStyle()
		return styles{title: plain, ok: plain, bad: plain, dim: plain}
	}
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		ok:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		bad:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		dim:   lipgloss.NewStyle().Faint(true),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (s styles) verdict(valid bool) string {
	if valid {
		return s.ok.Render("VALID")
	}
	return s.bad.Render("REJECTED")
}
