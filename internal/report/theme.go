package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styles used by every report. Colors are ANSI 256 codes.
type Theme struct {
	Title  lipgloss.Style
	Faint  lipgloss.Style
	Header lipgloss.Style
	Cell   lipgloss.Style
	Border lipgloss.Style

	Good lipgloss.Style
	Warn lipgloss.Style
	Bad  lipgloss.Style
}

func newTheme(r *lipgloss.Renderer) Theme {
	cell := r.NewStyle().Padding(0, 1)
	return Theme{
		Title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		Faint:  r.NewStyle().Foreground(lipgloss.Color("245")),
		Header: cell.Bold(true).Foreground(lipgloss.Color("252")),
		Cell:   cell,
		Border: r.NewStyle().Foreground(lipgloss.Color("240")),
		Good:   cell.Foreground(lipgloss.Color("114")),
		Warn:   cell.Foreground(lipgloss.Color("214")),
		Bad:    cell.Bold(true).Foreground(lipgloss.Color("203")),
	}
}

// newRenderer pins the color profile. lipgloss otherwise re-detects it from
// the environment, which yields uncolored output whenever w is not a TTY.
func newRenderer(w io.Writer, color bool) *lipgloss.Renderer {
	profile := termenv.Ascii
	if color {
		profile = termenv.ANSI256
	}
	r := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	r.SetColorProfile(profile)
	return r
}

// DetectColor reports whether w is a terminal that supports color.
func DetectColor(w io.Writer) bool {
	return termenv.NewOutput(w).Profile != termenv.Ascii
}
