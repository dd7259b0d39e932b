package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ANSI palette indexes
const (
	colorBlack        = lipgloss.Color("0")
	colorCyan         = lipgloss.Color("6")
	colorBrightRed    = lipgloss.Color("9")
	colorBrightGreen  = lipgloss.Color("10")
	colorBrightYellow = lipgloss.Color("11")
)

// Styles holds the visual styles used by the text renderer.
type Styles struct {
	Heading lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
	Body    lipgloss.Style
}

// NewStyles binds the styles to a lipgloss renderer for w. The color profile
// is forced rather than detected: ANSI when colorize is set, plain text otherwise.
func NewStyles(w io.Writer, colorize bool) Styles {
	r := lipgloss.NewRenderer(w)
	if colorize {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return Styles{
		Heading: r.NewStyle().
			Foreground(colorBlack).
			Background(colorBrightYellow).
			Bold(true),
		Success: r.NewStyle().
			Foreground(colorBlack).
			Background(colorBrightGreen).
			Bold(true),
		Failure: r.NewStyle().
			Foreground(colorBlack).
			Background(colorBrightRed).
			Bold(true),
		Body: r.NewStyle().
			Foreground(colorCyan).
			TabWidth(lipgloss.NoTabConversion),
	}
}
