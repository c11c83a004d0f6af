package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ansiStyles maps span styles to terminal colors. Tags without an entry
// render unstyled.
var ansiStyles = map[Style]lipgloss.Style{
	StyleKeyword:   lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	StyleNumber:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	StyleString:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	StyleSymbol:    lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	StyleFunction:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	StyleError:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	StyleRegexp:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	StyleDate:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	StyleName:      lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
	StyleClass:     lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
	StyleDim:       lipgloss.NewStyle().Faint(true),
	StyleSeparator: lipgloss.NewStyle().Faint(true).Italic(true),
	StyleLocation:  lipgloss.NewStyle().Underline(true),
}

// ANSI flattens a span tree to terminal escape sequences. Children inherit
// their parent's style unless they carry their own.
func ANSI(s Span) string {
	var b strings.Builder
	ansiInto(&b, s, StylePlain)
	return b.String()
}

func ansiInto(b *strings.Builder, s Span, inherited Style) {
	style := s.Style
	if style == StylePlain {
		style = inherited
	}
	if s.Text != "" {
		if ls, ok := ansiStyles[style]; ok {
			b.WriteString(ls.Render(s.Text))
		} else {
			b.WriteString(s.Text)
		}
	}
	for _, c := range s.Children {
		ansiInto(b, c, style)
	}
}
