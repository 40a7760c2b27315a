package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"digital.vasic.polyglot/pkg/report"
)

// Color palette.
const (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
)

// styles renders transcript lines for one output stream. Colors
// are dropped when the stream is not a terminal.
type styles struct {
	title   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(colorPrimary),
		muted:   r.NewStyle().Foreground(colorMuted),
		success: r.NewStyle().Foreground(colorSuccess),
		failure: r.NewStyle().Bold(true).Foreground(colorError),
		warning: r.NewStyle().Foreground(colorWarning),
	}
}

// line styles one transcript line: the header and verdicts as a
// whole, other lines by their status glyph.
func (s styles) line(text string) string {
	switch text {
	case report.Header:
		return s.title.Render(text)
	case report.VerdictPass:
		return s.success.Render(text)
	case report.VerdictFail:
		return s.failure.Render(text)
	case report.VerdictInconclusive:
		return s.warning.Render(text)
	}

	glyphs := []struct {
		glyph string
		style lipgloss.Style
	}{
		{report.GlyphPass, s.success},
		{report.GlyphFail, s.failure},
		{report.GlyphInconclusive, s.warning},
		{report.GlyphSkipped, s.muted},
	}
	for _, g := range glyphs {
		if strings.Contains(text, g.glyph) {
			return strings.Replace(text, g.glyph, g.style.Render(g.glyph), 1)
		}
	}
	return text
}
