package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/jsontree/pkg/pipeline"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// =============================================================================
// Palette
// =============================================================================

// Node kinds reuse the hues of the rendered light theme so a listing and an
// image of the same tree read alike.
var (
	colorObject    = lipgloss.Color("75")  // blue
	colorArray     = lipgloss.Color("141") // lavender
	colorPrimitive = lipgloss.Color("255") // white
	colorOK        = lipgloss.Color("35")
	colorFail      = lipgloss.Color("167")
	colorAccent    = lipgloss.Color("36")
	colorMuted     = lipgloss.Color("245")
	colorFaint     = lipgloss.Color("240")
	colorWarn      = lipgloss.Color("220")
)

var (
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleLink  = lipgloss.NewStyle().Foreground(colorObject).Underline(true)
	StyleDim   = lipgloss.NewStyle().Foreground(colorFaint)

	styleOK      = lipgloss.NewStyle().Foreground(colorOK)
	styleFail    = lipgloss.NewStyle().Foreground(colorFail)
	styleMuted   = lipgloss.NewStyle().Foreground(colorMuted)
	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleField   = lipgloss.NewStyle().Foreground(colorMuted).Width(10)
	styleValue   = lipgloss.NewStyle().Foreground(colorPrimitive)

	kindStyles = map[tree.Kind]lipgloss.Style{
		tree.KindObject:    lipgloss.NewStyle().Foreground(colorObject),
		tree.KindArray:     lipgloss.NewStyle().Foreground(colorArray),
		tree.KindPrimitive: lipgloss.NewStyle().Foreground(colorPrimitive),
	}
)

// kindStyle returns the style labels of kind k are drawn with.
func kindStyle(k tree.Kind) lipgloss.Style {
	if s, ok := kindStyles[k]; ok {
		return s
	}
	return styleValue
}

// =============================================================================
// Reports
// =============================================================================

// report writes the human-readable result of a command. Commands hand it
// cmd.OutOrStdout(), except where stdout carries a rendered document.
type report struct {
	w io.Writer
}

func newReport(w io.Writer) report { return report{w: w} }

func (r report) line(icon lipgloss.Style, mark, format string, args ...any) {
	fmt.Fprintf(r.w, "%s %s\n", icon.Render(mark), fmt.Sprintf(format, args...))
}

func (r report) success(format string, args ...any) { r.line(styleOK, "✓", format, args...) }
func (r report) fail(format string, args ...any)    { r.line(styleFail, "✗", format, args...) }
func (r report) info(format string, args ...any)    { r.line(styleMuted, "›", format, args...) }

// detail writes an indented, muted line.
func (r report) detail(format string, args ...any) {
	fmt.Fprintln(r.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file writes the path of a file the command produced.
func (r report) file(path string) {
	fmt.Fprintln(r.w, "  "+StyleDim.Render("→")+" "+styleValue.Render(path))
}

// field writes one aligned "name value" pair.
func (r report) field(name, value string) {
	fmt.Fprintln(r.w, styleField.Render(name)+" "+styleValue.Render(value))
}

// stats writes the size of a generated tree and whether its layout came
// from the cache, e.g. "  12 nodes · 11 edges · layout 1.2ms · cached".
func (r report) stats(s pipeline.Stats, cached bool) {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d nodes", s.NodeCount)),
		StyleDim.Render(fmt.Sprintf("%d edges", s.EdgeCount)),
		StyleDim.Render(fmt.Sprintf("layout %s", s.LayoutTime.Round(time.Microsecond))),
		styleMuted.Render("fresh"),
	}
	if cached {
		parts[3] = styleOK.Render("cached")
	}
	fmt.Fprintln(r.w, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// hint suggests a follow-up action.
func (r report) hint(what, how string) {
	fmt.Fprintln(r.w, StyleDim.Render(what+":")+" "+lipgloss.NewStyle().Foreground(colorWarn).Render(how))
}
