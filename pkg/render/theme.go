package render

import (
	"strings"

	apperrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// Theme names a colour scheme. Its string value is the data-theme attribute
// of the browser page.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme parses "light" or "dark", case-insensitively. An empty string
// yields ThemeLight.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case "", ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidTheme, "invalid theme %q (want light or dark)", s)
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Palette holds the colours of a theme as CSS/Graphviz colour strings.
type Palette struct {
	Background string
	Grid       string
	Text       string
	Edge       string
	Object     string
	Array      string
	Primitive  string
	Highlight  string
}

// DimOpacity is the opacity of nodes dimmed by a search.
const DimOpacity = 0.45

var palettes = map[Theme]Palette{
	ThemeLight: {
		Background: "#f8fafc",
		Grid:       "#e6edf3",
		Text:       "#0f172a",
		Edge:       "#94a3b8",
		Object:     "#dbeafe",
		Array:      "#fef3c7",
		Primitive:  "#dcfce7",
		Highlight:  "#6366f1",
	},
	ThemeDark: {
		Background: "#0f172a",
		Grid:       "#1e293b",
		Text:       "#e2e8f0",
		Edge:       "#64748b",
		Object:     "#1e3a8a",
		Array:      "#78350f",
		Primitive:  "#14532d",
		Highlight:  "#818cf8",
	},
}

// PaletteFor returns the palette of t, falling back to the light palette.
func PaletteFor(t Theme) Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[ThemeLight]
}

// Fill returns the box colour for a node kind.
func (p Palette) Fill(k tree.Kind) string {
	switch k {
	case tree.KindObject:
		return p.Object
	case tree.KindArray:
		return p.Array
	}
	return p.Primitive
}
