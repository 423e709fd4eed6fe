package render

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/jsonvalue"
	"github.com/matzehuels/jsontree/pkg/layout"
	"github.com/matzehuels/jsontree/pkg/layout/layered"
	"github.com/matzehuels/jsontree/pkg/search"
	"github.com/matzehuels/jsontree/pkg/tree"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func laidOut(t *testing.T, doc string) *tree.Graph {
	t.Helper()
	v, err := jsonvalue.ParseString(doc)
	if err != nil {
		t.Fatal(err)
	}
	g := tree.Build(v)
	if err := layered.New().Layout(context.Background(), g, layout.DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestToDOT(t *testing.T) {
	g := laidOut(t, `{"items":[{"name":"item1"}]}`)
	if _, err := search.Run(g, "$.items", layout.Options{}); err != nil {
		t.Fatal(err)
	}

	dot := ToDOT(g, Options{Theme: ThemeDark}, false)
	for _, want := range []string{
		"digraph G {",
		"rankdir=LR;",
		`bgcolor="#0f172a";`,
		`"n1" -> "n2";`,
		`label="name: \"item1\""`,
		`tooltip="$.items[0].name"`,
		"penwidth=3",
		`fillcolor="#1e3a8a73"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "pos=") {
		t.Error("unpinned DOT has positions")
	}

	pinned := ToDOT(g, Options{}, true)
	root := g.Root()
	if !strings.Contains(pinned, `pos="0,`) || root.Position.X != -70 {
		t.Errorf("pinned DOT should centre the root at x=0:\n%s", pinned)
	}
}

func TestSVG(t *testing.T) {
	g := laidOut(t, `{"a<b":"x&y","list":[1,2]}`)
	search.Highlight(g, "n4")

	svg := string(SVG(g, Options{}))
	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`data-theme="light"`,
		`data-path="$.a&lt;b"`,
		`a&lt;b: &#34;x&amp;y&#34;`,
		`data-state="highlighted"`,
		`opacity="0.45"`,
		`class="edge"`,
		`id="en1-n2"`,
		`class="node node-array"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if got := strings.Count(svg, `class="edge"`); got != len(g.Edges) {
		t.Errorf("edges drawn = %d, want %d", got, len(g.Edges))
	}
	if got := strings.Count(svg, "<rect") - 2; got != g.Len() {
		t.Errorf("boxes drawn = %d, want %d", got, g.Len())
	}
}

func TestSVGEmpty(t *testing.T) {
	svg := string(SVG(tree.Empty(), Options{Theme: ThemeDark}))
	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Errorf("malformed empty SVG: %s", svg)
	}
}

func TestPNG(t *testing.T) {
	g := laidOut(t, `{"a":[1,2,{"b":null}]}`)
	png, err := PNG(context.Background(), g, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Errorf("output is not a PNG (%d bytes)", len(png))
	}
}

func TestPDF(t *testing.T) {
	g := laidOut(t, `{"a":[1,2]}`)
	opts := Options{Layout: layout.DefaultOptions()}

	t.Run("missing converter", func(t *testing.T) {
		old := pdfConverter
		pdfConverter = "jsontree-no-such-converter"
		defer func() { pdfConverter = old }()
		if _, err := PDF(context.Background(), g, opts); !errors.Is(err, ErrNoPDFConverter) {
			t.Errorf("PDF() error = %v, want ErrNoPDFConverter", err)
		}
	})

	t.Run("rsvg-convert", func(t *testing.T) {
		if _, err := exec.LookPath(pdfConverter); err != nil {
			t.Skip("rsvg-convert not installed")
		}
		data, err := PDF(context.Background(), g, opts)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF")) {
			t.Errorf("PDF() = %.8q, want a PDF header", data)
		}
	})
}

func TestRenderSVGAndPNG(t *testing.T) {
	g := laidOut(t, `{"a":1}`)
	dot := ToDOT(g, Options{}, false)

	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)) {
		t.Errorf("svg element not normalised:\n%s", svg)
	}

	png, err := RenderPNG(context.Background(), dot)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("RenderPNG output is not a PNG")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if out != want {
		t.Errorf("got  %s\nwant %s", out, want)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Error("svg without viewBox should be unchanged")
	}
}

func TestTheme(t *testing.T) {
	tests := []struct {
		in      string
		want    Theme
		wantErr bool
	}{
		{"", ThemeLight, false},
		{"Dark", ThemeDark, false},
		{"light", ThemeLight, false},
		{"blue", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTheme(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseTheme(%q) = %q, %v", tt.in, got, err)
		}
		if err != nil && !apperrors.Is(err, apperrors.ErrCodeInvalidTheme) {
			t.Errorf("ParseTheme(%q) code = %s", tt.in, apperrors.GetCode(err))
		}
	}
	if ThemeLight.Toggle() != ThemeDark || ThemeDark.Toggle() != ThemeLight {
		t.Error("Toggle does not alternate")
	}
	if PaletteFor("unknown") != PaletteFor(ThemeLight) {
		t.Error("unknown theme should fall back to light")
	}
}

func TestFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(strings.ToUpper(string(f)))
		if err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseFormat("gif"); !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormat(gif) = %v", err)
	}
	if FormatPNG.ContentType() != "image/png" || FormatDOT.Ext() != ".dot" {
		t.Error("format metadata wrong")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Errorf("got %q", got)
	}
	if labelLimit(140) != 17 {
		t.Errorf("labelLimit(140) = %d", labelLimit(140))
	}
}
