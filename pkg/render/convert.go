package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/matzehuels/jsontree/pkg/tree"
)

// pdfConverter is the librsvg tool PDF export pipes the SVG drawing through.
var pdfConverter = "rsvg-convert"

// ErrNoPDFConverter is returned by [PDF] when rsvg-convert is not installed
// (brew install librsvg, apt install librsvg2-bin).
var ErrNoPDFConverter = errors.New("pdf export needs rsvg-convert from librsvg")

// PDF draws g as SVG and converts it to a single-page PDF of the same size.
func PDF(ctx context.Context, g *tree.Graph, opts Options) ([]byte, error) {
	bin, err := exec.LookPath(pdfConverter)
	if err != nil {
		return nil, ErrNoPDFConverter
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "--format", "pdf")
	cmd.Stdin = bytes.NewReader(SVG(g, opts))
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", pdfConverter, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", pdfConverter, err)
	}
	return stdout.Bytes(), nil
}
