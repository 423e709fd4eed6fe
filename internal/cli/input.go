package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/render"
)

// stdinName is how documents read from standard input are named in output.
const stdinName = "stdin"

// readInput reads the JSON document at path, or standard input when path
// is empty or "-". Reading stops one byte past the size limit so the
// pipeline can report the document as too large.
func readInput(cmd *cobra.Command, path string) ([]byte, string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), apperrors.MaxDocumentSize+1))
		if err != nil {
			return nil, stdinName, fmt.Errorf("read stdin: %w", err)
		}
		return data, stdinName, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, path, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, apperrors.MaxDocumentSize+1))
	if err != nil {
		return nil, path, fmt.Errorf("read %s: %w", path, err)
	}
	return data, path, nil
}

// resolveFormat picks the output format: the explicit flag, else the output
// file's extension, else SVG.
func resolveFormat(flag, output string) (render.Format, error) {
	if flag != "" {
		return render.ParseFormat(flag)
	}
	if ext := strings.TrimPrefix(filepath.Ext(output), "."); ext != "" {
		return render.ParseFormat(ext)
	}
	return render.FormatSVG, nil
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
