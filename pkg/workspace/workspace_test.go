package workspace

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/tree"
)

func newGenerated(t *testing.T, opts Options) *Workspace {
	t.Helper()
	w := New(nil, opts)
	if err := w.Generate(context.Background(), w.Text()); err != nil {
		t.Fatal(err)
	}
	return w
}

func TestNewHoldsSample(t *testing.T) {
	w := New(nil, Options{})
	if w.Text() != SampleJSON {
		t.Error("new workspace should hold the sample document")
	}
	if w.Theme() != render.ThemeLight {
		t.Errorf("theme = %q, want light", w.Theme())
	}
	if st := w.State(); !st.Graph.IsEmpty() || st.Message != "" {
		t.Errorf("new workspace state = %+v", st)
	}
}

func TestGenerateSample(t *testing.T) {
	w := newGenerated(t, Options{})
	st := w.State()
	if st.Message != MsgGenerated {
		t.Errorf("message = %q", st.Message)
	}
	if len(st.Graph.Nodes) != 12 || len(st.Graph.Edges) != 11 {
		t.Errorf("graph has %d nodes and %d edges", len(st.Graph.Nodes), len(st.Graph.Edges))
	}
	if st.GenerationID == "" || st.Stats.NodeCount != 12 {
		t.Errorf("state = %+v", st)
	}
}

func TestGenerateInvalidKeepsGraph(t *testing.T) {
	w := newGenerated(t, Options{})
	before := w.State().Graph

	err := w.Generate(context.Background(), `{bad json`)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Fatalf("error = %v, want INVALID_INPUT", err)
	}
	st := w.State()
	if !strings.HasPrefix(st.Message, MsgInvalidJSON) || !strings.Contains(st.Message, "invalid character 'b'") {
		t.Errorf("message = %q", st.Message)
	}
	if st.Text != `{bad json` {
		t.Errorf("text = %q, want the rejected input", st.Text)
	}
	if len(st.Graph.Nodes) != len(before.Nodes) {
		t.Fatalf("graph replaced: %d nodes, want %d", len(st.Graph.Nodes), len(before.Nodes))
	}
	for i := range before.Nodes {
		if st.Graph.Nodes[i].ID != before.Nodes[i].ID || st.Graph.Nodes[i].Position != before.Nodes[i].Position {
			t.Errorf("node %d changed", i)
		}
	}
}

func TestGenerateTooLarge(t *testing.T) {
	w := newGenerated(t, Options{})
	err := w.Generate(context.Background(), strings.Repeat(" ", apperrors.MaxDocumentSize)+"1")
	if !apperrors.Is(err, apperrors.ErrCodeInputTooLarge) {
		t.Fatalf("error = %v, want INPUT_TOO_LARGE", err)
	}
	st := w.State()
	if strings.HasPrefix(st.Message, MsgInvalidJSON) || !strings.Contains(st.Message, "document too large") {
		t.Errorf("message = %q, want the size error without the invalid JSON prefix", st.Message)
	}
	if len(st.Graph.Nodes) != 12 {
		t.Errorf("graph replaced by a rejected document")
	}
}

func TestNewRunnerUsesLogger(t *testing.T) {
	logger := log.New(io.Discard)
	w := New(nil, Options{Logger: logger})
	if w.runner.Logger != logger {
		t.Error("default runner does not log through Options.Logger")
	}
	if New(nil, Options{}).runner.Logger == log.Default() {
		t.Error("default runner logs to the process-wide logger")
	}
}

func TestGenerateReplacesWholesale(t *testing.T) {
	w := newGenerated(t, Options{})
	if err := w.Generate(context.Background(), `[true, false]`); err != nil {
		t.Fatal(err)
	}
	g := w.State().Graph
	if len(g.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(g.Nodes))
	}
	if g.Nodes[0].ID != "n1" || g.Nodes[0].Kind != tree.KindArray {
		t.Errorf("root = %+v", g.Nodes[0])
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		query   string
		code    apperrors.Code
		message string
	}{
		{"", apperrors.ErrCodeEmptyQuery, MsgEnterQuery},
		{"   ", apperrors.ErrCodeEmptyQuery, MsgEnterQuery},
		{"$.user.email", apperrors.ErrCodeNoMatch, MsgNoMatch},
		{"user.name", apperrors.ErrCodeNoMatch, MsgNoMatch},
		{"$.items[0].name", "", MsgMatchFound + "$.items[0].name"},
		{"  $.user  ", "", MsgMatchFound + "$.user"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := newGenerated(t, Options{})
			before := w.State().Graph

			res, err := w.Search(tt.query)
			if w.Message() != tt.message {
				t.Errorf("message = %q, want %q", w.Message(), tt.message)
			}
			after := w.State().Graph
			if tt.code != "" {
				if !apperrors.Is(err, tt.code) {
					t.Errorf("error = %v, want %s", err, tt.code)
				}
				for i, n := range after.Nodes {
					if n.State != tree.StateNormal || n.Position != before.Nodes[i].Position {
						t.Errorf("miss changed node %s", n.ID)
					}
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			for i, n := range after.Nodes {
				want := tree.StateDimmed
				if n.ID == res.Node.ID {
					want = tree.StateHighlighted
				}
				if n.State != want {
					t.Errorf("node %s state = %q, want %q", n.ID, n.State, want)
				}
				if n.Position != before.Nodes[i].Position {
					t.Errorf("search moved node %s", n.ID)
				}
			}
		})
	}
}

func TestSearchEmptyWorkspace(t *testing.T) {
	w := New(nil, Options{})
	w.Clear()
	if _, err := w.Search("$"); !apperrors.Is(err, apperrors.ErrCodeNoMatch) {
		t.Errorf("error = %v, want NO_MATCH", err)
	}
	if w.Message() != MsgNoMatch {
		t.Errorf("message = %q", w.Message())
	}
}

func TestClear(t *testing.T) {
	w := newGenerated(t, Options{})
	w.Clear()
	st := w.State()
	if st.Text != "" || !st.Graph.IsEmpty() || st.Message != MsgCleared || st.GenerationID != "" {
		t.Errorf("state after clear = %+v", st)
	}
}

func TestCopyPath(t *testing.T) {
	var copied []string
	ok := ClipboardFunc(func(_ context.Context, s string) error {
		copied = append(copied, s)
		return nil
	})
	w := newGenerated(t, Options{Clipboard: ok})

	p, err := w.CopyPath(context.Background(), "n4")
	if err != nil {
		t.Fatal(err)
	}
	if p != "$.user.name" || w.Message() != MsgCopied+"$.user.name" {
		t.Errorf("path = %q, message = %q", p, w.Message())
	}
	if len(copied) != 1 || copied[0] != "$.user.name" {
		t.Errorf("clipboard got %v", copied)
	}

	if _, err := w.CopyPath(context.Background(), "n99"); !apperrors.Is(err, apperrors.ErrCodeNotFound) {
		t.Errorf("unknown id: error = %v", err)
	}
	if w.Message() != MsgCopyFailed {
		t.Errorf("message = %q", w.Message())
	}
}

func TestCopyPathClipboardFailure(t *testing.T) {
	failing := ClipboardFunc(func(context.Context, string) error { return errors.New("no terminal") })
	w := newGenerated(t, Options{Clipboard: failing})
	_, err := w.CopyPath(context.Background(), "n1")
	if !apperrors.Is(err, apperrors.ErrCodeClipboard) {
		t.Errorf("error = %v, want CLIPBOARD_FAILED", err)
	}
	if w.Message() != MsgCopyFailed {
		t.Errorf("message = %q", w.Message())
	}
	if w.State().Graph.IsEmpty() {
		t.Error("copy failure must not touch the graph")
	}
}

func TestCopyPathWithoutClipboard(t *testing.T) {
	w := newGenerated(t, Options{})
	p, err := w.CopyPath(context.Background(), "n1")
	if err != nil || p != "$" {
		t.Errorf("CopyPath = %q, %v", p, err)
	}
}

func TestExport(t *testing.T) {
	w := newGenerated(t, Options{})
	res := <-w.Export(context.Background(), render.FormatPNG)
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if !bytes.HasPrefix(res.Data, []byte("\x89PNG")) {
		t.Errorf("export is not a PNG: %.16q", res.Data)
	}
	if res.Filename != "json-tree.png" || res.Message != MsgDownloaded {
		t.Errorf("result = %q %q", res.Filename, res.Message)
	}
	if w.Message() != MsgDownloaded {
		t.Errorf("message = %q", w.Message())
	}
}

func TestExportDeliversOnce(t *testing.T) {
	w := newGenerated(t, Options{})
	ch := w.Export(context.Background(), render.FormatSVG)
	if _, ok := <-ch; !ok {
		t.Fatal("no result")
	}
	if _, ok := <-ch; ok {
		t.Error("channel delivered a second result")
	}
}

func TestExportNothing(t *testing.T) {
	w := New(nil, Options{})
	w.Clear()
	res := <-w.Export(context.Background(), render.FormatPNG)
	if !apperrors.Is(res.Err, apperrors.ErrCodeNothingToExport) || res.Message != MsgNothingExport {
		t.Errorf("result = %+v", res)
	}
	if w.Message() != MsgNothingExport {
		t.Errorf("message = %q", w.Message())
	}
}

func TestExportFailure(t *testing.T) {
	w := newGenerated(t, Options{})
	res := <-w.Export(context.Background(), render.Format("gif"))
	if !apperrors.Is(res.Err, apperrors.ErrCodeExportFailed) {
		t.Errorf("error = %v, want EXPORT_FAILED", res.Err)
	}
	if !strings.HasPrefix(res.Message, MsgExportFailed) || w.Message() != res.Message {
		t.Errorf("message = %q / %q", res.Message, w.Message())
	}
}

func TestExportToSave(t *testing.T) {
	diskFull := errors.New("no space left on device")
	tests := []struct {
		name    string
		saveErr error
		wantMsg string
	}{
		{"saved", nil, MsgDownloaded},
		{"save fails", diskFull, MsgExportFailed + diskFull.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newGenerated(t, Options{})
			var saved string
			res := <-w.ExportTo(context.Background(), render.FormatSVG, func(name string, data []byte) error {
				saved = name
				return tt.saveErr
			})
			if saved != "json-tree.svg" {
				t.Errorf("saved as %q", saved)
			}
			if res.Message != tt.wantMsg || w.Message() != tt.wantMsg {
				t.Errorf("message = %q / %q, want %q", res.Message, w.Message(), tt.wantMsg)
			}
			if gotErr := res.Err != nil; gotErr != (tt.saveErr != nil) {
				t.Errorf("err = %v", res.Err)
			}
			if tt.saveErr != nil && !errors.Is(res.Err, diskFull) {
				t.Errorf("err = %v, want the save error wrapped", res.Err)
			}
		})
	}
}

func TestConcurrentExports(t *testing.T) {
	w := newGenerated(t, Options{})
	ctx := context.Background()
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if res := <-w.Export(ctx, render.FormatSVG); res.Err != nil {
				t.Error(res.Err)
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = w.Search("$.items")
			w.ToggleTheme()
		}()
	}
	wg.Wait()
}

func TestTheme(t *testing.T) {
	w := newGenerated(t, Options{Theme: render.ThemeDark})
	before := w.State()
	if before.Theme != render.ThemeDark {
		t.Fatalf("theme = %q", before.Theme)
	}
	if got := w.ToggleTheme(); got != render.ThemeLight {
		t.Errorf("ToggleTheme() = %q", got)
	}
	after := w.State()
	if after.Message != before.Message || after.Text != before.Text || len(after.Graph.Nodes) != len(before.Graph.Nodes) {
		t.Error("toggling the theme changed something else")
	}
	if err := w.SetTheme("DARK"); err != nil || w.Theme() != render.ThemeDark {
		t.Errorf("SetTheme(DARK) = %v, theme %q", err, w.Theme())
	}
	if err := w.SetTheme("sepia"); !apperrors.Is(err, apperrors.ErrCodeInvalidTheme) {
		t.Errorf("SetTheme(sepia) = %v", err)
	}
}

func TestSVGFollowsState(t *testing.T) {
	w := newGenerated(t, Options{})
	if _, err := w.Search("$.user"); err != nil {
		t.Fatal(err)
	}
	svg := string(w.SVG())
	if !strings.Contains(svg, `data-state="highlighted"`) || !strings.Contains(svg, `data-theme="light"`) {
		t.Errorf("svg does not reflect state:\n%.300s", svg)
	}
}
