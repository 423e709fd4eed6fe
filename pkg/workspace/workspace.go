// Package workspace holds the state behind an interactive session: the JSON
// text being edited, the current tree, the status line and the theme.
//
// Every user action of the browser page and the terminal browser is a
// method here, so both front ends show the same status messages. Actions
// never fail silently: each one sets [Workspace.Message], and the ones that
// can fail also return an error carrying a code from pkg/errors.
//
// A Workspace is safe for concurrent use. Generating replaces the tree
// wholesale; nothing is ever merged into an existing tree.
package workspace

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/jsonvalue"
	"github.com/matzehuels/jsontree/pkg/pipeline"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/search"
	"github.com/matzehuels/jsontree/pkg/tree"
)

// Status messages.
const (
	MsgGenerated     = "Tree generated"
	MsgInvalidJSON   = "Invalid JSON: "
	MsgEnterQuery    = "Enter JSON path to search (e.g. $.user.address.city)"
	MsgNoMatch       = "No match found"
	MsgMatchFound    = "Match found: "
	MsgCleared       = "Cleared"
	MsgCopied        = "Copied path: "
	MsgCopyFailed    = "Copy failed"
	MsgNothingExport = "Nothing to export"
	MsgDownloaded    = "Image downloaded"
	MsgExportFailed  = "Export failed: "
)

// ExportBaseName is the file name of exported images, without extension.
const ExportBaseName = "json-tree"

// SampleJSON is the document a new workspace starts with.
const SampleJSON = `{
  "user": {
    "id": 1,
    "name": "John Doe",
    "address": {
      "city": "New York",
      "country": "USA"
    }
  },
  "items": [
    {
      "name": "item1"
    },
    {
      "name": "item2"
    }
  ]
}`

// Clipboard receives copied node paths.
type Clipboard interface {
	Copy(ctx context.Context, text string) error
}

// ClipboardFunc adapts a function to [Clipboard].
type ClipboardFunc func(ctx context.Context, text string) error

// Copy implements [Clipboard].
func (f ClipboardFunc) Copy(ctx context.Context, text string) error { return f(ctx, text) }

// Options configures a Workspace.
type Options struct {
	// Pipeline are the generation options.
	Pipeline pipeline.Options
	// Theme is the initial theme; empty means light.
	Theme render.Theme
	// Clipboard receives copied paths. Nil means the front end copies the
	// path it gets back from [Workspace.CopyPath] itself.
	Clipboard Clipboard
	// Logger receives action logs; nil discards.
	Logger *log.Logger
}

// Workspace is the state of one interactive session.
type Workspace struct {
	runner    *pipeline.Runner
	opts      pipeline.Options
	clipboard Clipboard
	logger    *log.Logger

	mu      sync.Mutex
	text    string
	result  *pipeline.Result // nil when there is no tree
	message string
	theme   render.Theme
}

// New returns a workspace holding [SampleJSON] and no tree yet. Call
// [Workspace.Generate] to build the first tree.
func New(runner *pipeline.Runner, opts Options) *Workspace {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	theme, err := render.ParseTheme(string(opts.Theme))
	if err != nil {
		theme = render.ThemeLight
	}
	return &Workspace{
		runner:    runner,
		opts:      opts.Pipeline,
		clipboard: opts.Clipboard,
		logger:    opts.Logger,
		text:      SampleJSON,
		theme:     theme,
	}
}

// Generate parses text and replaces the tree. On failure the previous tree
// is kept and the message carries the parser diagnostic. The text is kept
// either way, as it is what the user typed.
func (w *Workspace) Generate(ctx context.Context, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.text = text
	res, err := w.runner.Generate(ctx, []byte(text), w.opts)
	if err != nil {
		w.message = failureMessage(err)
		w.logger.Debug("generate failed", "err", err)
		return err
	}
	w.result = res
	w.message = MsgGenerated
	return nil
}

// failureMessage returns the parser diagnostic for invalid input and the
// user message for anything else, such as an oversized document.
func failureMessage(err error) string {
	var se *jsonvalue.SyntaxError
	if errors.As(err, &se) {
		return MsgInvalidJSON + se.Error()
	}
	return apperrors.UserMessage(err)
}

// Search highlights the node at the given path. A blank query or a miss
// leaves the tree unchanged.
func (w *Workspace) Search(query string) (*search.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	res, err := search.Run(w.graph(), query, w.opts.Layout)
	switch {
	case apperrors.Is(err, apperrors.ErrCodeEmptyQuery):
		w.message = MsgEnterQuery
	case err != nil:
		w.message = MsgNoMatch
	default:
		w.message = MsgMatchFound + res.Node.Path
	}
	return res, err
}

// Clear empties the text and the tree.
func (w *Workspace) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.text = ""
	w.result = nil
	w.message = MsgCleared
}

// CopyPath copies the path of the node with the given id to the clipboard
// and returns it. Failures only change the message.
func (w *Workspace) CopyPath(ctx context.Context, id string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, ok := w.graph().ByID(id)
	if !ok {
		w.message = MsgCopyFailed
		return "", apperrors.New(apperrors.ErrCodeNotFound, "no node %q", id)
	}
	if w.clipboard != nil {
		if err := w.clipboard.Copy(ctx, n.Path); err != nil {
			w.message = MsgCopyFailed
			w.logger.Debug("copy failed", "path", n.Path, "err", err)
			return "", apperrors.Wrap(apperrors.ErrCodeClipboard, err, "copy %s", n.Path)
		}
	}
	w.message = MsgCopied + n.Path
	return n.Path, nil
}

// ExportResult is the outcome of an [Workspace.Export].
type ExportResult struct {
	Format   render.Format
	Filename string
	Data     []byte
	Message  string
	Err      error
}

// SaveFunc stores an exported image under filename.
type SaveFunc func(filename string, data []byte) error

// Export renders the current tree in the background. The returned channel
// delivers exactly one result and is then closed. Exports run
// independently of each other; the message reflects whichever finished
// last.
func (w *Workspace) Export(ctx context.Context, format render.Format) <-chan ExportResult {
	return w.ExportTo(ctx, format, nil)
}

// ExportTo is [Workspace.Export] followed by save, when save is not nil. A
// failed save is reported as a failed export, so the status message is set
// once, after the image is actually stored.
func (w *Workspace) ExportTo(ctx context.Context, format render.Format, save SaveFunc) <-chan ExportResult {
	ch := make(chan ExportResult, 1)

	w.mu.Lock()
	if w.result == nil || w.result.Graph.IsEmpty() {
		w.message = MsgNothingExport
		w.mu.Unlock()
		ch <- ExportResult{
			Format:  format,
			Message: MsgNothingExport,
			Err:     apperrors.New(apperrors.ErrCodeNothingToExport, "nothing to export"),
		}
		close(ch)
		return ch
	}
	snap := w.result.Snapshot()
	opts := pipeline.RenderOptions{Format: format, Theme: w.theme}
	w.mu.Unlock()

	go func() {
		defer close(ch)
		out := ExportResult{Format: format, Filename: ExportBaseName + format.Ext()}
		data, err := w.runner.Render(ctx, snap, opts)
		if err == nil && save != nil {
			err = save(out.Filename, data)
		}
		if err != nil {
			out.Err = apperrors.Wrap(apperrors.ErrCodeExportFailed, err, "export")
			out.Message = MsgExportFailed + apperrors.UserMessage(err)
		} else {
			out.Data = data
			out.Message = MsgDownloaded
		}

		w.mu.Lock()
		w.message = out.Message
		w.mu.Unlock()
		ch <- out
	}()
	return ch
}

// ToggleTheme switches between light and dark and returns the new theme.
func (w *Workspace) ToggleTheme() render.Theme {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.theme = w.theme.Toggle()
	return w.theme
}

// SetTheme sets the theme by name.
func (w *Workspace) SetTheme(name string) error {
	t, err := render.ParseTheme(name)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.theme = t
	return nil
}

// Theme returns the current theme.
func (w *Workspace) Theme() render.Theme {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.theme
}

// Message returns the status line.
func (w *Workspace) Message() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.message
}

// Text returns the current JSON text.
func (w *Workspace) Text() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.text
}

// Options returns the generation options in effect, defaults applied.
func (w *Workspace) Options() pipeline.Options {
	return w.opts.WithDefaults()
}

// State is a consistent copy of the workspace.
type State struct {
	Text         string         `json:"text"`
	Message      string         `json:"message"`
	Theme        render.Theme   `json:"theme"`
	GenerationID string         `json:"generation_id,omitempty"`
	Stats        pipeline.Stats `json:"stats"`
	Graph        *tree.Graph    `json:"graph"`
}

// State returns a copy of the current state. The graph is a deep copy.
func (w *Workspace) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := State{
		Text:    w.text,
		Message: w.message,
		Theme:   w.theme,
		Graph:   w.graph().Clone(),
	}
	if w.result != nil {
		s.GenerationID = w.result.GenerationID
		s.Stats = w.result.Stats
	}
	return s
}

// SVG draws the current tree in the current theme.
func (w *Workspace) SVG() []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	return render.SVG(w.graph(), render.Options{Layout: w.opts.Layout, Theme: w.theme})
}

// graph returns the current tree or an empty one. Callers hold mu.
func (w *Workspace) graph() *tree.Graph {
	if w.result == nil {
		return tree.Empty()
	}
	return w.result.Graph
}
