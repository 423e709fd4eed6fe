package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/tree"
	"github.com/matzehuels/jsontree/pkg/workspace"
)

// browseCommand creates the browse command, an interactive terminal view of
// the tree.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		flags     layoutFlags
		exportDir string
	)

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Browse the tree interactively in the terminal",
		Long: `Browse the tree interactively. Without a file the sample document is shown.

Keys: ↑/↓ move, ⏎ copy the node's path, / search, t theme, e export PNG,
r regenerate (clears the highlight), q quit. Copying uses the terminal
clipboard escape sequence (OSC 52).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			text := workspace.SampleJSON
			if len(args) == 1 {
				data, _, err := readInput(cmd, args[0])
				if err != nil {
					return err
				}
				text = string(data)
			}

			cfg, runner, err := c.setup(ctx, &flags)
			if err != nil {
				return err
			}
			defer runner.Close()

			ws := workspace.New(runner, workspace.Options{
				Pipeline:  c.pipelineOptions(cfg, flags.refresh),
				Theme:     render.Theme(cfg.UI.Theme),
				Clipboard: terminalClipboard(os.Stderr),
				Logger:    c.Logger,
			})
			if err := ws.Generate(ctx, text); err != nil {
				return err
			}

			_, err = tea.NewProgram(newBrowseModel(ctx, ws, exportDir), tea.WithContext(ctx)).Run()
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "directory PNG exports are written to")

	return cmd
}

// terminalClipboard copies through the OSC 52 escape sequence, which most
// terminals forward to the system clipboard.
func terminalClipboard(w io.Writer) workspace.Clipboard {
	out := termenv.NewOutput(w)
	return workspace.ClipboardFunc(func(_ context.Context, text string) error {
		out.Copy(text)
		return nil
	})
}

// Browser styles
var (
	browseSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	browseMatchStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorOK)
	browseDimStyle      = lipgloss.NewStyle().Foreground(colorFaint)
	browsePromptStyle   = lipgloss.NewStyle().Foreground(colorWarn)
)

// =============================================================================
// browseModel - Interactive tree browser
// =============================================================================

// exportDoneMsg carries a finished export back into the update loop.
type exportDoneMsg workspace.ExportResult

// browseModel is the bubbletea model of the tree browser. It renders from a
// snapshot of the workspace and takes a fresh one after every action.
type browseModel struct {
	ctx       context.Context
	ws        *workspace.Workspace
	exportDir string

	state     workspace.State
	cursor    int
	offset    int
	height    int
	searching bool
	query     string
}

func newBrowseModel(ctx context.Context, ws *workspace.Workspace, exportDir string) browseModel {
	return browseModel{
		ctx:       ctx,
		ws:        ws,
		exportDir: exportDir,
		state:     ws.State(),
		height:    15,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "enter", "c":
			if n := m.current(); n != nil {
				_, _ = m.ws.CopyPath(m.ctx, n.ID)
			}
		case "/":
			m.searching = true
			m.query = ""
		case "t":
			m.ws.ToggleTheme()
		case "r":
			_ = m.ws.Generate(m.ctx, m.state.Text)
		case "e":
			ch := m.ws.ExportTo(m.ctx, render.FormatPNG, m.saveExport)
			return m.refresh(), func() tea.Msg { return exportDoneMsg(<-ch) }
		}
		return m.refresh(), nil

	case exportDoneMsg:
		return m.refresh(), nil

	case tea.WindowSizeMsg:
		m.height = msg.Height - 7
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

// saveExport writes an exported image into the export directory.
func (m browseModel) saveExport(filename string, data []byte) error {
	return os.WriteFile(filepath.Join(m.exportDir, filename), data, 0o644)
}

// updateSearch handles keys while the search prompt is open.
func (m browseModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.searching = false
	case tea.KeyEnter:
		m.searching = false
		res, err := m.ws.Search(m.query)
		m = m.refresh()
		if err == nil {
			m.jumpTo(res.Node.ID)
		}
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.query += string(msg.Runes)
	}
	return m, nil
}

// refresh takes a new snapshot of the workspace and keeps the cursor in range.
func (m browseModel) refresh() browseModel {
	m.state = m.ws.State()
	if n := len(m.state.Graph.Nodes); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	m.move(0)
	return m
}

func (m *browseModel) move(delta int) {
	n := len(m.state.Graph.Nodes)
	m.cursor = min(max(m.cursor+delta, 0), max(n-1, 0))
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *browseModel) jumpTo(id string) {
	for i, n := range m.state.Graph.Nodes {
		if n.ID == id {
			m.move(i - m.cursor)
			return
		}
	}
}

func (m browseModel) current() *tree.Node {
	if m.cursor < len(m.state.Graph.Nodes) {
		return m.state.Graph.Nodes[m.cursor]
	}
	return nil
}

func (m browseModel) View() string {
	var b strings.Builder
	g := m.state.Graph

	b.WriteString(StyleTitle.Render("JSON Tree"))
	b.WriteString(browseDimStyle.Render(fmt.Sprintf("  %d nodes · %s", len(g.Nodes), m.state.Theme)))
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render("↑/↓ navigate  ⏎ copy path  / search  t theme  e export  r reset  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(g.Nodes))
	for i := m.offset; i < end; i++ {
		n := g.Nodes[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		label := strings.Repeat("  ", g.Depth(n.ID)) + n.Label
		switch {
		case n.State == tree.StateHighlighted:
			label = browseMatchStyle.Render(label)
		case n.State == tree.StateDimmed:
			label = browseDimStyle.Render(label)
		case i == m.cursor:
			label = browseSelectedStyle.Render(label)
		default:
			label = kindStyle(n.Kind).Render(label)
		}
		b.WriteString(cursor + label + "\n")
	}

	b.WriteString("\n")
	if n := m.current(); n != nil {
		b.WriteString(browseDimStyle.Render(n.Path))
		b.WriteString("\n")
	}
	if m.searching {
		b.WriteString(browsePromptStyle.Render("search: ") + m.query + "█")
	} else {
		b.WriteString(StyleDim.Render(m.state.Message))
	}
	return b.String()
}
