package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsontree/pkg/config"
	"github.com/matzehuels/jsontree/pkg/pipeline"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/workspace"
)

// searchCommand creates the search command, which looks a path up in the
// tree and reports the node the viewer would centre on.
func (c *CLI) searchCommand() *cobra.Command {
	var (
		flags  layoutFlags
		export string
	)

	cmd := &cobra.Command{
		Use:   "search [file] <path>",
		Short: "Find the node at a JSON path",
		Long: `Find the node at a JSON path such as $.user.address.city or
$.items[0].name. Paths match exactly. With --export the tree is rendered
with the match highlighted and every other node dimmed.`,
		Example: `  jsontree search data.json '$.user.address.city'
  cat data.json | jsontree search '$.items[1]' --export match.png`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 2 {
				path = args[0]
			}
			return c.runSearch(cmd, path, args[len(args)-1], &flags, export)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&export, "export", "", "render the highlighted tree to this file")

	return cmd
}

func (c *CLI) runSearch(cmd *cobra.Command, path, query string, flags *layoutFlags, export string) error {
	ctx := cmd.Context()

	data, name, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	cfg, runner, err := c.setup(ctx, flags)
	if err != nil {
		return err
	}
	defer runner.Close()

	ws := c.newWorkspace(runner, cfg, flags.refresh)
	rep := newReport(cmd.OutOrStdout())
	if err := ws.Generate(ctx, string(data)); err != nil {
		rep.fail("%s", ws.Message())
		return fmt.Errorf("%s: %w", name, err)
	}

	res, err := ws.Search(query)
	if err != nil {
		rep.fail("%s", ws.Message())
		return err
	}

	rep.success("%s", ws.Message())
	n := res.Node
	rep.field("id", n.ID)
	rep.field("kind", string(n.Kind))
	rep.field("label", n.Label)
	rep.field("position", fmt.Sprintf("%g, %g", n.Position.X, n.Position.Y))
	rep.field("focus", fmt.Sprintf("%g, %g", res.Focus.X, res.Focus.Y))

	if export == "" {
		return nil
	}
	format, err := resolveFormat("", export)
	if err != nil {
		return err
	}
	out := <-ws.ExportTo(ctx, format, func(_ string, data []byte) error {
		return os.WriteFile(export, data, 0o644)
	})
	if out.Err != nil {
		rep.fail("%s", out.Message)
		return out.Err
	}
	rep.file(filepath.Clean(export))
	return nil
}

// newWorkspace returns a workspace generating with cfg's layout and theme.
func (c *CLI) newWorkspace(runner *pipeline.Runner, cfg config.Config, refresh bool) *workspace.Workspace {
	return workspace.New(runner, workspace.Options{
		Pipeline: c.pipelineOptions(cfg, refresh),
		Theme:    render.Theme(cfg.UI.Theme),
		Logger:   c.Logger,
	})
}
