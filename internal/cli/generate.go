package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsontree/pkg/pipeline"
	"github.com/matzehuels/jsontree/pkg/render"
	"github.com/matzehuels/jsontree/pkg/search"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	layoutFlags
	output    string // output file; stdout when empty
	format    string // svg, png, pdf, dot or json; inferred from output otherwise
	highlight string // path to highlight before rendering
	graphviz  bool   // let Graphviz draw svg and png output
}

// generateCommand creates the generate command: JSON in, rendered tree out.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Render a JSON document as a tree",
		Long: `Render a JSON document as a tree of nodes.

The document is read from the named file, or from stdin when the file is
omitted or "-". The tree goes to stdout unless --output is given, in which
case the format follows the file extension.`,
		Example: `  jsontree generate data.json -o tree.svg
  curl -s https://api.example.com/user | jsontree generate -o user.png
  jsontree generate data.json --highlight '$.items[0].name' -o tree.png
  jsontree generate data.json --format dot --direction TB
  jsontree generate data.json --graphviz -o tree.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return c.runGenerate(cmd, path, &opts)
		},
	}

	opts.layoutFlags.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), png, pdf, dot, json")
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "JSON path to highlight, dimming the rest")
	cmd.Flags().BoolVar(&opts.graphviz, "graphviz", false, "draw svg and png with Graphviz dot instead of the built-in renderer")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, path string, opts *generateOpts) error {
	ctx := cmd.Context()

	format, err := resolveFormat(opts.format, opts.output)
	if err != nil {
		return err
	}
	data, name, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	cfg, runner, err := c.setup(ctx, &opts.layoutFlags)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := runner.Generate(ctx, data, c.pipelineOptions(cfg, opts.refresh))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	if opts.highlight != "" {
		if _, err := search.Run(res.Graph, opts.highlight, res.Options.Layout); err != nil {
			return err
		}
	}

	spin := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Rendering %s", format))
	spin.Start()
	out, cached, err := runner.RenderWithCacheInfo(ctx, res, pipeline.RenderOptions{
		Format:   format,
		Theme:    render.Theme(cfg.UI.Theme),
		Graphviz: opts.graphviz,
	})
	spin.Stop()
	if err != nil {
		return err
	}

	if err := writeOutput(cmd, opts.output, out); err != nil {
		return err
	}
	if opts.output == "" {
		return nil
	}

	c.Logger.Debug("rendered", "generation", res.GenerationID, "artifact_cached", cached)
	prog.done("Rendered "+opts.output, "format", format, "nodes", res.Stats.NodeCount)
	rep := newReport(cmd.OutOrStdout())
	rep.success("Generated tree from %s", name)
	rep.file(opts.output)
	rep.stats(res.Stats, res.CacheHit)
	return nil
}
