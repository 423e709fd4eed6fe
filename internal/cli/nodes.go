package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsontree/pkg/tree"
)

// nodesCommand creates the nodes command, which lists the tree as a table.
func (c *CLI) nodesCommand() *cobra.Command {
	var (
		flags layoutFlags
		kind  string
	)

	cmd := &cobra.Command{
		Use:   "nodes [file]",
		Short: "List the nodes of the tree with their paths and positions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter tree.Kind
			switch kind {
			case "":
			case string(tree.KindObject), string(tree.KindArray), string(tree.KindPrimitive):
				filter = tree.Kind(kind)
			default:
				return fmt.Errorf("invalid kind %q (want object, array or primitive)", kind)
			}

			var path string
			if len(args) == 1 {
				path = args[0]
			}
			data, name, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			cfg, runner, err := c.setup(cmd.Context(), &flags)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Generate(cmd.Context(), data, c.pipelineOptions(cfg, flags.refresh))
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), nodeTable(res.Graph, filter))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&kind, "kind", "", "only list nodes of this kind: object, array, primitive")

	return cmd
}

// nodeTable renders the nodes of g, indented by depth, optionally filtered
// by kind.
func nodeTable(g *tree.Graph, kind tree.Kind) string {
	var (
		rows  [][]string
		kinds []tree.Kind
	)
	for _, n := range g.Nodes {
		if kind != "" && n.Kind != kind {
			continue
		}
		rows = append(rows, []string{
			n.ID,
			strings.Repeat("  ", g.Depth(n.ID)) + n.Label,
			n.Path,
			string(n.Kind),
			strconv.FormatFloat(n.Position.X, 'f', -1, 64),
			strconv.FormatFloat(n.Position.Y, 'f', -1, 64),
		})
		kinds = append(kinds, n.Kind)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	cell := lipgloss.NewStyle().PaddingRight(1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("ID", "Label", "Path", "Kind", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(kinds) {
				return cell
			}
			switch col {
			case 1:
				return cell.Inherit(kindStyle(kinds[row]))
			case 0, 3, 4, 5:
				return cell.Foreground(colorMuted)
			}
			return cell
		}).
		Render()
}
