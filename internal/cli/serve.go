package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsontree/internal/server"
	"github.com/matzehuels/jsontree/pkg/observability"
	"github.com/matzehuels/jsontree/pkg/workspace"
)

// serveCommand creates the serve command, which runs the browser UI.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags layoutFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve the tree editor to the browser",
		Long: `Serve the tree editor on a local address. The page starts with the
named document, or the sample one, already drawn. Stop with Ctrl+C.`,
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
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ws := c.newWorkspace(runner, cfg, flags.refresh)
			rep := newReport(cmd.OutOrStdout())
			if err := ws.Generate(ctx, text); err != nil {
				rep.fail("%s", ws.Message())
			}
			if c.verbose {
				observability.SetServerHooks(observability.NewLogHooks(c.Logger))
			}

			rep.info("Serving on %s", StyleLink.Render("http://"+cfg.Server.Addr))
			rep.hint("Stop with", "Ctrl+C")
			return server.New(server.Config{
				Workspace:         ws,
				Logger:            c.Logger,
				Addr:              cfg.Server.Addr,
				ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout.Duration,
				ShutdownTimeout:   cfg.Server.ShutdownTimeout.Duration,
			}).Serve(ctx)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")

	return cmd
}
