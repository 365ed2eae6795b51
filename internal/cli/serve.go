package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/biotree/internal/server"
	"github.com/matzehuels/biotree/pkg/render"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		lf          loadFlags
		addr        string
		allowSource bool
	)

	cmd := &cobra.Command{
		Use:   "serve [source]",
		Short: "Serve viewer sessions over HTTP",
		Long: `Serve viewer sessions over HTTP.

Each POST /api/sessions loads the default source (or an inline document) into
a new viewer. Sessions are kept in memory and dropped after [server]
session_ttl of inactivity.

With --allow-source, clients may name another location when creating a
session. Locations resolve on the server, local files included.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Inline documents work without a default source.
			location, _ := c.location(args)

			ctx := cmd.Context()
			engineCfg, err := c.engineConfig(cmd, &lf)
			if err != nil {
				return err
			}
			opts, ch, err := c.sourceOptions(ctx, &lf)
			if err != nil {
				return err
			}
			defer ch.Close()

			if !cmd.Flags().Changed("addr") {
				addr = c.Config.serverAddr()
			}
			if !cmd.Flags().Changed("allow-source") {
				allowSource = c.Config.Server.AllowSource
			}

			srv := server.New(server.Config{
				Engine:        engineCfg,
				Theme:         render.DefaultTheme(),
				Source:        location,
				AllowSource:   allowSource,
				SourceOptions: opts,
				SessionTTL:    c.Config.sessionTTL(),
			}, c.Logger)
			return srv.Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().BoolVar(&allowSource, "allow-source", false, "let clients choose the document location")
	lf.register(cmd)

	return cmd
}
