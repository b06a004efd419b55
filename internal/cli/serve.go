package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/archetype-cli/archetype/internal/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve diagram generation over HTTP",
		Long: `Serve diagram generation over HTTP.

POST an inventory to /api/v1/diagrams to generate a diagram, then fetch it
by id as JSON, SVG, DOT, or a drawing package:

  GET /api/v1/diagrams/{id}
  GET /api/v1/diagrams/{id}/svg
  GET /api/v1/diagrams/{id}/dot            (?render=svg for a rendered SVG)
  GET /api/v1/diagrams/{id}/package

Set ` + redisEnvVar + ` to share the diagram cache between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			printInfo("Serving on %s", StyleHighlight.Render(addr))
			return server.New(runner, c.Logger).Start(ctx, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
