package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/internal/server"
)

const defaultAddr = "127.0.0.1:8080"

// serveCommand creates the serve command running the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		catalog string
		flags   cacheFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long: `Run the HTTP service.

Routes:
  GET  /healthz       liveness
  GET  /v1/options    option catalog
  POST /v1/order      order a graph
  POST /v1/configure  effective options after configuration
  GET  /metrics       Prometheus metrics

The service stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, catalog, flags)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&catalog, "catalog", "", "option catalog (TOML) replacing the built-in one")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, catalog string, flags cacheFlags) error {
	runner, err := c.newRunner(ctx, flags, catalog)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := server.New(runner, c.Logger)
	printInfo("Serving on %s", StyleLink.Render("http://"+addr))
	if err := srv.Run(ctx, addr); err != nil {
		return err
	}
	c.Logger.Info("server stopped")
	return nil
}
