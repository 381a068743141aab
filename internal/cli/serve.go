package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/internal/server"
)

// serveCommand creates the serve command, which renders charts on request.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the org chart over HTTP",
		Long: `Serve renders the chart from the configured source on every request.

Routes:
  GET /chart.svg    SVG document
  GET /chart.png    PNG image
  GET /chart.dot    Graphviz export
  GET /chart.json   computed layout
  GET /healthz      liveness probe

The title and sink query parameters override the configured values.`,
		Example: `  orgchart serve --addr :9000
  orgchart serve --cache redis --sink native`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := c.preflight(cfg); err != nil {
				return err
			}
			opts := pipelineOptions(cfg)
			if err := opts.Validate(); err != nil {
				return err
			}

			runner, closeRunner, err := c.newRunner(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeRunner()

			srv := &server.Server{
				Runner:  runner,
				Options: opts,
				Logger:  loggerFromContext(ctx),
				Timeout: timeout,
			}
			printInfo("%s %s", StyleTitle.Render("Serving org chart at"), StyleLink.Render(serveURL(addr)+"/chart.svg"))

			err = srv.ListenAndServe(ctx, addr)
			if ctx.Err() != nil {
				printNewline()
				printSuccess("Server stopped")
				return nil
			}
			return err
		},
	}

	c.layoutFlags(cmd)
	c.outputFlags(cmd)
	c.cacheFlags(cmd)
	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-request render timeout (0 for none)")

	return cmd
}

// serveURL turns a listen address into a browsable base URL.
func serveURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return fmt.Sprintf("http://%s", addr)
}

