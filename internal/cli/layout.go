package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/pipeline"
	"github.com/matzehuels/orgchart/pkg/render/svg"
)

// layoutCommand creates the layout command, which reports the computed
// hierarchy and canvas without writing files.
func (c *CLI) layoutCommand() *cobra.Command {
	var showLayers bool

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print hierarchy and layout statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := c.preflight(cfg); err != nil {
				return err
			}
			if err := cfg.Layout.Validate(); err != nil {
				return err
			}

			runner, closeRunner, err := c.newRunner(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeRunner()

			spinner := newSpinner(ctx, "Fetching units...")
			spinner.Start()
			records, err := runner.Fetch(ctx)
			if err != nil {
				spinner.Stop()
				return fmt.Errorf("fetch: %w", err)
			}
			spinner.StopWithSuccess("Fetched %d units", len(records))

			prog := newProgress(loggerFromContext(ctx))
			h, l, err := pipeline.Arrange(records, cfg.Layout, loggerFromContext(ctx))
			if err != nil {
				return fmt.Errorf("layout: %w", err)
			}
			prog.done("Arranged %d units in %d layers", h.Len(), len(l.Layers))
			var stats pipeline.Stats
			pipeline.Summarize(&stats, h, l)

			printKeyValue("Units", strconv.Itoa(stats.Units))
			printKeyValue("Roots", strconv.Itoa(stats.Roots))
			printKeyValue("Demoted", strconv.Itoa(stats.Demoted))
			printKeyValue("Layers", strconv.Itoa(stats.Layers))
			printKeyValue("Max columns", strconv.Itoa(stats.MaxCols))
			printKeyValue("Canvas", fmt.Sprintf("%s x %s", svg.FormatNumber(stats.Width), svg.FormatNumber(stats.Height)))

			if showLayers {
				printNewline()
				for depth, layer := range l.Layers {
					printInfo("Layer %d: %d units", depth, len(layer))
					for _, b := range layer {
						n, _ := h.Lookup(b.ID)
						printDetail("%s at (%s, %s)", n.Label(), svg.FormatNumber(b.X), svg.FormatNumber(b.Y))
					}
				}
			}
			return nil
		},
	}

	c.layoutFlags(cmd)
	cmd.Flags().BoolVar(&showLayers, "layers", false, "list the units of every layer")

	return cmd
}
