package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/config"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/pipeline"
)

// renderCommand creates the render command, the default chart run.
func (c *CLI) renderCommand() *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the org chart to org_chart.svg and org_chart.png",
		Long: `Render fetches all units, builds the hierarchy, lays it out in layers and
writes the SVG document and PNG image. Units whose parent does not exist are
drawn as additional roots.`,
		Example: `  DB_PASS=secret orgchart render
  orgchart render --input units.json --format svg,dot
  orgchart render --sink native --scale 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, detailed)
		},
	}

	c.layoutFlags(cmd)
	c.outputFlags(cmd)
	c.cacheFlags(cmd)
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include unit types and ids in the DOT export")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, cfg config.Config, detailed bool) error {
	if err := c.preflight(cfg); err != nil {
		return err
	}
	opts := pipelineOptions(cfg)
	opts.Detailed = detailed
	if err := opts.Validate(); err != nil {
		return err
	}

	runner, closeRunner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRunner()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinner(ctx, "Rendering org chart...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		if result != nil && len(result.Artifacts) > 0 {
			// Keep the vector document when only rasterization failed.
			paths, werr := writeArtifacts(cfg.Output, opts.Formats, result.Artifacts)
			for _, p := range paths {
				printFile(p)
			}
			if werr != nil {
				loggerFromContext(ctx).Warn("could not write partial output", "err", werr)
			}
		}
		return err
	}
	prog.done("Rendered %d units", result.Stats.Units)

	paths, err := writeArtifacts(cfg.Output, opts.Formats, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Org chart rendered")
	printStats(result.Stats)
	for _, p := range paths {
		printFile(p)
	}
	if result.Stats.Demoted > 0 {
		printWarning("%d units reference a missing parent and are drawn as roots (see --verbose)", result.Stats.Demoted)
	}
	return nil
}

// artifactPath returns where format is written.
func artifactPath(out config.Output, format string) string {
	var name string
	switch format {
	case pipeline.FormatSVG:
		name = out.SVG
	case pipeline.FormatPNG:
		name = out.PNG
	default:
		base := strings.TrimSuffix(out.SVG, filepath.Ext(out.SVG))
		name = base + "." + format
	}
	return filepath.Join(out.Dir, name)
}

// writeArtifacts writes each rendered format, overwriting existing files.
func writeArtifacts(out config.Output, formats []string, artifacts map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(out.Dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailure, err, "create %s", out.Dir)
	}
	var paths []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := artifactPath(out, format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, errors.Wrap(errors.ErrCodeRenderFailure, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
