package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/config"
)

// override copies one flag value from the flag-bound config into the loaded
// one when the flag was set on the command line.
type override struct {
	name  string
	apply func(dst, src *config.Config)
}

func (c *CLI) bind(name string, apply func(dst, src *config.Config)) {
	c.overrides = append(c.overrides, override{name: name, apply: apply})
}

func (c *CLI) applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	for _, o := range c.overrides {
		if f := cmd.Flags().Lookup(o.name); f != nil && f.Changed {
			o.apply(cfg, &c.flags)
		}
	}
}

// databaseFlags registers the data source flags on the root command.
func (c *CLI) databaseFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	d := &c.flags.Database

	pf.StringVar(&d.Driver, "driver", d.Driver, "database driver: pgx, postgres, sqlite")
	c.bind("driver", func(dst, src *config.Config) { dst.Database.Driver = src.Database.Driver })

	pf.StringVar(&d.DSN, "dsn", "", "full connection string (overrides host, port, user, name)")
	c.bind("dsn", func(dst, src *config.Config) { dst.Database.DSN = src.Database.DSN })

	pf.StringVar(&d.Table, "table", d.Table, "table holding the units")
	c.bind("table", func(dst, src *config.Config) { dst.Database.Table = src.Database.Table })
}

// layoutFlags registers the box and spacing flags.
func (c *CLI) layoutFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	l := &c.flags.Layout

	fs.Float64Var(&l.NodeWidth, "node-width", l.NodeWidth, "box width in pixels")
	c.bind("node-width", func(dst, src *config.Config) { dst.Layout.NodeWidth = src.Layout.NodeWidth })

	fs.Float64Var(&l.NodeHeight, "node-height", l.NodeHeight, "box height in pixels")
	c.bind("node-height", func(dst, src *config.Config) { dst.Layout.NodeHeight = src.Layout.NodeHeight })

	fs.Float64Var(&l.HGap, "h-gap", l.HGap, "horizontal gap between boxes")
	c.bind("h-gap", func(dst, src *config.Config) { dst.Layout.HGap = src.Layout.HGap })

	fs.Float64Var(&l.VGap, "v-gap", l.VGap, "vertical gap between layers")
	c.bind("v-gap", func(dst, src *config.Config) { dst.Layout.VGap = src.Layout.VGap })

	fs.Float64Var(&l.MarginX, "margin-x", l.MarginX, "left and right canvas margin")
	c.bind("margin-x", func(dst, src *config.Config) { dst.Layout.MarginX = src.Layout.MarginX })

	fs.Float64Var(&l.MarginY, "margin-y", l.MarginY, "top and bottom canvas margin")
	c.bind("margin-y", func(dst, src *config.Config) { dst.Layout.MarginY = src.Layout.MarginY })
}

// outputFlags registers the artifact flags.
func (c *CLI) outputFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	o := &c.flags.Output

	fs.StringVarP(&o.Dir, "output-dir", "o", o.Dir, "directory for written artifacts")
	c.bind("output-dir", func(dst, src *config.Config) { dst.Output.Dir = src.Output.Dir })

	fs.StringSliceVarP(&o.Formats, "format", "f", o.Formats, "output formats: svg, png, dot, json")
	c.bind("format", func(dst, src *config.Config) { dst.Output.Formats = normalizeFormats(src.Output.Formats) })

	fs.StringVar(&o.Sink, "sink", o.Sink, "raster sink for png: rsvg, native, graphviz")
	c.bind("sink", func(dst, src *config.Config) { dst.Output.Sink = src.Output.Sink })

	fs.Float64Var(&o.Scale, "scale", o.Scale, "png zoom factor")
	c.bind("scale", func(dst, src *config.Config) { dst.Output.Scale = src.Output.Scale })

	fs.StringVar(&o.Title, "title", o.Title, "document title")
	c.bind("title", func(dst, src *config.Config) { dst.Output.Title = src.Output.Title })
}

// cacheFlags registers the record cache flags.
func (c *CLI) cacheFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.BoolVar(&c.noCache, "no-cache", false, "disable the record cache")

	fs.StringVar(&c.flags.Cache.Backend, "cache", c.flags.Cache.Backend, "record cache: none, file, redis")
	c.bind("cache", func(dst, src *config.Config) { dst.Cache.Backend = src.Cache.Backend })
}

// normalizeFormats lower-cases, trims and de-duplicates formats.
func normalizeFormats(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
