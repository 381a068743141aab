package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/buildinfo"
	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/config"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/pipeline"
	"github.com/matzehuels/orgchart/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "orgchart"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	envFile    string
	input      string
	noCache    bool

	// flags receives flag values; only flags set on the command line are
	// copied into the loaded configuration.
	flags     config.Config
	overrides []override
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		flags:  config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Orgchart renders unit hierarchies as layered org charts",
		Long: `Orgchart reads organizational units (id, name, abbreviation, type, parent)
from a relational table and renders them as a layered tree: an SVG document
and a PNG image.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVarP(&c.configPath, "config", "c", config.DefaultFile, "TOML config file")
	pf.StringVar(&c.envFile, "env-file", config.DefaultEnvFile, "dotenv file loaded into the environment (empty to skip)")
	pf.StringVarP(&c.input, "input", "i", "", "read units from a JSON file instead of the database")
	c.databaseFlags(root)

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig layers the config file, .env, environment and changed flags.
func (c *CLI) loadConfig(cmd *cobra.Command) (config.Config, error) {
	required := cmd.Flags().Changed("config")
	cfg, err := config.Load(c.configPath, required, c.envFile)
	if err != nil {
		return cfg, err
	}
	c.applyOverrides(cmd, &cfg)
	if c.noCache {
		cfg.Cache.Backend = config.CacheNone
	}
	return cfg, nil
}

// preflight validates cfg before any I/O. A JSON input file needs no
// database credential.
func (c *CLI) preflight(cfg config.Config) error {
	if c.input != "" {
		cfg.Database.DSN = c.input
	}
	return cfg.Validate()
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner opens the configured source and wraps it in the record cache.
// The returned close function releases the database and cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config) (*pipeline.Runner, func(), error) {
	logger := loggerFromContext(ctx)
	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	var src source.Source
	if c.input != "" {
		src = &source.File{Path: c.input}
	} else {
		logger.Debug("connecting", "driver", cfg.Database.Driver, "target", cfg.Database.Target())
		db, err := source.Open(ctx, cfg.Database.Driver, cfg.Database.ConnString())
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, db.Close)
		src = &source.SQL{DB: db, Table: cfg.Database.Table, Target: cfg.Database.Target()}
	}

	rc, err := newCache(ctx, cfg.Cache)
	if err != nil {
		logger.Warn("record cache disabled", "backend", cfg.Cache.Backend, "err", err)
		rc = cache.NewNullCache()
	}
	closers = append(closers, rc.Close)
	if _, off := rc.(cache.NullCache); !off {
		src = &source.Cached{Source: src, Cache: rc, TTL: cfg.Cache.TTL, Logger: logger}
	}

	return pipeline.NewRunner(src, logger), closeAll, nil
}

func newCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheFile:
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case "", config.CacheNone:
		return cache.NewNullCache(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", cfg.Backend)
	}
}

// pipelineOptions maps configuration onto run options.
func pipelineOptions(cfg config.Config) pipeline.Options {
	return pipeline.Options{
		Layout:  cfg.Layout,
		Theme:   cfg.Theme,
		Title:   cfg.Output.Title,
		Formats: cfg.Output.Formats,
		Sink:    cfg.Output.Sink,
		Scale:   cfg.Output.Scale,
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/orgchart/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
