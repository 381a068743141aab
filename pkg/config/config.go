// Package config loads orgchart settings.
//
// Settings are layered, later sources overriding earlier ones:
//
//  1. built-in defaults ([Default])
//  2. a TOML file (orgchart.toml)
//  3. a .env file, which never overrides variables already set
//  4. process environment variables (DB_PASS, DB_HOST, ...)
//  5. command-line flags, applied by the caller
//
// [Config.Validate] is the pre-flight check run before any I/O. A missing
// database credential fails it with CONFIG_MISSING.
package config

import (
	"errors"
	"io/fs"
	"net"
	"net/url"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	orgerrors "github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/render/svg"
	"github.com/matzehuels/orgchart/pkg/source"
)

// Default file names.
const (
	DefaultFile    = "orgchart.toml"
	DefaultEnvFile = ".env"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the complete set of settings for a chart run.
type Config struct {
	Database Database       `toml:"database"`
	Layout   layout.Options `toml:"layout"`
	Theme    svg.Theme      `toml:"theme"`
	Output   Output         `toml:"output"`
	Cache    Cache          `toml:"cache"`
}

// Database describes where unit records are read from.
type Database struct {
	Driver   string `toml:"driver"`
	DSN      string `toml:"dsn"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"-"` // environment only
	Name     string `toml:"name"`
	SSLMode  string `toml:"sslmode"`
	Table    string `toml:"table"`
}

// Output controls the written artifacts.
type Output struct {
	Dir     string   `toml:"dir"`
	SVG     string   `toml:"svg"`
	PNG     string   `toml:"png"`
	Formats []string `toml:"formats"`
	Scale   float64  `toml:"scale"`
	Sink    string   `toml:"sink"`
	Title   string   `toml:"title"`
}

// Cache selects the record cache backend.
type Cache struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	TTL           time.Duration `toml:"ttl"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"-"`
	RedisDB       int           `toml:"redis_db"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database: Database{
			Driver:  source.DriverPGX,
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			Name:    "usarmy",
			SSLMode: "disable",
			Table:   source.DefaultTable,
		},
		Layout: layout.DefaultOptions(),
		Theme:  svg.DefaultTheme(),
		Output: Output{
			Dir:     ".",
			SVG:     "org_chart.svg",
			PNG:     "org_chart.png",
			Formats: []string{"svg", "png"},
			Scale:   2,
			Sink:    "rsvg",
		},
		Cache: Cache{
			Backend:   CacheNone,
			TTL:       10 * time.Minute,
			RedisAddr: "127.0.0.1:6379",
		},
	}
}

// Load builds a Config from defaults, the TOML file at path, the .env file
// at envFile and the process environment. A missing file is skipped unless
// required is set; envFile may be empty to skip .env loading.
func Load(path string, required bool, envFile string) (Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path, required); err != nil {
		return cfg, err
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, orgerrors.Wrap(orgerrors.ErrCodeInvalidFormat, err, "load %s", envFile)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	if path == "" {
		return nil
	}
	md, err := toml.DecodeFile(path, c)
	if errors.Is(err, fs.ErrNotExist) {
		if required {
			return orgerrors.Wrap(orgerrors.ErrCodeConfigMissing, err, "config file %s", path)
		}
		return nil
	}
	if err != nil {
		return orgerrors.Wrap(orgerrors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return orgerrors.New(orgerrors.ErrCodeInvalidFormat, "%s: unknown setting %q", path, undecoded[0].String())
	}
	return nil
}

// ApplyEnv overrides settings from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return orgerrors.New(orgerrors.ErrCodeInvalidInput, "%s must be a non-negative integer, got %q", key, v)
		}
		*dst = n
		return nil
	}

	db := &c.Database
	str("DB_DRIVER", &db.Driver)
	str("DB_DSN", &db.DSN)
	str("DB_HOST", &db.Host)
	str("DB_USER", &db.User)
	str("DB_PASS", &db.Password)
	str("DB_NAME", &db.Name)
	str("DB_SSLMODE", &db.SSLMode)
	str("DB_TABLE", &db.Table)
	if err := integer("DB_PORT", &db.Port); err != nil {
		return err
	}

	str("ORGCHART_CACHE", &c.Cache.Backend)
	str("ORGCHART_CACHE_DIR", &c.Cache.Dir)
	str("REDIS_ADDR", &c.Cache.RedisAddr)
	str("REDIS_PASS", &c.Cache.RedisPassword)
	return integer("REDIS_DB", &c.Cache.RedisDB)
}

// Validate checks that the configuration is complete enough to start a run.
func (c Config) Validate() error {
	db := c.Database
	drivers := []string{source.DriverPGX, source.DriverPostgres, source.DriverSQLite}
	if !slices.Contains(drivers, db.Driver) {
		return orgerrors.New(orgerrors.ErrCodeInvalidInput,
			"unknown database driver %q (must be one of: pgx, postgres, sqlite)", db.Driver)
	}
	if db.DSN == "" {
		switch {
		case db.Driver == source.DriverSQLite && db.Name == "":
			return orgerrors.New(orgerrors.ErrCodeConfigMissing, "DB_NAME must name the SQLite database file")
		case db.Driver != source.DriverSQLite && db.Password == "":
			return orgerrors.New(orgerrors.ErrCodeConfigMissing, "DB_PASS is not set")
		}
	}
	if err := orgerrors.ValidateIdentifier(db.Table); err != nil {
		return err
	}
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case "", CacheNone, CacheFile, CacheRedis:
	default:
		return orgerrors.New(orgerrors.ErrCodeInvalidInput,
			"unknown cache backend %q (must be one of: none, file, redis)", c.Cache.Backend)
	}
	return nil
}

// ConnString returns the connection string for the configured driver.
func (d Database) ConnString() string {
	if d.DSN != "" {
		return d.DSN
	}
	if d.Driver == source.DriverSQLite {
		return d.Name
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.User(d.User),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {d.SSLMode}}.Encode()
	}
	if d.Password != "" {
		u.User = url.UserPassword(d.User, d.Password)
	}
	return u.String()
}

// Target describes the database without credentials.
func (d Database) Target() string {
	return source.Redact(d.ConnString())
}
