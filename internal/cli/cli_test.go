package cli

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/orgchart/pkg/config"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/pipeline"
)

const unitsJSON = `[
  {"id": 1, "name": "HQ", "abbrev": "HQ", "unit_type": "Command", "parent_id": null},
  {"id": 2, "name": "1st Corps", "abbrev": "1C", "unit_type": "Corps", "parent_id": 1},
  {"id": 3, "name": "2nd Corps", "unit_type": "Corps", "parent_id": 1}
]`

func writeUnits(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "units.json")
	if err := os.WriteFile(path, []byte(unitsJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append(args, "--env-file", ""))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	for _, want := range []string{"cache", "completion", "layout", "render", "serve"} {
		found := false
		for _, name := range got {
			if name == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing subcommand %q in %v", want, got)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	in := writeUnits(t)
	out := t.TempDir()

	err := execute(t, "render", "--input", in, "--no-cache",
		"--sink", "native", "--scale", "1",
		"-o", out, "--format", "svg,PNG,dot,json,svg")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, name := range []string{"org_chart.svg", "org_chart.png", "org_chart.dot", "org_chart.json"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(out, "org_chart.png"))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 560 || b.Dy() != 280 {
		t.Errorf("png size = %dx%d, want 560x280", b.Dx(), b.Dy())
	}

	doc, _ := os.ReadFile(filepath.Join(out, "org_chart.svg"))
	if !strings.Contains(string(doc), `viewBox="0 0 560 280"`) {
		t.Errorf("svg header not sized 560x280:\n%s", doc)
	}
}

func TestRenderCommandWritesSVGWhenPNGFails(t *testing.T) {
	// rsvg-convert cannot be found on an empty PATH.
	t.Setenv("PATH", t.TempDir())
	in := writeUnits(t)
	out := t.TempDir()

	err := execute(t, "render", "--input", in, "--no-cache", "--sink", "rsvg", "-o", out, "--format", "png,svg")
	if !errors.Is(err, errors.ErrCodeRenderFailure) {
		t.Fatalf("render = %v, want RENDER_FAILURE", err)
	}
	if errors.ExitCode(err) == 0 {
		t.Error("render failure must exit non-zero")
	}

	doc, rerr := os.ReadFile(filepath.Join(out, "org_chart.svg"))
	if rerr != nil {
		t.Fatalf("org_chart.svg not written: %v", rerr)
	}
	if !bytes.HasPrefix(doc, []byte("<svg")) {
		t.Errorf("org_chart.svg is not an SVG document: %q", doc)
	}
	if _, serr := os.Stat(filepath.Join(out, "org_chart.png")); !os.IsNotExist(serr) {
		t.Errorf("org_chart.png should not exist, stat err = %v", serr)
	}
}

func TestRenderCommandZeroGapFlag(t *testing.T) {
	out := t.TempDir()
	if err := execute(t, "render", "--input", writeUnits(t), "--no-cache", "--h-gap=0", "-o", out, "--format", "json"); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, "org_chart.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"width": 520`) {
		t.Errorf("--h-gap=0 not applied, layout:\n%s", data)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	in := writeUnits(t)
	tests := []struct {
		name string
		args []string
		want errors.Code
	}{
		{"missing input", []string{"render", "--input", filepath.Join(t.TempDir(), "nope.json"), "--format", "svg"}, errors.ErrCodeFetchFailure},
		{"bad format", []string{"render", "--input", in, "--format", "gif"}, errors.ErrCodeInvalidFormat},
		{"bad sink", []string{"render", "--input", in, "--sink", "paint"}, errors.ErrCodeInvalidInput},
		{"bad layout", []string{"render", "--input", in, "--node-width=-5"}, errors.ErrCodeInvalidInput},
		{"explicit config missing", []string{"render", "--config", filepath.Join(t.TempDir(), "none.toml")}, errors.ErrCodeConfigMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--no-cache", "-o", t.TempDir())
			err := execute(t, args...)
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.want, err)
			}
		})
	}
}

func TestLayoutCommand(t *testing.T) {
	if err := execute(t, "layout", "--input", writeUnits(t), "--layers"); err != nil {
		t.Fatalf("layout: %v", err)
	}
}

func TestCacheCommands(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if err := execute(t, "cache", "clear", "--cache", "file"); err != nil {
		t.Errorf("cache clear: %v", err)
	}
	if err := execute(t, "cache", "clear", "--cache", "none"); err != nil {
		t.Errorf("cache clear (disabled): %v", err)
	}
	if err := execute(t, "cache", "path"); err != nil {
		t.Errorf("cache path: %v", err)
	}
}

func TestRenderWithFileCache(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	in := writeUnits(t)

	for range 2 {
		if err := execute(t, "render", "--input", in, "--cache", "file", "--format", "svg", "-o", t.TempDir()); err != nil {
			t.Fatalf("render: %v", err)
		}
	}
	entries, err := os.ReadDir(filepath.Join(cacheHome, appName))
	if err != nil {
		t.Fatalf("read cache dir: %v", err)
	}
	if len(entries) == 0 {
		t.Error("file cache is empty after a render")
	}
}

func TestNormalizeFormats(t *testing.T) {
	got := normalizeFormats([]string{" SVG", "png", "", "svg", "Dot"})
	want := []string{"svg", "png", "dot"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("normalizeFormats() mismatch (-want +got):\n%s", diff)
	}
}

func TestArtifactPath(t *testing.T) {
	out := config.Output{Dir: "charts", SVG: "army.svg", PNG: "army-large.png"}
	tests := []struct {
		format, want string
	}{
		{pipeline.FormatSVG, filepath.Join("charts", "army.svg")},
		{pipeline.FormatPNG, filepath.Join("charts", "army-large.png")},
		{pipeline.FormatDOT, filepath.Join("charts", "army.dot")},
		{pipeline.FormatJSON, filepath.Join("charts", "army.json")},
	}
	for _, tt := range tests {
		if got := artifactPath(out, tt.format); got != tt.want {
			t.Errorf("artifactPath(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	out := config.Output{Dir: dir, SVG: "org_chart.svg", PNG: "org_chart.png"}
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "png": []byte("PNG")}

	paths, err := writeArtifacts(out, []string{"svg", "png", "dot"}, artifacts)
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	want := []string{filepath.Join(dir, "org_chart.svg"), filepath.Join(dir, "org_chart.png")}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	if data, _ := os.ReadFile(want[0]); string(data) != "<svg/>" {
		t.Errorf("svg content = %q", data)
	}

	// Overwrites existing files.
	artifacts["svg"] = []byte("<svg></svg>")
	if _, err := writeArtifacts(out, []string{"svg"}, artifacts); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(want[0]); string(data) != "<svg></svg>" {
		t.Errorf("svg not overwritten: %q", data)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", appName) {
		t.Errorf("cacheDir() = %q", dir)
	}
}

func TestCacheLocation(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	tests := []struct {
		name    string
		cfg     config.Cache
		want    string
		wantErr bool
	}{
		{"file default", config.Cache{Backend: config.CacheFile}, filepath.Join("/tmp/xdg", appName), false},
		{"file dir", config.Cache{Backend: config.CacheFile, Dir: "/var/cache/oc"}, "/var/cache/oc", false},
		{"redis", config.Cache{Backend: config.CacheRedis, RedisAddr: "cache:6379", RedisDB: 2}, "redis://cache:6379/2 orgchart:*", false},
		{"unknown", config.Cache{Backend: "memcached"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cacheLocation(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("cacheLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestServeURL(t *testing.T) {
	tests := map[string]string{
		":8080":          "http://localhost:8080",
		"127.0.0.1:9000": "http://127.0.0.1:9000",
	}
	for addr, want := range tests {
		if got := serveURL(addr); got != want {
			t.Errorf("serveURL(%q) = %q, want %q", addr, got, want)
		}
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, errors.New(errors.ErrCodeNoRoots, "no root units"))
	if got := buf.String(); !strings.Contains(got, "NO_ROOTS") || !strings.Contains(got, "no root units") {
		t.Errorf("PrintError() = %q", got)
	}
}

func TestCompletionCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "orgchart") {
		t.Error("bash completion does not mention orgchart")
	}
}
