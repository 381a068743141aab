package server

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/org"
	"github.com/matzehuels/orgchart/pkg/pipeline"
	"github.com/matzehuels/orgchart/pkg/render/raster"
	"github.com/matzehuels/orgchart/pkg/source"
)

var units = []org.UnitRecord{
	{ID: 1, Name: "HQ", Abbrev: "HQ", UnitType: "Command"},
	{ID: 2, Name: "1st Corps", UnitType: "Corps", ParentID: org.ParentOf(1)},
}

func newTestServer(t *testing.T, fetch source.Func) *httptest.Server {
	t.Helper()
	runner := pipeline.NewRunner(fetch, log.New(io.Discard))
	runner.Sink = &raster.Native{Scale: 1}
	s := &Server{Runner: runner, Logger: log.New(io.Discard), Timeout: time.Second}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func staticUnits(records []org.UnitRecord) source.Func {
	return func(context.Context) ([]org.UnitRecord, error) { return records, nil }
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, staticUnits(units))
	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if string(body) != "ok\n" {
		t.Errorf("body = %q", body)
	}
	if got := resp.Header.Get("Server"); !strings.HasPrefix(got, "orgchart/") {
		t.Errorf("Server header = %q", got)
	}
}

func TestChartSVG(t *testing.T) {
	ts := newTestServer(t, staticUnits(units))
	resp, body := get(t, ts.URL+"/chart.svg?title=Army")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get("X-Run-Id") == "" {
		t.Error("missing X-Run-Id")
	}
	for _, want := range []string{"<svg", "<title>Army</title>", "1st Corps"} {
		if !bytes.Contains(body, []byte(want)) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestChartPNG(t *testing.T) {
	ts := newTestServer(t, staticUnits(units))
	resp, body := get(t, ts.URL+"/chart.png")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	img, err := png.Decode(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 280 {
		t.Errorf("png size = %dx%d, want 300x280", b.Dx(), b.Dy())
	}
}

func TestChartOtherFormats(t *testing.T) {
	ts := newTestServer(t, staticUnits(units))
	tests := []struct {
		path, contentType, contains string
	}{
		{"/chart.dot", "text/vnd.graphviz; charset=utf-8", "u1 -> u2;"},
		{"/chart.json", "application/json", `"max_cols"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.StatusCode, body)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q", ct)
			}
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body missing %q:\n%s", tt.contains, body)
			}
		})
	}
}

func TestChartErrors(t *testing.T) {
	cycle := []org.UnitRecord{
		{ID: 1, Name: "A", ParentID: org.ParentOf(2)},
		{ID: 2, Name: "B", ParentID: org.ParentOf(1)},
	}
	tests := []struct {
		name   string
		fetch  source.Func
		path   string
		status int
	}{
		{"unknown format", staticUnits(units), "/chart.gif", http.StatusNotFound},
		{"empty", staticUnits(nil), "/chart.svg", http.StatusUnprocessableEntity},
		{"no roots", staticUnits(cycle), "/chart.svg", http.StatusUnprocessableEntity},
		{"fetch failure", func(context.Context) ([]org.UnitRecord, error) {
			return nil, stderrors.New("connection refused")
		}, "/chart.svg", http.StatusBadGateway},
		{"unknown sink", staticUnits(units), "/chart.svg?sink=paint", http.StatusBadRequest},
		{"no route", staticUnits(units), "/chart", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.fetch)
			resp, body := get(t, ts.URL+tt.path)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d: %s", resp.StatusCode, tt.status, body)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeEmptyDataset, "x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeCycleDetected, "x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeFetchFailure, "x"), http.StatusBadGateway},
		{errors.New(errors.ErrCodeInvalidFormat, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeRenderFailure, "x"), http.StatusInternalServerError},
		{fmt.Errorf("fetch: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{stderrors.New("other"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := Status(tt.err); got != tt.want {
			t.Errorf("Status(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

type recordingServerHooks struct {
	observability.NoopServerHooks
	requests  []string
	responses []int
}

func (h *recordingServerHooks) OnRequest(_ context.Context, method, path string) {
	h.requests = append(h.requests, method+" "+path)
}

func (h *recordingServerHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.responses = append(h.responses, status)
}

func TestServerHooks(t *testing.T) {
	hooks := &recordingServerHooks{}
	observability.SetServerHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t, staticUnits(units))
	get(t, ts.URL+"/healthz")
	get(t, ts.URL+"/chart.gif")

	if len(hooks.requests) != 2 || hooks.requests[0] != "GET /healthz" {
		t.Errorf("requests = %v", hooks.requests)
	}
	if len(hooks.responses) != 2 || hooks.responses[0] != 200 || hooks.responses[1] != 404 {
		t.Errorf("responses = %v", hooks.responses)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	s := &Server{Runner: pipeline.NewRunner(staticUnits(units), nil), Logger: log.New(io.Discard)}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	select {
	case err := <-done:
		if !stderrors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
