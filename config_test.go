package schedviewer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server_url: wss://sim.example.com/ws
metrics_interval: 500ms
log_level: debug
web:
  addr: ":9090"
  refresh: 7
gantt:
  row_capacity: 4
smarttv:
  enabled: true
  mode: queue
video:
  enabled: true
  duration: 1m
debug:
  statsview_addr: localhost:18066
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.ServerURL != "wss://sim.example.com/ws" {
		t.Errorf("unexpected server url %q", cfg.ServerURL)
	}
	if cfg.MetricsInterval != 500*time.Millisecond {
		t.Errorf("unexpected interval %v", cfg.MetricsInterval)
	}
	if cfg.Web.Addr != ":9090" || cfg.Web.Refresh != 7 {
		t.Errorf("unexpected web config %+v", cfg.Web)
	}
	if cfg.Gantt.RowCapacity != 4 || cfg.Gantt.Width != DefaultGanttWidth {
		t.Errorf("unexpected gantt config %+v", cfg.Gantt)
	}
	if !cfg.SmartTV.Enabled || cfg.SmartTV.Mode != "queue" || !cfg.SmartTV.JFIF {
		t.Errorf("unexpected smarttv config %+v", cfg.SmartTV)
	}
	if cfg.Video.Duration != time.Minute || cfg.Video.FPS != 10 {
		t.Errorf("unexpected video config %+v", cfg.Video)
	}
	if cfg.Debug.StatsViewAddr != "localhost:18066" {
		t.Errorf("unexpected debug config %+v", cfg.Debug)
	}
	if !cfg.Window.Enabled || cfg.Window.Title != "CPU Scheduler Game" {
		t.Errorf("window defaults lost: %+v", cfg.Window)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadConfig(writeConfig(t, "server_url: [")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing url", func(c *Config) { c.ServerURL = "" }, "server_url is required"},
		{"http scheme", func(c *Config) { c.ServerURL = "http://localhost:5000" }, "not ws or wss"},
		{"interval", func(c *Config) { c.MetricsInterval = 0 }, "metrics_interval"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"scale", func(c *Config) { c.Window.Scale = 0 }, "window.scale"},
		{"refresh", func(c *Config) { c.Web.Refresh = -1 }, "web.refresh"},
		{"gantt width", func(c *Config) { c.Gantt.Width = 0 }, "gantt.width"},
		{"gantt rows", func(c *Config) { c.Gantt.RowCapacity = 0 }, "gantt.row_capacity"},
		{"tv mode", func(c *Config) { c.SmartTV.Mode = "cinema" }, "smarttv.mode"},
		{"video fps", func(c *Config) { c.Video.Enabled = true; c.Video.FPS = 0 }, "video.fps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestConfig_ValidateReportsAll(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MetricsInterval = 0
	cfg.Gantt.Width = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "metrics_interval") || !strings.Contains(err.Error(), "gantt.width") {
		t.Errorf("expected both problems, got %v", err)
	}
}

func TestConfig_DashboardOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gantt = GanttConfig{Width: 400, RowCapacity: 2}
	d := NewDashboard(cfg.DashboardOptions()...)
	d.Update(&MetricsSnapshot{GanttData: []GanttEntry{
		{PID: 1, Start: 0, Duration: 1},
		{PID: 2, Start: 1, Duration: 1},
		{PID: 3, Start: 2, Duration: 1},
	}})

	g := d.Gantt()
	if g.Width != 400 {
		t.Errorf("expected width 400, got %v", g.Width)
	}
	if g.Bars[2].Row != 0 {
		t.Errorf("expected third bar to wrap to row 0, got %d", g.Bars[2].Row)
	}
}

func TestDefaultConfig_DashboardReloads(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Web.Refresh != 2 {
		t.Fatalf("expected default refresh 2, got %d", cfg.Web.Refresh)
	}

	d := NewDashboard(cfg.DashboardOptions()...)
	d.Update(dashboardMetrics())
	var buf bytes.Buffer
	if err := d.Render(&buf, "/charts"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), `<meta http-equiv="refresh" content="2">`) {
		t.Error("default dashboard page must reload itself")
	}
}

func TestConfig_StoreMatchesDashboardGantt(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gantt = GanttConfig{Width: 400, RowCapacity: 2}

	metrics := &MetricsSnapshot{GanttData: []GanttEntry{
		{PID: 1, Start: 0, Duration: 1},
		{PID: 2, Start: 1, Duration: 1},
		{PID: 3, Start: 2, Duration: 2},
	}}
	store := NewStore(cfg.StoreOptions()...)
	store.SetMetrics(metrics)
	d := NewDashboard(cfg.DashboardOptions()...)
	d.Update(metrics)

	frame, err := store.GetFrame()
	if err != nil {
		t.Fatalf("get frame: %v", err)
	}
	api := FrameToMetricsJSON(frame).Gantt
	page := d.Gantt()
	if api.Width != 400 || api.Scale != page.Scale {
		t.Errorf("api layout width %v scale %v, page scale %v", api.Width, api.Scale, page.Scale)
	}
	for i := range page.Bars {
		if api.Bars[i] != page.Bars[i] {
			t.Errorf("bar %d: api %+v, page %+v", i, api.Bars[i], page.Bars[i])
		}
	}
}
