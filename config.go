package schedviewer

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the client configuration, normally loaded from YAML.
type Config struct {
	ServerURL       string        `yaml:"server_url"`
	MetricsInterval time.Duration `yaml:"metrics_interval"`
	LogLevel        string        `yaml:"log_level"`
	Window          WindowConfig  `yaml:"window"`
	Web             WebConfig     `yaml:"web"`
	Gantt           GanttConfig   `yaml:"gantt"`
	SmartTV         SmartTVConfig `yaml:"smarttv"`
	Video           VideoConfig   `yaml:"video"`
	Debug           DebugConfig   `yaml:"debug"`
}

// WindowConfig configures the desktop window.
type WindowConfig struct {
	Enabled bool    `yaml:"enabled"`
	Title   string  `yaml:"title"`
	Scale   float64 `yaml:"scale"`
}

// WebConfig configures the HTTP dashboard.
type WebConfig struct {
	Addr string `yaml:"addr"`
	// Refresh is the page reload period in seconds. Zero disables reloads.
	Refresh int `yaml:"refresh"`
}

// GanttConfig configures the Gantt layout.
type GanttConfig struct {
	Width       float64 `yaml:"width"`
	RowCapacity int     `yaml:"row_capacity"`
}

// SmartTVConfig configures Smart TV output.
type SmartTVConfig struct {
	Enabled         bool          `yaml:"enabled"`
	DiscoverTimeout time.Duration `yaml:"discover_timeout"`
	JFIF            bool          `yaml:"jfif"`
	Mode            string        `yaml:"mode"`
}

// VideoConfig configures the replay video target.
type VideoConfig struct {
	Enabled  bool          `yaml:"enabled"`
	FPS      int           `yaml:"fps"`
	Duration time.Duration `yaml:"duration"`
	Port     int           `yaml:"port"`
}

// DebugConfig enables runtime diagnostics.
type DebugConfig struct {
	// StatsViewAddr serves Go runtime charts at /debug/statsview. Empty disables it.
	StatsViewAddr string `yaml:"statsview_addr"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		ServerURL:       "ws://localhost:5000/ws",
		MetricsInterval: DefaultMetricsInterval,
		LogLevel:        "info",
		Window: WindowConfig{
			Enabled: true,
			Title:   "CPU Scheduler Game",
			Scale:   1,
		},
		Web: WebConfig{
			Addr:    ":8080",
			Refresh: int(DefaultMetricsInterval / time.Second),
		},
		Gantt: GanttConfig{
			Width:       DefaultGanttWidth,
			RowCapacity: DefaultGanttRows,
		},
		SmartTV: SmartTVConfig{
			DiscoverTimeout: 5 * time.Second,
			JFIF:            true,
			Mode:            "scene",
		},
		Video: VideoConfig{
			FPS:      10,
			Duration: 30 * time.Second,
			Port:     8889,
		},
	}
}

// LoadConfig reads path over the defaults and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.ServerURL)
	switch {
	case c.ServerURL == "":
		errs = append(errs, errors.New("server_url is required"))
	case err != nil:
		errs = append(errs, fmt.Errorf("server_url: %w", err))
	case u.Scheme != "ws" && u.Scheme != "wss":
		errs = append(errs, fmt.Errorf("server_url: scheme %q is not ws or wss", u.Scheme))
	}

	if c.MetricsInterval <= 0 {
		errs = append(errs, errors.New("metrics_interval must be positive"))
	}
	if _, ok := logLevels[strings.ToLower(strings.TrimSpace(c.LogLevel))]; !ok {
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}
	if c.Window.Scale <= 0 {
		errs = append(errs, errors.New("window.scale must be positive"))
	}
	if c.Web.Refresh < 0 {
		errs = append(errs, errors.New("web.refresh must not be negative"))
	}
	if c.Gantt.Width <= 0 {
		errs = append(errs, errors.New("gantt.width must be positive"))
	}
	if c.Gantt.RowCapacity <= 0 {
		errs = append(errs, errors.New("gantt.row_capacity must be positive"))
	}
	if _, err := ParseTVMode(c.SmartTV.Mode); err != nil {
		errs = append(errs, fmt.Errorf("smarttv.mode: %w", err))
	}
	if c.Video.Enabled && c.Video.FPS <= 0 {
		errs = append(errs, errors.New("video.fps must be positive"))
	}
	return errors.Join(errs...)
}

// StoreOptions returns the store options implied by c.
func (c Config) StoreOptions() []StoreOption {
	return []StoreOption{WithStoreGantt(c.Gantt.Width, c.Gantt.RowCapacity)}
}

// DashboardOptions returns the dashboard options implied by c.
func (c Config) DashboardOptions() []DashboardOption {
	return []DashboardOption{
		WithGanttLayout(c.Gantt.Width, c.Gantt.RowCapacity),
		WithRefresh(c.Web.Refresh),
	}
}
