package schedviewer

import (
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// FPSSamples is the fixed length of the frame-rate axis.
const FPSSamples = 60

var chartLabels = map[string]string{
	AlgorithmFCFS:        "FCFS",
	AlgorithmRoundRobin:  "Round Robin",
	AlgorithmPriority:    "Priority",
	AlgorithmPriorityPre: "Priority (P)",
}

var radarIndicators = []string{"Waiting Time", "Turnaround Time", "Response Time", "Throughput"}

// DashboardRenderer owns the analytics widgets.
type DashboardRenderer interface {
	Init()
	Update(m *MetricsSnapshot)
}

// ChartSet exposes the four widgets. Their identity never changes after Init.
type ChartSet struct {
	Radar      *charts.Radar
	FPS        *charts.Line
	Waiting    *charts.Bar
	Throughput *charts.Pie
}

// TableRow is one row of the results table.
type TableRow struct {
	Algorithm  string
	Waiting    string
	Turnaround string
	Response   string
	Throughput string
	Processes  int
}

// Summary holds the headline tiles.
type Summary struct {
	TotalProcesses  int
	ContextSwitches int
	AverageFPS      string
	BestAlgorithm   string
}

// Dashboard keeps chart widgets alive across updates and rewrites their
// data in place. The results table is rebuilt on every update.
type Dashboard struct {
	once       sync.Once
	mu         sync.RWMutex
	set        ChartSet
	page       *components.Page
	rows       []TableRow
	summary    Summary
	gantt      GanttLayout
	ganttWidth float64
	ganttRows  int
	updates    int
	refresh    int
}

// DashboardOption configures a Dashboard.
type DashboardOption func(*Dashboard)

// WithGanttLayout sets the Gantt pixel width and row capacity.
func WithGanttLayout(width float64, rows int) DashboardOption {
	return func(d *Dashboard) {
		d.ganttWidth = width
		d.ganttRows = rows
	}
}

// WithRefresh sets the HTML auto-refresh period in seconds. Zero disables it.
func WithRefresh(seconds int) DashboardOption {
	return func(d *Dashboard) {
		d.refresh = seconds
	}
}

// NewDashboard creates a Dashboard. Charts are built by Init.
func NewDashboard(options ...DashboardOption) *Dashboard {
	d := &Dashboard{
		ganttWidth: DefaultGanttWidth,
		ganttRows:  DefaultGanttRows,
	}
	for _, opt := range options {
		opt(d)
	}
	d.reset(nil)
	return d
}

// Init constructs the widgets against their fixed axes. Only the first call
// has any effect.
func (d *Dashboard) Init() {
	d.once.Do(func() {
		names := make([]string, len(DashboardAlgorithms))
		for i, a := range DashboardAlgorithms {
			names[i] = chartLabels[a]
		}

		radar := charts.NewRadar()
		indicators := make([]*opts.Indicator, len(radarIndicators))
		for i, name := range radarIndicators {
			indicators[i] = &opts.Indicator{Name: name}
		}
		radar.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: "Performance Comparison"}),
			charts.WithRadarComponentOpts(opts.RadarComponent{Indicator: indicators}),
		)
		for _, name := range names {
			radar.AddSeries(name, []opts.RadarData{{Name: name, Value: make([]float64, len(radarIndicators))}})
		}

		axis := make([]int, FPSSamples)
		for i := range axis {
			axis[i] = i
		}
		fps := charts.NewLine()
		fps.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: "Frame Rate"}),
			charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 60}),
		)
		fps.SetXAxis(axis).AddSeries("FPS", make([]opts.LineData, FPSSamples))

		waiting := charts.NewBar()
		waiting.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Average Waiting Time (ms)"}))
		waiting.SetXAxis(names).AddSeries("Average Waiting Time (ms)", make([]opts.BarData, len(names)))

		throughput := charts.NewPie()
		throughput.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Throughput"}))
		throughput.AddSeries("Throughput", pieData(names, make([]float64, len(names))),
			charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "75%"}}),
		)

		d.mu.Lock()
		d.set = ChartSet{Radar: radar, FPS: fps, Waiting: waiting, Throughput: throughput}
		d.page = components.NewPage()
		d.page.AddCharts(radar, fps, waiting, throughput)
		d.mu.Unlock()
	})
}

// Update implements DashboardRenderer. A nil snapshot renders as zeros.
func (d *Dashboard) Update(m *MetricsSnapshot) {
	d.Init()

	var comparison Comparison
	var history []float64
	if m != nil {
		comparison = m.Comparison
		history = m.FPSHistory
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for i, algo := range DashboardAlgorithms {
		stats, _ := comparison.Get(algo)
		d.set.Radar.MultiSeries[i].Data = []opts.RadarData{{
			Name:  chartLabels[algo],
			Value: []float64{stats.WaitingTime, stats.TurnaroundTime, stats.ResponseTime, stats.Throughput},
		}}
	}

	d.set.FPS.MultiSeries[0].Data = fpsData(history)

	bars := make([]opts.BarData, len(DashboardAlgorithms))
	thr := make([]float64, len(DashboardAlgorithms))
	names := make([]string, len(DashboardAlgorithms))
	for i, algo := range DashboardAlgorithms {
		stats, _ := comparison.Get(algo)
		bars[i] = opts.BarData{Value: stats.WaitingTime * 1000}
		thr[i] = stats.Throughput
		names[i] = chartLabels[algo]
	}
	d.set.Waiting.MultiSeries[0].Data = bars
	d.set.Throughput.MultiSeries[0].Data = pieData(names, thr)

	d.reset(m)
	d.updates++
}

// reset rebuilds the table, tiles and Gantt layout. Caller holds d.mu or
// owns d exclusively.
func (d *Dashboard) reset(m *MetricsSnapshot) {
	d.rows = d.rows[:0]
	var comparison Comparison
	var stats map[string]AlgorithmStats
	if m != nil {
		comparison, stats = m.Comparison, m.AlgorithmStats
	}
	for _, algo := range DashboardAlgorithms {
		c, _ := comparison.Get(algo)
		d.rows = append(d.rows, TableRow{
			Algorithm:  algo,
			Waiting:    fmt.Sprintf("%.2fms", c.WaitingTime*1000),
			Turnaround: fmt.Sprintf("%.2fms", c.TurnaroundTime*1000),
			Response:   fmt.Sprintf("%.2fms", c.ResponseTime*1000),
			Throughput: fmt.Sprintf("%.2f/s", c.Throughput),
			Processes:  stats[algo].ProcessCount,
		})
	}

	d.summary = Summary{AverageFPS: "0.0", BestAlgorithm: NoAlgorithm}
	var gantt []GanttEntry
	if m != nil {
		d.summary = Summary{
			TotalProcesses:  m.TotalProcesses,
			ContextSwitches: m.ContextSwitches,
			AverageFPS:      fmt.Sprintf("%.1f", m.FPSStats.Average),
			BestAlgorithm:   BestAlgorithm(m.Comparison).Display,
		}
		gantt = m.GanttData
	}
	d.gantt = LayoutGantt(gantt, d.ganttWidth, d.ganttRows)
}

// Charts returns the widget set, building it if needed.
func (d *Dashboard) Charts() ChartSet {
	d.Init()
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.set
}

// Rows returns a copy of the current table rows.
func (d *Dashboard) Rows() []TableRow {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]TableRow(nil), d.rows...)
}

// Summary returns the headline tiles.
func (d *Dashboard) Summary() Summary {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.summary
}

// Gantt returns the current Gantt layout.
func (d *Dashboard) Gantt() GanttLayout {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.gantt
}

// Updates reports how many snapshots have been applied.
func (d *Dashboard) Updates() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.updates
}

// RenderCharts writes the chart page.
func (d *Dashboard) RenderCharts(w io.Writer) error {
	d.Init()
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.page.Render(w); err != nil {
		return fmt.Errorf("render charts: %w", err)
	}
	return nil
}

// Render writes the dashboard page: tiles, results table, Gantt view and
// the chart page embedded from chartsURL.
func (d *Dashboard) Render(w io.Writer, chartsURL string) error {
	d.mu.RLock()
	data := dashboardView{
		Refresh:   d.refresh,
		Summary:   d.summary,
		Rows:      append([]TableRow(nil), d.rows...),
		Gantt:     d.gantt,
		ChartsURL: chartsURL,
	}
	d.mu.RUnlock()

	if err := dashboardTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

func fpsData(history []float64) []opts.LineData {
	if len(history) > FPSSamples {
		history = history[len(history)-FPSSamples:]
	}
	data := make([]opts.LineData, FPSSamples)
	for i := range data {
		var v float64
		if i < len(history) {
			v = history[i]
		}
		data[i] = opts.LineData{Value: v}
	}
	return data
}

func pieData(names []string, values []float64) []opts.PieData {
	data := make([]opts.PieData, len(names))
	for i, name := range names {
		data[i] = opts.PieData{Name: name, Value: values[i]}
	}
	return data
}

type dashboardView struct {
	Refresh   int
	Summary   Summary
	Rows      []TableRow
	Gantt     GanttLayout
	ChartsURL string
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Scheduler Analytics</title>
    {{if .Refresh}}<meta http-equiv="refresh" content="{{.Refresh}}">{{end}}
    <style>
        body { font-family: system-ui; background: #111827; color: #e5e7eb; padding: 2rem; }
        .tiles { display: flex; gap: 1rem; }
        .tile { background: #1f2937; padding: 1rem; border-radius: 8px; min-width: 10rem; }
        table { border-collapse: collapse; margin: 1rem 0; }
        td, th { padding: 0.5rem; border-bottom: 1px solid #374151; text-align: left; }
        .gantt { position: relative; height: 16rem; background: #374151; border-radius: 8px; }
        .bar { position: absolute; font-size: 0.75rem; color: #fff; padding: 0.25rem 0.5rem; border-radius: 4px; white-space: nowrap; overflow: hidden; }
        .placeholder { height: 16rem; display: flex; align-items: center; justify-content: center; color: #9ca3af; background: #374151; border-radius: 8px; }
        iframe { border: 0; width: 100%; height: 1800px; }
    </style>
</head>
<body>
    <div class="tiles">
        <div class="tile">Total Processes<br><strong id="totalProcesses">{{.Summary.TotalProcesses}}</strong></div>
        <div class="tile">Context Switches<br><strong id="contextSwitches">{{.Summary.ContextSwitches}}</strong></div>
        <div class="tile">Average FPS<br><strong id="avgFPS">{{.Summary.AverageFPS}}</strong></div>
        <div class="tile">Best Algorithm<br><strong id="bestAlgorithm">{{.Summary.BestAlgorithm}}</strong></div>
    </div>
    <table>
        <thead><tr><th>Algorithm</th><th>Waiting</th><th>Turnaround</th><th>Response</th><th>Throughput</th><th>Processes</th></tr></thead>
        <tbody id="statsTable">
        {{range .Rows}}<tr><td>{{.Algorithm}}</td><td>{{.Waiting}}</td><td>{{.Turnaround}}</td><td>{{.Response}}</td><td>{{.Throughput}}</td><td>{{.Processes}}</td></tr>
        {{end}}</tbody>
    </table>
    {{if .Gantt.Empty}}
    <div id="ganttChart" class="placeholder">{{.Gantt.Placeholder}}</div>
    {{else}}
    <div id="ganttChart" class="gantt" style="width: {{.Gantt.Width}}px;">
        {{range .Gantt.Bars}}<div class="bar" style="left: {{.Left}}px; top: {{.Top}}px; width: {{.Width}}px; background-color: {{.Color}};">{{.Label}}</div>
        {{end}}
    </div>
    {{end}}
    <iframe src="{{.ChartsURL}}"></iframe>
</body>
</html>`))

var _ DashboardRenderer = (*Dashboard)(nil)
