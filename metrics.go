package schedviewer

import (
	"math"
	"strings"
)

// Algorithm labels as named by the simulation.
const (
	AlgorithmFCFS        = "First Come First Serve"
	AlgorithmRoundRobin  = "Round Robin"
	AlgorithmSJF         = "Shortest Job First"
	AlgorithmPriority    = "Priority (Non-Preemptive)"
	AlgorithmPriorityPre = "Priority (Preemptive)"
)

// NoAlgorithm is reported when no algorithm qualifies as best.
const NoAlgorithm = "None"

// Algorithms is the selectable list, addressed by index in select_algorithm.
var Algorithms = []string{
	AlgorithmFCFS,
	AlgorithmRoundRobin,
	AlgorithmSJF,
	AlgorithmPriority,
	AlgorithmPriorityPre,
}

// DashboardAlgorithms is the canonical order of chart series and table rows.
var DashboardAlgorithms = []string{
	AlgorithmFCFS,
	AlgorithmRoundRobin,
	AlgorithmPriority,
	AlgorithmPriorityPre,
}

// AlgorithmIndex returns the dropdown index of name, or -1.
func AlgorithmIndex(name string) int {
	for i, a := range Algorithms {
		if a == name {
			return i
		}
	}
	return -1
}

// ShortName returns the first whitespace-delimited token of label.
func ShortName(label string) string {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return label
	}
	return fields[0]
}

// Best is the outcome of best-algorithm selection.
type Best struct {
	Label       string  `json:"label"`
	Display     string  `json:"display"`
	WaitingTime float64 `json:"waiting_time"`
}

// Found reports whether any algorithm qualified.
func (b Best) Found() bool {
	return b.Label != NoAlgorithm
}

// BestAlgorithm picks the entry with the strictly smallest positive waiting
// time. Ties keep the entry seen first.
func BestAlgorithm(c Comparison) Best {
	best := Best{Label: NoAlgorithm, Display: NoAlgorithm}
	bestTime := math.Inf(1)
	for _, e := range c {
		wt := e.Stats.WaitingTime
		if wt > 0 && wt < bestTime {
			bestTime = wt
			best = Best{Label: e.Label, Display: ShortName(e.Label), WaitingTime: wt}
		}
	}
	return best
}

// Efficiency rates current against the slowest algorithm in perf:
// (max - current) / max * 100, clamped to [0, 100], and 100 when max is not positive.
// ok is false when current has no entry.
func Efficiency(perf map[string]PerfStats, current string) (float64, bool) {
	stats, ok := perf[current]
	if !ok {
		return 0, false
	}

	maxWait := math.Inf(-1)
	for _, s := range perf {
		if s.AvgWaitingTime > maxWait {
			maxWait = s.AvgWaitingTime
		}
	}
	if maxWait <= 0 {
		return 100, true
	}

	eff := (maxWait - stats.AvgWaitingTime) / maxWait * 100
	return math.Max(0, math.Min(100, eff)), true
}

// Derived bundles every value computed client-side from the current slots.
type Derived struct {
	Best         Best        `json:"best"`
	Efficiency   float64     `json:"efficiency"`
	EfficiencyOK bool        `json:"efficiency_ok"`
	Gantt        GanttLayout `json:"gantt"`
	Overlay      Overlay     `json:"overlay"`
}

// Derive recomputes all derived metrics with the default Gantt geometry.
// Either snapshot may be nil.
func Derive(game *GameSnapshot, metrics *MetricsSnapshot) Derived {
	return DeriveGantt(game, metrics, DefaultGanttWidth, DefaultGanttRows)
}

// DeriveGantt is Derive with the Gantt laid out width pixels wide over
// rowCapacity rows.
func DeriveGantt(game *GameSnapshot, metrics *MetricsSnapshot, width float64, rowCapacity int) Derived {
	d := Derived{
		Best:    BestAlgorithm(nil),
		Gantt:   LayoutGantt(nil, width, rowCapacity),
		Overlay: OverlayPlaying,
	}
	if game != nil {
		d.Efficiency, d.EfficiencyOK = Efficiency(game.PerformanceData, game.Scheduler.Name)
		// A conflicting overlay is reported by the scene; here it only marks the frame.
		d.Overlay, _ = DeriveOverlay(game.Game)
	}
	if metrics != nil {
		d.Best = BestAlgorithm(metrics.Comparison)
		d.Gantt = LayoutGantt(metrics.GanttData, width, rowCapacity)
	}
	return d
}
