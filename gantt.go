package schedviewer

import "fmt"

// Gantt layout defaults.
const (
	DefaultGanttWidth = 800.0
	DefaultGanttRows  = 10
	GanttRowHeight    = 24.0
	GanttTopMargin    = 10.0
)

// GanttPlaceholder is shown instead of an empty chart.
const GanttPlaceholder = "No process execution data available"

// GanttBar is the geometry of one Gantt entry.
type GanttBar struct {
	Entry GanttEntry `json:"entry"`
	Left  float64    `json:"left"`
	Width float64    `json:"width"`
	Row   int        `json:"row"`
	Top   float64    `json:"top"`
	Label string     `json:"label"`
	Color string     `json:"color"`
}

// GanttLayout is the laid out chart, or a placeholder when there is no data.
type GanttLayout struct {
	MaxTime     float64    `json:"max_time"`
	Scale       float64    `json:"scale"`
	Width       float64    `json:"width"`
	Bars        []GanttBar `json:"bars"`
	Placeholder string     `json:"placeholder,omitempty"`
}

// Empty reports whether the placeholder should be shown.
func (g GanttLayout) Empty() bool {
	return len(g.Bars) == 0
}

// LayoutGantt scales entries to width. Rows wrap at rowCapacity, so entries
// past the capacity overlap earlier rows. A zero time span yields scale 0.
func LayoutGantt(entries []GanttEntry, width float64, rowCapacity int) GanttLayout {
	layout := GanttLayout{Width: width}
	if len(entries) == 0 {
		layout.Placeholder = GanttPlaceholder
		return layout
	}
	if rowCapacity < 1 {
		rowCapacity = 1
	}

	for _, e := range entries {
		if end := e.Start + e.Duration; end > layout.MaxTime {
			layout.MaxTime = end
		}
	}
	if layout.MaxTime > 0 {
		layout.Scale = width / layout.MaxTime
	}

	layout.Bars = make([]GanttBar, len(entries))
	for i, e := range entries {
		row := i % rowCapacity
		layout.Bars[i] = GanttBar{
			Entry: e,
			Left:  e.Start * layout.Scale,
			Width: e.Duration * layout.Scale,
			Row:   row,
			Top:   float64(row)*GanttRowHeight + GanttTopMargin,
			Label: fmt.Sprintf("P%d (%s)", e.PID, ShortName(e.Algorithm)),
			Color: entityColorHex(e.EntityType),
		}
	}
	return layout
}

func entityColorHex(entityType string) string {
	if entityType == EntityPlayer {
		return "#10B981"
	}
	return "#EF4444"
}
