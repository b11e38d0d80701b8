package schedviewer

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ComparisonEntry pairs an algorithm label with its stats.
type ComparisonEntry struct {
	Label string
	Stats ComparisonStats
}

// Comparison is a JSON object that keeps the key order it was received in.
type Comparison []ComparisonEntry

// Get returns the stats stored under label.
func (c Comparison) Get(label string) (ComparisonStats, bool) {
	for _, e := range c {
		if e.Label == label {
			return e.Stats, true
		}
	}
	return ComparisonStats{}, false
}

// UnmarshalJSON implements json.Unmarshaler. Duplicate keys keep the first
// position and the last value, like a JavaScript object literal.
func (c *Comparison) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("comparison: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("comparison: expected object, got %v", tok)
	}

	result := Comparison{}
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("comparison key: %w", err)
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("comparison: unexpected key %v", tok)
		}

		var stats ComparisonStats
		if err := dec.Decode(&stats); err != nil {
			return fmt.Errorf("comparison %q: %w", label, err)
		}

		if i, seen := index[label]; seen {
			result[i].Stats = stats
			continue
		}
		index[label] = len(result)
		result = append(result, ComparisonEntry{Label: label, Stats: stats})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("comparison: %w", err)
	}

	*c = result
	return nil
}

// MarshalJSON implements json.Marshaler, preserving entry order.
func (c Comparison) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Stats)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeGameSnapshot parses a game_update payload.
func DecodeGameSnapshot(data []byte) (*GameSnapshot, error) {
	var snap GameSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode game snapshot: %w", err)
	}
	return &snap, nil
}

// DecodeMetricsSnapshot parses a metrics_update payload.
func DecodeMetricsSnapshot(data []byte) (*MetricsSnapshot, error) {
	var snap MetricsSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode metrics snapshot: %w", err)
	}
	return &snap, nil
}

// GameJSON is the /api/game document.
type GameJSON struct {
	Seq      uint64        `json:"seq"`
	Snapshot *GameSnapshot `json:"snapshot"`
	Panel    Panel         `json:"panel"`
	Overlay  string        `json:"overlay"`
}

// MetricsJSON is the /api/metrics document.
type MetricsJSON struct {
	Seq           uint64           `json:"seq"`
	Snapshot      *MetricsSnapshot `json:"snapshot"`
	BestAlgorithm string           `json:"best_algorithm"`
	Gantt         GanttLayout      `json:"gantt"`
}

// FrameToGameJSON converts a Frame to the game document.
func FrameToGameJSON(f *Frame) GameJSON {
	if f == nil || f.Game == nil {
		return GameJSON{Panel: BuildPanel(nil), Overlay: OverlayPlaying.String()}
	}
	return GameJSON{
		Seq:      f.Game.Seq,
		Snapshot: f.Game,
		Panel:    BuildPanel(f.Game),
		Overlay:  f.Derived.Overlay.String(),
	}
}

// FrameToMetricsJSON converts a Frame to the metrics document.
func FrameToMetricsJSON(f *Frame) MetricsJSON {
	if f == nil || f.Metrics == nil {
		return MetricsJSON{BestAlgorithm: NoAlgorithm, Gantt: LayoutGantt(nil, DefaultGanttWidth, DefaultGanttRows)}
	}
	return MetricsJSON{
		Seq:           f.Metrics.Seq,
		Snapshot:      f.Metrics,
		BestAlgorithm: f.Derived.Best.Display,
		Gantt:         f.Derived.Gantt,
	}
}
