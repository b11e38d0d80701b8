package schedviewer

import (
	"fmt"

	sprites "github.com/nimsforest/nimsforestsprites"
)

// spriteGridColumns is the number of algorithm lands per sprite row.
const spriteGridColumns = 3

// maxSpriteRecords caps how many completed processes are drawn.
const maxSpriteRecords = 8

// SpritesStateAdapter presents a game snapshot as a sprites.State: every
// scheduling algorithm is a land, the active one is the mana land and holds
// the ready queue and recently completed processes.
type SpritesStateAdapter struct {
	snap *GameSnapshot
}

// NewSpritesStateAdapter creates an adapter for sprites rendering.
func NewSpritesStateAdapter(snap *GameSnapshot) *SpritesStateAdapter {
	return &SpritesStateAdapter{snap: snap}
}

func landID(index int) string {
	return fmt.Sprintf("algo-%d", index)
}

func landPosition(i int) (float64, float64) {
	return float64(i % spriteGridColumns), float64(i / spriteGridColumns)
}

// Lands implements sprites.State.
func (a *SpritesStateAdapter) Lands() []sprites.Land {
	if a.snap == nil {
		return nil
	}

	result := make([]sprites.Land, len(Algorithms))
	for i, algo := range Algorithms {
		landType := "normal"
		if algo == a.snap.Scheduler.Name {
			landType = "mana"
		}
		x, y := landPosition(i)
		result[i] = sprites.Land{
			ID:   landID(i),
			Name: algo,
			X:    x,
			Y:    y,
			Type: landType,
		}
	}
	return result
}

// Processes implements sprites.State. Nothing is placed when the active
// algorithm is unknown.
func (a *SpritesStateAdapter) Processes() []sprites.Process {
	if a.snap == nil {
		return nil
	}
	index := AlgorithmIndex(a.snap.Scheduler.Name)
	if index < 0 {
		return nil
	}
	land := landID(index)
	x, y := landPosition(index)

	var result []sprites.Process
	for _, proc := range a.snap.Processes {
		kind := "tree"
		if proc.EntityType == EntityPlayer {
			kind = "nim"
		}
		result = append(result, sprites.Process{
			ID:       fmt.Sprintf("pid-%d", proc.PID),
			LandID:   land,
			Type:     kind,
			Progress: processProgress(proc),
			X:        x,
			Y:        y,
		})
	}

	records := a.snap.ProcessTable
	if len(records) > maxSpriteRecords {
		records = records[len(records)-maxSpriteRecords:]
	}
	for _, rec := range records {
		result = append(result, sprites.Process{
			ID:       fmt.Sprintf("done-%d", rec.PID),
			LandID:   land,
			Type:     "treehouse",
			Progress: 1.0,
			X:        x,
			Y:        y,
		})
	}
	return result
}

// processProgress returns the completed fraction of a queued process.
func processProgress(p ProcessView) float64 {
	if p.BurstTime <= 0 {
		return 0
	}
	v := (p.BurstTime - p.RemainingTime) / p.BurstTime
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Ensure SpritesStateAdapter implements sprites.State
var _ sprites.State = (*SpritesStateAdapter)(nil)
