package schedviewer

import (
	"encoding/json"
	"errors"
)

// ErrOverlayConflict is returned when a snapshot claims both won and game over.
var ErrOverlayConflict = errors.New("snapshot sets both won and show_game_over")

// Overlay is the full-screen state shown on top of the scene.
// It is derived from the latest snapshot on every frame and never stored.
type Overlay int

const (
	OverlayPlaying Overlay = iota
	OverlayWon
	OverlayLost
	OverlayConflict
)

func (o Overlay) String() string {
	switch o {
	case OverlayPlaying:
		return "PLAYING"
	case OverlayWon:
		return "WON"
	case OverlayLost:
		return "LOST"
	case OverlayConflict:
		return "CONFLICT"
	}
	return "UNKNOWN"
}

// MarshalJSON encodes the overlay by name.
func (o Overlay) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// DeriveOverlay maps snapshot flags to an overlay. Last snapshot wins; there
// is no timer or latch between frames.
func DeriveOverlay(g GameInfo) (Overlay, error) {
	switch {
	case g.Won && g.ShowGameOver:
		return OverlayConflict, ErrOverlayConflict
	case g.Won:
		return OverlayWon, nil
	case g.ShowGameOver:
		return OverlayLost, nil
	}
	return OverlayPlaying, nil
}
