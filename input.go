package schedviewer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAlgorithm is returned for an out of range algorithm index.
var ErrInvalidAlgorithm = errors.New("invalid algorithm index")

// Key is a keyboard key the dispatcher understands.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyR
)

var keyNames = map[string]Key{
	"w":          KeyW,
	"a":          KeyA,
	"s":          KeyS,
	"d":          KeyD,
	"arrowup":    KeyUp,
	"arrowdown":  KeyDown,
	"arrowleft":  KeyLeft,
	"arrowright": KeyRight,
	" ":          KeySpace,
	"space":      KeySpace,
	"r":          KeyR,
}

// ParseKey maps a DOM-style key name ("ArrowUp", "w", " ") to a Key.
func ParseKey(name string) Key {
	if name == " " {
		return KeySpace
	}
	return keyNames[strings.ToLower(strings.TrimSpace(name))]
}

// direction returns the movement for k, if any.
func (k Key) direction() (dx, dy int, ok bool) {
	switch k {
	case KeyW, KeyUp:
		return 0, -1, true
	case KeyS, KeyDown:
		return 0, 1, true
	case KeyA, KeyLeft:
		return -1, 0, true
	case KeyD, KeyRight:
		return 1, 0, true
	}
	return 0, 0, false
}

// Dispatcher turns keyboard and control events into outbound intents.
// It never reads the Store.
type Dispatcher struct {
	out    Sender
	logger *Logger
}

// NewDispatcher creates a Dispatcher sending through out.
func NewDispatcher(out Sender) *Dispatcher {
	return &Dispatcher{out: out, logger: GetLogger()}
}

// KeyDown handles one physical key press and reports whether the host
// should suppress the key's default action.
func (d *Dispatcher) KeyDown(k Key) bool {
	if dx, dy, ok := k.direction(); ok {
		d.emit(PlayerMove(dx, dy))
		return false
	}
	switch k {
	case KeySpace:
		d.emit(PauseGame())
		return true
	case KeyR:
		d.emit(ResetGame())
	}
	return false
}

// Start sends start_game.
func (d *Dispatcher) Start() { d.emit(StartGame()) }

// Pause sends pause_game.
func (d *Dispatcher) Pause() { d.emit(PauseGame()) }

// Reset sends reset_game.
func (d *Dispatcher) Reset() { d.emit(ResetGame()) }

// Move sends player_move with each component clamped to -1..1.
func (d *Dispatcher) Move(dx, dy int) {
	d.emit(PlayerMove(clampUnit(dx), clampUnit(dy)))
}

// SelectAlgorithm sends select_algorithm for an index into Algorithms.
func (d *Dispatcher) SelectAlgorithm(index int) error {
	if index < 0 || index >= len(Algorithms) {
		return fmt.Errorf("%w: %d", ErrInvalidAlgorithm, index)
	}
	d.emit(SelectAlgorithm(index))
	return nil
}

func (d *Dispatcher) emit(in Intent) {
	if d.out == nil {
		return
	}
	if err := d.out.Send(in); err != nil {
		d.logger.Warnf("send %s: %v", in.Event, err)
	}
}

func clampUnit(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
