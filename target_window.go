package schedviewer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var ebitenKeys = map[ebiten.Key]Key{
	ebiten.KeyW:          KeyW,
	ebiten.KeyA:          KeyA,
	ebiten.KeyS:          KeyS,
	ebiten.KeyD:          KeyD,
	ebiten.KeyArrowUp:    KeyUp,
	ebiten.KeyArrowDown:  KeyDown,
	ebiten.KeyArrowLeft:  KeyLeft,
	ebiten.KeyArrowRight: KeyRight,
	ebiten.KeySpace:      KeySpace,
	ebiten.KeyR:          KeyR,
}

// WindowTarget draws the scene in a desktop window and forwards keyboard
// input to a Dispatcher.
type WindowTarget struct {
	mu         sync.RWMutex
	frame      *Frame
	scene      *Scene
	dispatcher *Dispatcher
	title      string
	scale      float64
	keys       []ebiten.Key
	closed     bool
	logger     *Logger
	lastErr    error
}

// WindowOption configures a WindowTarget.
type WindowOption func(*WindowTarget)

// WithWindowTitle sets the window title.
func WithWindowTitle(title string) WindowOption {
	return func(t *WindowTarget) {
		t.title = title
	}
}

// WithWindowScale sets the window size as a multiple of the scene size.
func WithWindowScale(scale float64) WindowOption {
	return func(t *WindowTarget) {
		t.scale = scale
	}
}

// WithWindowDispatcher routes key presses to d.
func WithWindowDispatcher(d *Dispatcher) WindowOption {
	return func(t *WindowTarget) {
		t.dispatcher = d
	}
}

// NewWindowTarget creates a window target. The window opens on Run.
func NewWindowTarget(opts ...WindowOption) *WindowTarget {
	t := &WindowTarget{
		scene:  NewScene(),
		title:  "CPU Scheduler Game",
		scale:  1,
		logger: GetLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name implements Target.
func (t *WindowTarget) Name() string {
	return fmt.Sprintf("Window(%s)", t.title)
}

// Update implements Target.
func (t *WindowTarget) Update(ctx context.Context, frame *Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frame = frame
	return nil
}

// Close implements Target. The window exits on its next tick.
func (t *WindowTarget) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

// Run opens the window and blocks until it is closed or ctx is done. It
// must be called from the main goroutine.
func (t *WindowTarget) Run(ctx context.Context) error {
	ebiten.SetWindowSize(int(SceneWidth*t.scale), int(SceneHeight*t.scale))
	ebiten.SetWindowTitle(t.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	go func() {
		<-ctx.Done()
		t.Close()
	}()

	err := ebiten.RunGame(&windowGame{target: t})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// windowGame implements ebiten.Game.
type windowGame struct {
	target *WindowTarget
}

func (g *windowGame) Update() error {
	t := g.target
	t.mu.RLock()
	closed := t.closed
	t.mu.RUnlock()
	if closed {
		return ebiten.Termination
	}

	if t.dispatcher == nil {
		return nil
	}

	t.keys = inpututil.AppendPressedKeys(t.keys[:0])
	for _, k := range newKeyDowns(t.keys, inpututil.KeyPressDuration) {
		t.dispatcher.KeyDown(k)
	}
	return nil
}

// newKeyDowns returns the mapped keys that went down this tick. A held key
// is reported once, on its first tick.
func newKeyDowns(pressed []ebiten.Key, duration func(ebiten.Key) int) []Key {
	var keys []Key
	for _, ek := range pressed {
		k, ok := ebitenKeys[ek]
		if !ok || duration(ek) != 1 {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	t := g.target
	t.mu.RLock()
	var game *GameSnapshot
	if t.frame != nil {
		game = t.frame.Game
	}
	t.mu.RUnlock()

	err := t.scene.DrawFrame(NewEbitenCanvas(screen), game)
	if err != nil && t.lastErr == nil {
		t.logger.Warnf("window: %v", err)
	}
	t.lastErr = err
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return SceneWidth, SceneHeight
}
