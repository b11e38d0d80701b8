package schedviewer

import (
	"fmt"
	"image/color"
	"math"
	"sync"
)

// Scene geometry, in simulation world units (one unit per pixel).
const (
	SceneWidth   = 800
	SceneHeight  = 400
	TrackTop     = 50.0
	TrackBottom  = 350.0
	MaxLives     = 3
	KeysRequired = 3
)

// Priority labels drawn under entities. They are presentation constants and
// are not read from the snapshot.
const (
	LabelPlayerPriority = "P1"
	LabelBossPriority   = "P2"
	LabelEnemyPriority  = "P3"
)

// Finish line labels.
const (
	LabelFinish      = "FINISH"
	LabelUnlockLocks = "UNLOCK ALL LOCKS"
	LabelConnecting  = "Connecting..."
	LabelYouWin      = "YOU WIN!"
	LabelYouLose     = "YOU LOSE!"
)

// SceneRenderer draws a game snapshot onto a canvas.
type SceneRenderer interface {
	DrawFrame(c Canvas, snap *GameSnapshot) error
}

// Scene renders the arcade view. It keeps only the last snapshot it drew so
// Overlay can report what is on screen; the overlay itself is recomputed
// from that snapshot on every call.
type Scene struct {
	mu   sync.Mutex
	last *GameSnapshot
}

// NewScene creates a Scene.
func NewScene() *Scene {
	return &Scene{}
}

// Overlay returns the overlay of the last drawn snapshot.
func (s *Scene) Overlay() Overlay {
	s.mu.Lock()
	last := s.last
	s.mu.Unlock()
	if last == nil {
		return OverlayPlaying
	}
	o, _ := DeriveOverlay(last.Game)
	return o
}

// DrawFrame implements SceneRenderer. Later draws occlude earlier ones.
// A snapshot with both won and show_game_over set is drawn without an
// overlay and reported as ErrOverlayConflict.
func (s *Scene) DrawFrame(c Canvas, snap *GameSnapshot) error {
	s.mu.Lock()
	s.last = snap
	s.mu.Unlock()

	if snap == nil {
		c.Clear(ColorBackground)
		c.Text(320, 200, LabelConnecting, TextStyle{Color: ColorGray, Size: 20})
		return nil
	}

	c.Clear(ColorBackground)
	drawTrack(c, snap)
	drawBanner(c, snap)

	drawEntity(c, snap.Player, 0)
	for i, e := range snap.Enemies {
		if e.IsBoss {
			drawBoss(c, e)
		} else {
			drawEntity(c, e, i+1)
		}
	}

	drawPickups(c, snap.Powerups, 18, ColorGold, "*", powerupColors)
	drawPickups(c, snap.Keys, 15, ColorBlack, "K", keyColors)
	drawPickups(c, snap.Locks, 20, ColorBlack, "L", lockColors)

	drawHUD(c, snap)

	overlay, err := DeriveOverlay(snap.Game)
	if err != nil {
		return fmt.Errorf("draw frame seq=%d: %w", snap.Seq, err)
	}
	s.DrawOverlay(c, overlay, snap)
	return nil
}

// DrawOverlay paints the full-screen WON or LOST overlay. PLAYING draws nothing.
func (s *Scene) DrawOverlay(c Canvas, o Overlay, snap *GameSnapshot) {
	if o != OverlayWon && o != OverlayLost {
		return
	}
	w, h := c.Size()
	cx := float64(w) / 2
	c.FillRect(0, 0, float64(w), float64(h), ColorShade)

	switch o {
	case OverlayWon:
		c.Text(cx, 180, LabelYouWin, TextStyle{Color: ColorGreen, Size: 36, Align: AlignCenter, Bold: true})
		c.Text(cx, 220, fmt.Sprintf("Time: %.1fs", snap.Game.Time), TextStyle{Color: ColorWhite, Size: 18, Align: AlignCenter})
		c.Text(cx, 250, "Algorithm: "+snap.Scheduler.Name, TextStyle{Color: ColorWhite, Size: 18, Align: AlignCenter})
	case OverlayLost:
		c.Text(cx, 180, LabelYouLose, TextStyle{Color: ColorRed, Size: 36, Align: AlignCenter, Bold: true})
		c.Text(cx, 220, "All lives lost. Restarting in...", TextStyle{Color: ColorWhite, Size: 18, Align: AlignCenter})
		countdown := fmt.Sprintf("%d", int(math.Ceil(snap.Game.GameOverTimer)))
		c.Text(cx, 250, countdown, TextStyle{Color: ColorGold, Size: 24, Align: AlignCenter, Bold: true})
	}
}

// FinishUnlocked reports whether every lock has been cleared.
func FinishUnlocked(snap *GameSnapshot) bool {
	return snap != nil && len(snap.Locks) == 0
}

func drawTrack(c Canvas, snap *GameSnapshot) {
	g := snap.Game
	c.Line(g.StartLineX, TrackTop, g.StartLineX, TrackBottom, 4, ColorGreen)
	c.Text(g.StartLineX-15, 370, "START", TextStyle{Color: ColorGreen, Size: 14})

	finishColor, label := ColorGray, LabelUnlockLocks
	if FinishUnlocked(snap) {
		finishColor, label = ColorGreen, LabelFinish
	}
	c.Line(g.FinishLineX, TrackTop, g.FinishLineX, TrackBottom, 4, finishColor)
	c.Text(g.FinishLineX-35, 370, label, TextStyle{Color: finishColor, Size: 14})
}

func drawBanner(c Canvas, snap *GameSnapshot) {
	banner := fmt.Sprintf("LEVEL %d/%d - CPU SCHEDULER: %s", snap.Game.Level, snap.Game.MaxLevel, snap.Scheduler.Name)
	c.Text(10, 25, banner, TextStyle{Color: ColorPurple, Size: 12})

	if snap.Game.BossLevel && snap.Game.BossRequiredAlgorithm != "" {
		msg := fmt.Sprintf("BOSS LEVEL! Use %s to defeat boss", snap.Game.BossRequiredAlgorithm)
		c.Text(10, 45, msg, TextStyle{Color: ColorBossRed, Size: 14})
	}
}

// drawEntity draws the player (index 0) or the index-th ordinary enemy.
func drawEntity(c Canvas, e Entity, index int) {
	isPlayer := index == 0
	body, glyph, priority := color.Color(ColorRed), "x", LabelEnemyPriority
	if isPlayer {
		body, glyph, priority = ColorGreen, ":)", LabelPlayerPriority
	} else if index%3 == 0 {
		glyph = "X"
	}

	c.FillCircle(e.X, e.Y, 14, body)
	c.Text(e.X, e.Y+4, glyph, TextStyle{Color: ColorBlack, Size: 30, Align: AlignCenter, Bold: true})

	if e.Blocked {
		c.StrokeCircle(e.X, e.Y, 25, 4, ColorAmber)
		c.Text(e.X, e.Y-30, StatusWaiting, TextStyle{Color: ColorAmber, Size: 10, Align: AlignCenter})
	} else {
		c.StrokeCircle(e.X, e.Y, 22, 3, ColorGreen)
		c.Text(e.X, e.Y-30, StatusRunning, TextStyle{Color: ColorGreen, Size: 10, Align: AlignCenter})
	}

	c.Text(e.X, e.Y+35, priority, TextStyle{Color: body, Size: 10, Align: AlignCenter})
}

func drawBoss(c Canvas, e Entity) {
	c.FillCircle(e.X, e.Y, 24, ColorBossRed)
	c.Text(e.X, e.Y+5, ">:(", TextStyle{Color: ColorBlack, Size: 50, Align: AlignCenter, Bold: true})

	if e.Blocked {
		c.StrokeCircle(e.X, e.Y, 35, 6, ColorAmber)
		c.Text(e.X, e.Y-45, "BOSS WAITING", TextStyle{Color: ColorAmber, Size: 12, Align: AlignCenter})
	} else {
		c.StrokeCircle(e.X, e.Y, 32, 5, ColorBossRed)
		c.Text(e.X, e.Y-45, "BOSS ACTIVE", TextStyle{Color: ColorBossRed, Size: 12, Align: AlignCenter})
	}

	c.Text(e.X, e.Y+45, LabelBossPriority, TextStyle{Color: ColorBossRed, Size: 10, Align: AlignCenter})
}

func drawPickups(c Canvas, items []Pickup, radius float64, bg color.Color, glyph string, palette []color.Color) {
	for i, p := range items {
		c.FillCircle(p.X, p.Y, radius, bg)
		c.Text(p.X, p.Y+5, glyph, TextStyle{Color: palette[i%len(palette)], Size: radius, Align: AlignCenter, Bold: true})
	}
}

func drawHUD(c Canvas, snap *GameSnapshot) {
	for i := 0; i < MaxLives; i++ {
		heart := color.Color(ColorRed)
		if i >= snap.Game.Lives {
			heart = ColorGray
		}
		c.FillCircle(20+float64(i)*30, 44, 8, heart)
	}

	keys := fmt.Sprintf("Keys: %d/%d", snap.Game.KeysCollected, KeysRequired)
	c.Text(10, 70, keys, TextStyle{Color: ColorCyan, Size: 20})

	if snap.Player.HasPowerup {
		c.Text(10, 90, fmt.Sprintf("POWERUP: %.1fs", snap.Game.PowerupTime), TextStyle{Color: ColorGold, Size: 20})
	}
}

var _ SceneRenderer = (*Scene)(nil)
