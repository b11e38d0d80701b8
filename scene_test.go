package schedviewer

import (
	"errors"
	"testing"
)

func sceneSnapshot() *GameSnapshot {
	return &GameSnapshot{
		Game: GameInfo{
			Time:          8.3,
			Level:         2,
			MaxLevel:      3,
			Lives:         2,
			KeysCollected: 1,
			PowerupTime:   3.46,
			StartLineX:    50,
			FinishLineX:   750,
		},
		Scheduler: SchedulerInfo{Name: AlgorithmFCFS},
		Player:    Entity{X: 100, Y: 200, EntityType: EntityPlayer, HasPowerup: true},
		Enemies: []Entity{
			{X: 300, Y: 120, EntityType: EntityEnemy, Blocked: true},
			{X: 400, Y: 220, EntityType: EntityEnemy, IsBoss: true},
		},
		Powerups: []Pickup{{X: 600, Y: 100}},
		Keys:     []Pickup{{X: 500, Y: 300}},
		Locks:    []Pickup{{X: 750, Y: 200}},
	}
}

func TestDeriveOverlay(t *testing.T) {
	tests := []struct {
		name    string
		info    GameInfo
		want    Overlay
		wantErr error
	}{
		{"playing", GameInfo{}, OverlayPlaying, nil},
		{"won", GameInfo{Won: true}, OverlayWon, nil},
		{"lost", GameInfo{ShowGameOver: true}, OverlayLost, nil},
		{"conflict", GameInfo{Won: true, ShowGameOver: true}, OverlayConflict, ErrOverlayConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveOverlay(tt.info)
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestScene_Connecting(t *testing.T) {
	c := NewRecordingCanvas(SceneWidth, SceneHeight)
	if err := NewScene().DrawFrame(c, nil); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if len(c.Ops) != 2 || c.Ops[0].Kind != OpClear {
		t.Fatalf("expected clear and one text, got %+v", c.Ops)
	}
	op, ok := c.FindText(LabelConnecting)
	if !ok || op.X != 320 || op.Y != 200 {
		t.Errorf("expected %q at (320, 200), got %+v", LabelConnecting, op)
	}
}

func TestScene_DrawOrder(t *testing.T) {
	c := NewRecordingCanvas(SceneWidth, SceneHeight)
	if err := NewScene().DrawFrame(c, sceneSnapshot()); err != nil {
		t.Fatalf("draw: %v", err)
	}

	order := []string{
		"START",
		LabelUnlockLocks,
		"LEVEL 2/3 - CPU SCHEDULER: " + AlgorithmFCFS,
		LabelPlayerPriority,
		LabelEnemyPriority,
		"BOSS ACTIVE",
		"*",
		"K",
		"L",
		"Keys: 1/3",
		"POWERUP: 3.5s",
	}
	last := -1
	for _, s := range order {
		i := c.IndexOfText(s)
		if i < 0 {
			t.Fatalf("missing text %q in %v", s, c.Texts())
		}
		if i <= last {
			t.Errorf("text %q drawn out of order", s)
		}
		last = i
	}
	if c.Ops[0].Kind != OpClear {
		t.Errorf("expected frame to start with a clear, got %s", c.Ops[0].Kind)
	}

	// Lives row sits between the last lock and the keys counter.
	lastLock, keysCounter := c.IndexOfText("L"), c.IndexOfText("Keys: 1/3")
	hearts := 0
	for i, op := range c.Ops {
		if op.Kind != OpFillCircle || op.Y != 44 || op.R != 8 {
			continue
		}
		hearts++
		if i <= lastLock || i >= keysCounter {
			t.Errorf("heart at op %d outside (%d, %d)", i, lastLock, keysCounter)
		}
	}
	if hearts != MaxLives {
		t.Errorf("expected %d hearts, got %d", MaxLives, hearts)
	}
	if _, ok := c.FindText(LabelYouWin); ok {
		t.Error("no overlay expected while playing")
	}
}

func TestScene_EntityRings(t *testing.T) {
	c := NewRecordingCanvas(SceneWidth, SceneHeight)
	if err := NewScene().DrawFrame(c, sceneSnapshot()); err != nil {
		t.Fatalf("draw: %v", err)
	}

	rings := map[float64]Op{}
	for _, op := range c.Ops {
		if op.Kind == OpStrokeCircle {
			rings[op.X] = op
		}
	}
	if r := rings[100]; r.R != 22 || r.Width != 3 || r.Color != ColorGreen {
		t.Errorf("player should have running ring, got %+v", r)
	}
	if r := rings[300]; r.R != 25 || r.Width != 4 || r.Color != ColorAmber {
		t.Errorf("blocked enemy should have waiting ring, got %+v", r)
	}
	if r := rings[400]; r.R != 32 || r.Width != 5 || r.Color != ColorBossRed {
		t.Errorf("active boss should have red ring, got %+v", r)
	}

	if op, ok := c.FindText(StatusWaiting); !ok || op.Y != 90 {
		t.Errorf("expected WAITING label above the enemy, got %+v", op)
	}
	if op, ok := c.FindText(LabelBossPriority); !ok || op.Y != 265 {
		t.Errorf("expected boss priority label below the boss, got %+v", op)
	}
}

func TestScene_BlockedBoss(t *testing.T) {
	snap := sceneSnapshot()
	snap.Enemies[1].Blocked = true

	c := NewRecordingCanvas(SceneWidth, SceneHeight)
	if err := NewScene().DrawFrame(c, snap); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if _, ok := c.FindText("BOSS WAITING"); !ok {
		t.Error("expected BOSS WAITING")
	}
}

func TestScene_HUDHearts(t *testing.T) {
	c := NewRecordingCanvas(SceneWidth, SceneHeight)
	if err := NewScene().DrawFrame(c, sceneSnapshot()); err != nil {
		t.Fatalf("draw: %v", err)
	}

	var hearts []Op
	for _, op := range c.Ops {
		if op.Kind == OpFillCircle && op.Y == 44 && op.R == 8 {
			hearts = append(hearts, op)
		}
	}
	if len(hearts) != MaxLives {
		t.Fatalf("expected %d hearts, got %d", MaxLives, len(hearts))
	}
	if hearts[0].Color != ColorRed || hearts[1].Color != ColorRed || hearts[2].Color != ColorGray {
		t.Errorf("expected two full hearts and one empty, got %v %v %v", hearts[0].Color, hearts[1].Color, hearts[2].Color)
	}
	if hearts[2].X != 80 {
		t.Errorf("expected third heart at x=80, got %v", hearts[2].X)
	}
}

func TestScene_FinishUnlocked(t *testing.T) {
	snap := sceneSnapshot()
	snap.Locks = nil

	c := NewRecordingCanvas(SceneWidth, SceneHeight)
	if err := NewScene().DrawFrame(c, snap); err != nil {
		t.Fatalf("draw: %v", err)
	}
	op, ok := c.FindText(LabelFinish)
	if !ok || op.Color != ColorGreen {
		t.Errorf("expected green FINISH label, got %+v", op)
	}
	if _, ok := c.FindText(LabelUnlockLocks); ok {
		t.Error("unlock label should not be drawn")
	}
	if FinishUnlocked(nil) {
		t.Error("nil snapshot is not unlocked")
	}
}

func TestScene_Overlays(t *testing.T) {
	t.Run("won", func(t *testing.T) {
		snap := sceneSnapshot()
		snap.Game.Won = true
		scene := NewScene()
		c := NewRecordingCanvas(SceneWidth, SceneHeight)
		if err := scene.DrawFrame(c, snap); err != nil {
			t.Fatalf("draw: %v", err)
		}
		op, ok := c.FindText(LabelYouWin)
		if !ok || op.X != 400 || op.Y != 180 {
			t.Errorf("expected centered YOU WIN!, got %+v", op)
		}
		if _, ok := c.FindText("Time: 8.3s"); !ok {
			t.Errorf("expected elapsed time, got %v", c.Texts())
		}
		if c.IndexOfText(LabelYouWin) < c.IndexOfText("Keys: 1/3") {
			t.Error("overlay must be drawn last")
		}
		if scene.Overlay() != OverlayWon {
			t.Errorf("expected WON, got %v", scene.Overlay())
		}
	})

	t.Run("lost countdown", func(t *testing.T) {
		snap := sceneSnapshot()
		snap.Game.ShowGameOver = true
		snap.Game.GameOverTimer = 2.1
		c := NewRecordingCanvas(SceneWidth, SceneHeight)
		if err := NewScene().DrawFrame(c, snap); err != nil {
			t.Fatalf("draw: %v", err)
		}
		if _, ok := c.FindText(LabelYouLose); !ok {
			t.Error("expected YOU LOSE!")
		}
		if op, ok := c.FindText("3"); !ok || op.Y != 250 {
			t.Errorf("expected countdown 3, got %v", c.Texts())
		}
	})

	t.Run("no latch between frames", func(t *testing.T) {
		scene := NewScene()
		snap := sceneSnapshot()
		snap.Game.Won = true
		c := NewRecordingCanvas(SceneWidth, SceneHeight)
		scene.DrawFrame(c, snap)

		c.Reset()
		if err := scene.DrawFrame(c, sceneSnapshot()); err != nil {
			t.Fatalf("draw: %v", err)
		}
		if _, ok := c.FindText(LabelYouWin); ok {
			t.Error("overlay must follow the latest snapshot")
		}
		if scene.Overlay() != OverlayPlaying {
			t.Errorf("expected PLAYING, got %v", scene.Overlay())
		}
	})

	t.Run("conflict", func(t *testing.T) {
		snap := sceneSnapshot()
		snap.Game.Won = true
		snap.Game.ShowGameOver = true
		c := NewRecordingCanvas(SceneWidth, SceneHeight)
		err := NewScene().DrawFrame(c, snap)
		if !errors.Is(err, ErrOverlayConflict) {
			t.Fatalf("expected ErrOverlayConflict, got %v", err)
		}
		if _, ok := c.FindText(LabelYouWin); ok {
			t.Error("no overlay expected on conflict")
		}
		if _, ok := c.FindText(LabelYouLose); ok {
			t.Error("no overlay expected on conflict")
		}
	})
}
