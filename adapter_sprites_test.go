package schedviewer

import "testing"

func TestSpritesStateAdapter_Nil(t *testing.T) {
	a := NewSpritesStateAdapter(nil)
	if a.Lands() != nil || a.Processes() != nil {
		t.Error("expected nothing for a nil snapshot")
	}
}

func TestSpritesStateAdapter_Lands(t *testing.T) {
	snap := &GameSnapshot{Scheduler: SchedulerInfo{Name: AlgorithmPriorityPre}}
	lands := NewSpritesStateAdapter(snap).Lands()

	if len(lands) != len(Algorithms) {
		t.Fatalf("expected %d lands, got %d", len(Algorithms), len(lands))
	}
	ids := map[string]bool{}
	for i, land := range lands {
		if ids[land.ID] {
			t.Errorf("duplicate land id %s", land.ID)
		}
		ids[land.ID] = true

		want := "normal"
		if i == 4 {
			want = "mana"
		}
		if land.Type != want {
			t.Errorf("land %d: expected %s, got %s", i, want, land.Type)
		}
	}
	if lands[4].X != 1 || lands[4].Y != 1 {
		t.Errorf("expected fifth land at (1, 1), got (%v, %v)", lands[4].X, lands[4].Y)
	}
}

func TestSpritesStateAdapter_Processes(t *testing.T) {
	snap := &GameSnapshot{
		Scheduler: SchedulerInfo{Name: AlgorithmRoundRobin},
		Processes: []ProcessView{
			{PID: 1, EntityType: EntityPlayer, BurstTime: 2, RemainingTime: 0.5},
			{PID: 2, EntityType: EntityEnemy, BurstTime: 1, RemainingTime: 3},
			{PID: 3, EntityType: EntityEnemy},
		},
	}
	for i := 0; i < 10; i++ {
		snap.ProcessTable = append(snap.ProcessTable, ProcessRecord{PID: 100 + i})
	}

	procs := NewSpritesStateAdapter(snap).Processes()
	if len(procs) != 3+maxSpriteRecords {
		t.Fatalf("expected %d processes, got %d", 3+maxSpriteRecords, len(procs))
	}
	for _, p := range procs {
		if p.LandID != "algo-1" {
			t.Errorf("%s placed on %s", p.ID, p.LandID)
		}
	}
	if procs[0].Type != "nim" || procs[0].Progress != 0.75 {
		t.Errorf("unexpected player process %+v", procs[0])
	}
	if procs[1].Type != "tree" || procs[1].Progress != 0 {
		t.Errorf("progress should clamp at 0, got %+v", procs[1])
	}
	if procs[2].Progress != 0 {
		t.Errorf("zero burst should have no progress, got %v", procs[2].Progress)
	}
	if procs[3].ID != "done-102" || procs[3].Type != "treehouse" || procs[3].Progress != 1 {
		t.Errorf("expected the newest records only, got %+v", procs[3])
	}
}

func TestSpritesStateAdapter_UnknownAlgorithm(t *testing.T) {
	snap := &GameSnapshot{
		Scheduler: SchedulerInfo{Name: "Lottery"},
		Processes: []ProcessView{{PID: 1}},
	}
	if procs := NewSpritesStateAdapter(snap).Processes(); procs != nil {
		t.Errorf("expected no processes, got %v", procs)
	}
}
