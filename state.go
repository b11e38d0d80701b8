// Package schedviewer provides the presentation client for a remote CPU scheduling
// simulation: an arcade scene and an analytics dashboard fed by snapshot streams.
package schedviewer

import "time"

// Entity types reported by the simulation.
const (
	EntityPlayer = "player"
	EntityEnemy  = "enemy"
)

// Process statuses shown in the ready queue.
const (
	StatusRunning = "RUNNING"
	StatusWaiting = "WAITING"
)

// GameSnapshot is a complete description of the game at one instant.
// A new snapshot replaces the previous one wholesale.
type GameSnapshot struct {
	Game            GameInfo             `json:"game"`
	Scheduler       SchedulerInfo        `json:"scheduler"`
	Player          Entity               `json:"player"`
	Enemies         []Entity             `json:"enemies"`
	Powerups        []Pickup             `json:"powerups"`
	Keys            []Pickup             `json:"keys"`
	Locks           []Pickup             `json:"locks"`
	Processes       []ProcessView        `json:"processes"`
	ProcessTable    []ProcessRecord      `json:"process_table"`
	PerformanceData map[string]PerfStats `json:"performance_data"`

	// Seq and Received are stamped by the Bus, never sent on the wire.
	Seq      uint64    `json:"-"`
	Received time.Time `json:"-"`
}

// GameInfo holds level, timer and win/lose flags.
type GameInfo struct {
	Time                  float64 `json:"time"`
	Attempts              int     `json:"attempts"`
	Level                 int     `json:"level"`
	MaxLevel              int     `json:"max_level"`
	Lives                 int     `json:"lives"`
	KeysCollected         int     `json:"keys_collected"`
	PowerupTime           float64 `json:"powerup_time"`
	StartLineX            float64 `json:"start_line_x"`
	FinishLineX           float64 `json:"finish_line_x"`
	Won                   bool    `json:"won"`
	ShowGameOver          bool    `json:"show_game_over"`
	GameOverTimer         float64 `json:"game_over_timer"`
	BossLevel             bool    `json:"boss_level"`
	BossRequiredAlgorithm string  `json:"boss_required_algorithm"`
}

// SchedulerInfo describes the active scheduling algorithm.
type SchedulerInfo struct {
	Name               string `json:"name"`
	ActiveProcesses    int    `json:"active_processes"`
	CompletedProcesses int    `json:"completed_processes"`
	ContextSwitches    int    `json:"context_switches"`
}

// Entity is the player or an enemy.
type Entity struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	EntityType string  `json:"entity_type"`
	IsBoss     bool    `json:"is_boss"`
	Blocked    bool    `json:"blocked"`
	HasPowerup bool    `json:"has_powerup"`
}

// Pickup is a powerup, key or lock. Its kind is given by the slice holding it.
type Pickup struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ProcessView is one entry of the ready queue.
type ProcessView struct {
	PID           int     `json:"pid"`
	EntityType    string  `json:"entity_type"`
	TaskType      string  `json:"task_type,omitempty"`
	Priority      int     `json:"priority"`
	BurstTime     float64 `json:"burst_time"`
	RemainingTime float64 `json:"remaining_time"`
	Status        string  `json:"status,omitempty"`
}

// ProcessRecord is a completed process row.
type ProcessRecord struct {
	PID            int     `json:"pid"`
	EntityType     string  `json:"entity_type"`
	TaskType       string  `json:"task_type"`
	Priority       int     `json:"priority"`
	ArrivalTime    float64 `json:"arrival_time"`
	BurstTime      float64 `json:"burst_time"`
	CompletionTime float64 `json:"completion_time"`
	TurnaroundTime float64 `json:"turnaround_time"`
	WaitingTime    float64 `json:"waiting_time"`
}

// PerfStats are per-algorithm averages carried by the game snapshot.
type PerfStats struct {
	AvgWaitingTime    float64 `json:"avg_waiting_time"`
	AvgTurnaroundTime float64 `json:"avg_turnaround_time"`
	AvgCompletionTime float64 `json:"avg_completion_time"`
	Throughput        float64 `json:"throughput"`
	ProcessCount      int     `json:"process_count"`
}

// MetricsSnapshot is the analytics view, delivered independently of GameSnapshot.
type MetricsSnapshot struct {
	Comparison      Comparison                `json:"comparison"`
	FPSHistory      []float64                 `json:"fps_history"`
	TotalProcesses  int                       `json:"total_processes"`
	ContextSwitches int                       `json:"context_switches"`
	FPSStats        FPSStats                  `json:"fps_stats"`
	AlgorithmStats  map[string]AlgorithmStats `json:"algorithm_stats"`
	GanttData       []GanttEntry              `json:"gantt_data"`

	Seq      uint64    `json:"-"`
	Received time.Time `json:"-"`
}

// ComparisonStats are the comparable figures for one algorithm, in seconds.
type ComparisonStats struct {
	WaitingTime    float64 `json:"waiting_time"`
	TurnaroundTime float64 `json:"turnaround_time"`
	ResponseTime   float64 `json:"response_time"`
	Throughput     float64 `json:"throughput"`
}

// FPSStats summarizes the frame rate history.
type FPSStats struct {
	Average float64 `json:"average"`
}

// AlgorithmStats counts processes run under an algorithm.
type AlgorithmStats struct {
	ProcessCount int `json:"process_count"`
}

// GanttEntry is one slice of the raw scheduling trace.
type GanttEntry struct {
	PID        int     `json:"pid"`
	Algorithm  string  `json:"algorithm"`
	EntityType string  `json:"entity_type"`
	Start      float64 `json:"start"`
	Duration   float64 `json:"duration"`
}
