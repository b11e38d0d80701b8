package schedviewer

import "fmt"

// MaxQueueRows is how many ready-queue entries the panel shows.
const MaxQueueRows = 8

// Panel placeholders.
const (
	EmptyQueueMessage = "No processes in queue"
	EmptyTableMessage = "No completed processes yet. Click Start to begin."
)

var algorithmEffects = map[string][]string{
	AlgorithmFCFS: {
		"Player may lag behind enemies",
		"Convoy effect visible",
		"Unpredictable response",
		"Poor for interactive systems",
	},
	AlgorithmRoundRobin: {
		"Fair time sharing",
		"Consistent delays",
		"Moderate responsiveness",
		"Good for multi-user systems",
	},
	AlgorithmSJF: {
		"Shortest tasks execute first",
		"Minimizes average waiting time",
		"Quick movements get priority",
		"Longer tasks may starve",
	},
	AlgorithmPriority: {
		"Player gets priority",
		"Enemies may starve",
		"Better player control",
		"Can't interrupt running processes",
	},
	AlgorithmPriorityPre: {
		"Best player response",
		"Real-time performance",
		"Optimal for gaming",
		"Can interrupt low priority processes",
	},
}

// Panel is the side panel next to the scene, built from one game snapshot.
type Panel struct {
	Time               string          `json:"time"`
	Attempts           int             `json:"attempts"`
	ActiveProcesses    int             `json:"active_processes"`
	CompletedProcesses int             `json:"completed_processes"`
	ContextSwitches    int             `json:"context_switches"`
	Algorithm          string          `json:"algorithm"`
	AlgorithmIndex     int             `json:"algorithm_index"`
	Effects            []string        `json:"effects"`
	Queue              []QueueRow      `json:"queue"`
	QueueMessage       string          `json:"queue_message,omitempty"`
	CurrentAction      string          `json:"current_action"`
	SchedulerMessage   string          `json:"scheduler_message"`
	Current            *CurrentStats   `json:"current,omitempty"`
	Table              []ProcessRecord `json:"table"`
	TableMessage       string          `json:"table_message,omitempty"`
}

// QueueRow is one ready-queue line.
type QueueRow struct {
	PID       int     `json:"pid"`
	Owner     string  `json:"owner"`
	Priority  int     `json:"priority"`
	Remaining string  `json:"remaining"`
	Progress  float64 `json:"progress"`
	Status    string  `json:"status"`
	IsPlayer  bool    `json:"is_player"`
}

// CurrentStats summarizes the selected algorithm.
type CurrentStats struct {
	WaitTime   string `json:"wait_time"`
	Throughput string `json:"throughput"`
	Efficiency string `json:"efficiency"`
}

// QueueStatus returns the status shown for the i-th queue entry. When the
// server omits it, the first entry is RUNNING and the rest WAITING.
func QueueStatus(p ProcessView, i int) string {
	if p.Status != "" {
		return p.Status
	}
	if i == 0 {
		return StatusRunning
	}
	return StatusWaiting
}

// BuildPanel derives the side panel. A nil snapshot yields an empty panel.
func BuildPanel(snap *GameSnapshot) Panel {
	if snap == nil {
		return Panel{
			Time:           "0.0s",
			AlgorithmIndex: -1,
			QueueMessage:   EmptyQueueMessage,
			CurrentAction:  "No processes in ready queue",
			TableMessage:   EmptyTableMessage,
		}
	}

	p := Panel{
		Time:               fmt.Sprintf("%.1fs", snap.Game.Time),
		Attempts:           snap.Game.Attempts,
		ActiveProcesses:    snap.Scheduler.ActiveProcesses,
		CompletedProcesses: snap.Scheduler.CompletedProcesses,
		ContextSwitches:    snap.Scheduler.ContextSwitches,
		Algorithm:          snap.Scheduler.Name,
		AlgorithmIndex:     AlgorithmIndex(snap.Scheduler.Name),
		Effects:            algorithmEffects[snap.Scheduler.Name],
		Table:              snap.ProcessTable,
	}

	for i, proc := range snap.Processes {
		if i == MaxQueueRows {
			break
		}
		p.Queue = append(p.Queue, queueRow(proc, i))
	}
	if len(p.Queue) == 0 {
		p.QueueMessage = EmptyQueueMessage
	}
	if len(p.Table) == 0 {
		p.TableMessage = EmptyTableMessage
	}

	running := runningProcess(snap.Processes)
	p.CurrentAction = currentAction(running, snap.Scheduler.ActiveProcesses)
	p.SchedulerMessage = schedulerMessage(snap.Scheduler.Name, running)

	if stats, ok := snap.PerformanceData[snap.Scheduler.Name]; ok {
		eff, _ := Efficiency(snap.PerformanceData, snap.Scheduler.Name)
		p.Current = &CurrentStats{
			WaitTime:   fmt.Sprintf("%.1fms", stats.AvgWaitingTime),
			Throughput: fmt.Sprintf("%.2f/s", stats.Throughput),
			Efficiency: fmt.Sprintf("%.1f%%", eff),
		}
	}
	return p
}

func queueRow(proc ProcessView, i int) QueueRow {
	owner := "Enemy"
	if proc.EntityType == EntityPlayer {
		owner = "Player"
	}
	var progress float64
	if proc.BurstTime > 0 {
		progress = (proc.BurstTime - proc.RemainingTime) / proc.BurstTime * 100
	}
	return QueueRow{
		PID:       proc.PID,
		Owner:     owner,
		Priority:  proc.Priority,
		Remaining: fmt.Sprintf("%.1fs left", proc.RemainingTime),
		Progress:  progress,
		Status:    QueueStatus(proc, i),
		IsPlayer:  proc.EntityType == EntityPlayer,
	}
}

// runningProcess returns the entry explicitly marked RUNNING, if any.
func runningProcess(procs []ProcessView) *ProcessView {
	for i := range procs {
		if procs[i].Status == StatusRunning {
			return &procs[i]
		}
	}
	return nil
}

func currentAction(running *ProcessView, active int) string {
	switch {
	case running != nil:
		kind := "Background AI Process"
		if running.TaskType == "input" {
			kind = "User Input Process"
		}
		return fmt.Sprintf("Executing %s (PID: %d)", kind, running.PID)
	case active > 0:
		return "CPU Idle - Selecting next process..."
	}
	return "No processes in ready queue"
}

func schedulerMessage(algorithm string, running *ProcessView) string {
	player := running != nil && running.EntityType == EntityPlayer
	switch algorithm {
	case AlgorithmFCFS:
		switch {
		case running == nil:
			return "FCFS: Strict arrival order. If enemies arrive first, player must wait for ALL of them to complete!"
		case player:
			return "FCFS: Player process finally got CPU after waiting for all enemy processes!"
		}
		return fmt.Sprintf("FCFS BLOCKING: Enemy process running for %.1fs more. Player is COMPLETELY BLOCKED!", running.RemainingTime)
	case AlgorithmRoundRobin:
		if running != nil {
			return "Round Robin: Current process gets fair time slice. All processes get equal CPU time."
		}
		return "Round Robin: Each process gets equal time slices. Provides fair scheduling for all processes."
	case AlgorithmSJF:
		if running != nil {
			return "SJF: Shortest remaining time process is running. Optimal average waiting time."
		}
		return "SJF: Shortest Job First minimizes average waiting time but may cause starvation."
	case AlgorithmPriority:
		switch {
		case running == nil:
			return "Priority: Higher priority processes execute first. Player=Priority 1, Enemies=Priority 3."
		case player:
			return "Priority: Player process (Priority 1) is running. Much better responsiveness than FCFS!"
		}
		return "Priority: Enemy process running because no player processes are waiting. Player gets priority when needed."
	case AlgorithmPriorityPre:
		switch {
		case running == nil:
			return "Preemptive Priority: Best for real-time systems. High priority processes can interrupt low priority ones."
		case player:
			return "Preemptive Priority: Player process running with highest priority. Can interrupt any lower priority process!"
		}
		return "Preemptive Priority: Enemy process running, but will be immediately interrupted if player process arrives."
	}
	return ""
}
