package schedviewer

import "sync"

// Frame is what targets render: the current slots plus derived metrics.
type Frame struct {
	Game    *GameSnapshot
	Metrics *MetricsSnapshot
	Derived Derived
}

// Store holds exactly the latest game and metrics snapshots.
// Both slots are nil until the first event of their kind arrives.
type Store struct {
	mu         sync.RWMutex
	game       *GameSnapshot
	metrics    *MetricsSnapshot
	ganttWidth float64
	ganttRows  int
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreGantt sets the Gantt geometry used for derived frames. It should
// match the dashboard's WithGanttLayout.
func WithStoreGantt(width float64, rows int) StoreOption {
	return func(s *Store) {
		s.ganttWidth = width
		s.ganttRows = rows
	}
}

// NewStore creates an empty Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		ganttWidth: DefaultGanttWidth,
		ganttRows:  DefaultGanttRows,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetGame replaces the game slot. No ordering check is made against the
// previous snapshot; the last write wins.
func (s *Store) SetGame(snap *GameSnapshot) {
	s.mu.Lock()
	s.game = snap
	s.mu.Unlock()
}

// SetMetrics replaces the metrics slot. The last write wins.
func (s *Store) SetMetrics(snap *MetricsSnapshot) {
	s.mu.Lock()
	s.metrics = snap
	s.mu.Unlock()
}

// Game returns the current game snapshot, or nil.
func (s *Store) Game() *GameSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game
}

// Metrics returns the current metrics snapshot, or nil.
func (s *Store) Metrics() *MetricsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}

// GetFrame implements StateProvider. Derived values are computed fresh.
func (s *Store) GetFrame() (*Frame, error) {
	s.mu.RLock()
	game, metrics := s.game, s.metrics
	s.mu.RUnlock()

	return &Frame{
		Game:    game,
		Metrics: metrics,
		Derived: DeriveGantt(game, metrics, s.ganttWidth, s.ganttRows),
	}, nil
}
