package schedviewer

// StateProvider provides the current Frame for rendering.
type StateProvider interface {
	// GetFrame returns the current snapshots and their derived metrics.
	GetFrame() (*Frame, error)
}

// StaticStateProvider wraps fixed snapshots.
type StaticStateProvider struct {
	game    *GameSnapshot
	metrics *MetricsSnapshot
}

// NewStaticStateProvider creates a StateProvider from fixed snapshots.
// Either may be nil.
func NewStaticStateProvider(game *GameSnapshot, metrics *MetricsSnapshot) *StaticStateProvider {
	return &StaticStateProvider{game: game, metrics: metrics}
}

// GetFrame implements StateProvider.
func (p *StaticStateProvider) GetFrame() (*Frame, error) {
	return &Frame{
		Game:    p.game,
		Metrics: p.metrics,
		Derived: Derive(p.game, p.metrics),
	}, nil
}

// CallbackStateProvider calls a function to get the frame.
type CallbackStateProvider struct {
	fn func() (*Frame, error)
}

// NewCallbackStateProvider creates a StateProvider from a callback function.
func NewCallbackStateProvider(fn func() (*Frame, error)) *CallbackStateProvider {
	return &CallbackStateProvider{fn: fn}
}

// GetFrame implements StateProvider.
func (p *CallbackStateProvider) GetFrame() (*Frame, error) {
	return p.fn()
}

var (
	_ StateProvider = (*Store)(nil)
	_ StateProvider = (*StaticStateProvider)(nil)
	_ StateProvider = (*CallbackStateProvider)(nil)
)
