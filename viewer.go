package schedviewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrNoStateProvider is returned by Update before SetStateProvider.
var ErrNoStateProvider = errors.New("no state provider set")

// Viewer fans frames out to output targets.
type Viewer struct {
	mu       sync.RWMutex
	provider StateProvider
	targets  []Target
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
	logger   *Logger
}

// Option configures the Viewer.
type Option func(*Viewer)

// WithInterval sets the period of redraws that happen without new snapshots.
// Zero means redraw only on events.
func WithInterval(d time.Duration) Option {
	return func(v *Viewer) {
		v.interval = d
	}
}

// New creates a new Viewer with the given options.
func New(opts ...Option) *Viewer {
	v := &Viewer{
		interval: time.Second,
		logger:   GetLogger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// SetStateProvider sets the source of frames.
func (v *Viewer) SetStateProvider(p StateProvider) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.provider = p
}

// AddTarget adds an output target.
func (v *Viewer) AddTarget(t Target) error {
	if t == nil {
		return fmt.Errorf("nil target")
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.targets = append(v.targets, t)
	return nil
}

// RemoveTarget removes a target by reference.
func (v *Viewer) RemoveTarget(t Target) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, target := range v.targets {
		if target == t {
			v.targets = append(v.targets[:i], v.targets[i+1:]...)
			return
		}
	}
}

// Attach makes every event applied by bus trigger an Update.
func (v *Viewer) Attach(bus *Bus) {
	bus.Subscribe(func(ev Event) {
		if err := v.Update(); err != nil {
			v.logger.Warnf("update after %s seq=%d: %v", ev.Kind, ev.Seq, err)
		}
	})
}

// Start begins periodic updates to all targets.
func (v *Viewer) Start(ctx context.Context) error {
	v.mu.Lock()
	if v.cancel != nil {
		v.mu.Unlock()
		return fmt.Errorf("viewer already started")
	}
	ctx, v.cancel = context.WithCancel(ctx)
	v.done = make(chan struct{})
	done := v.done
	v.mu.Unlock()

	// Initial update
	if err := v.Update(); err != nil {
		v.logger.Warnf("initial update: %v", err)
	}

	go v.run(ctx, done)
	return nil
}

func (v *Viewer) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	if v.interval <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := v.Update(); err != nil {
				v.logger.Debugf("periodic update: %v", err)
			}
		}
	}
}

// Stop stops periodic updates and waits for the loop to exit.
func (v *Viewer) Stop() {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	done := v.done
	v.done = nil
	v.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Update pulls the current frame and sends it to every target.
func (v *Viewer) Update() error {
	v.mu.RLock()
	provider := v.provider
	targets := make([]Target, len(v.targets))
	copy(targets, v.targets)
	v.mu.RUnlock()

	if provider == nil {
		return ErrNoStateProvider
	}

	frame, err := provider.GetFrame()
	if err != nil {
		return fmt.Errorf("failed to get frame: %w", err)
	}

	g, ctx := errgroup.WithContext(context.Background())
	for _, target := range targets {
		target := target
		g.Go(func() error {
			if err := target.Update(ctx, frame); err != nil {
				return fmt.Errorf("target %s: %w", target.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Close stops the viewer and closes all targets.
func (v *Viewer) Close() error {
	v.Stop()

	v.mu.Lock()
	targets := v.targets
	v.targets = nil
	v.mu.Unlock()

	var errs []error
	for _, target := range targets {
		if err := target.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", target.Name(), err))
		}
	}
	return errors.Join(errs...)
}
