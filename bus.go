package schedviewer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// EventKind identifies the stream an inbound event belongs to.
type EventKind int

const (
	EventGame EventKind = iota + 1
	EventMetrics
)

func (k EventKind) String() string {
	switch k {
	case EventGame:
		return EventGameUpdate
	case EventMetrics:
		return EventMetricsUpdate
	}
	return "unknown"
}

// Event is an inbound snapshot stamped with its arrival order.
type Event struct {
	Seq      uint64
	Kind     EventKind
	Received time.Time
	Game     *GameSnapshot
	Metrics  *MetricsSnapshot
}

// Bus serializes both inbound streams onto one goroutine. Every snapshot
// gets a sequence number at publish time, is written to the Store and then
// handed to subscribers in that same order.
type Bus struct {
	store  *Store
	in     chan Event
	seq    atomic.Uint64
	now    func() time.Time
	mu     sync.RWMutex
	subs   []func(Event)
	logger *Logger
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithBusBuffer sets how many events may queue before publishers block.
func WithBusBuffer(n int) BusOption {
	return func(b *Bus) {
		b.in = make(chan Event, n)
	}
}

// WithClock overrides the clock used to stamp events.
func WithClock(now func() time.Time) BusOption {
	return func(b *Bus) {
		b.now = now
	}
}

// NewBus creates a Bus writing into store.
func NewBus(store *Store, opts ...BusOption) *Bus {
	b := &Bus{
		store:  store,
		in:     make(chan Event, 64),
		now:    time.Now,
		logger: GetLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers fn to run after each event is stored.
func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	b.subs = append(b.subs, fn)
	b.mu.Unlock()
}

// PublishGame queues a game snapshot.
func (b *Bus) PublishGame(ctx context.Context, snap *GameSnapshot) error {
	return b.publish(ctx, Event{Kind: EventGame, Game: snap})
}

// PublishMetrics queues a metrics snapshot.
func (b *Bus) PublishMetrics(ctx context.Context, snap *MetricsSnapshot) error {
	return b.publish(ctx, Event{Kind: EventMetrics, Metrics: snap})
}

func (b *Bus) publish(ctx context.Context, ev Event) error {
	ev = b.stamp(ev)
	select {
	case b.in <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bus) stamp(ev Event) Event {
	ev.Seq = b.seq.Add(1)
	ev.Received = b.now()
	switch ev.Kind {
	case EventGame:
		if ev.Game != nil {
			ev.Game.Seq, ev.Game.Received = ev.Seq, ev.Received
		}
	case EventMetrics:
		if ev.Metrics != nil {
			ev.Metrics.Seq, ev.Metrics.Received = ev.Seq, ev.Received
		}
	}
	return ev
}

// Run applies queued events until ctx is cancelled.
func (b *Bus) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-b.in:
			b.apply(ev)
		}
	}
}

// Dispatch stamps and applies ev synchronously, bypassing the queue.
// Tests use it to feed both streams in an exact interleaving.
func (b *Bus) Dispatch(ev Event) Event {
	ev = b.stamp(ev)
	b.apply(ev)
	return ev
}

func (b *Bus) apply(ev Event) {
	switch ev.Kind {
	case EventGame:
		b.store.SetGame(ev.Game)
	case EventMetrics:
		b.store.SetMetrics(ev.Metrics)
	default:
		b.logger.Warnf("bus: dropping event %d of unknown kind %d", ev.Seq, ev.Kind)
		return
	}
	b.logger.Debugf("bus: applied %s seq=%d", ev.Kind, ev.Seq)

	b.mu.RLock()
	subs := make([]func(Event), len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}
