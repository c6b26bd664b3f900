// Package guard implements an idle-timeout session guard. A Guard watches a
// set of activity channels and calls a logout callback once when none of
// them has seen an event for the configured timeout.
//
// The guard is an explicit state machine:
//
//	Disarmed --Arm(active)--> Armed --timeout--> Fired
//	   ^                        |                  |
//	   +------Arm(inactive)-----+------------------+
//
// Activity while Armed restarts the countdown. Fired is terminal until the
// caller re-arms by toggling Active or changing the configuration.
package guard

import (
	"log/slog"
	"reflect"
	"sync"
	"time"
)

// DefaultTimeout is used when Config.Timeout is not positive.
const DefaultTimeout = 5 * time.Minute

// Channel names a kind of user activity.
type Channel string

const (
	PointerPress Channel = "pointer-press"
	KeyPress     Channel = "key-press"
	PointerMove  Channel = "pointer-move"
	ScrollWheel  Channel = "scroll-wheel"
	TouchStart   Channel = "touch-start"
	Scroll       Channel = "scroll"
)

// Channels is the fixed set of channels an armed guard listens on.
var Channels = []Channel{PointerPress, KeyPress, PointerMove, ScrollWheel, TouchStart, Scroll}

// ActivitySource delivers activity events. Implementations must not hold
// their own locks while invoking listeners.
type ActivitySource interface {
	Subscribe(ch Channel, fn func()) (unsubscribe func())
}

// State is the guard's lifecycle state.
type State int

const (
	Disarmed State = iota
	Armed
	Fired
)

func (s State) String() string {
	switch s {
	case Disarmed:
		return "disarmed"
	case Armed:
		return "armed"
	case Fired:
		return "fired"
	default:
		return "unknown"
	}
}

// Config is the guard's arming configuration.
type Config struct {
	// Active reports whether the guard should be running.
	Active bool
	// OnInactive is called once when the countdown elapses.
	OnInactive func()
	// Timeout is the idle period. Zero or negative means DefaultTimeout.
	Timeout time.Duration
}

// Guard is an idle-timeout session guard. It is safe for concurrent use.
type Guard struct {
	src    ActivitySource
	clock  Clock
	logger *slog.Logger

	mu         sync.Mutex
	state      State
	onInactive func()
	timeout    time.Duration
	unsubs     []func()
	timer      Timer
	deadline   time.Time
	span       uint64 // bumped on every setup; stale listeners compare against it
	gen        uint64 // bumped on every countdown start
}

// Option configures a Guard.
type Option func(*Guard)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(g *Guard) { g.clock = c }
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) { g.logger = l }
}

// New creates a disarmed guard reading activity from src.
func New(src ActivitySource, opts ...Option) *Guard {
	g := &Guard{
		src:    src,
		clock:  wallClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Arm applies cfg. An inactive config tears the guard down completely. An
// active config arms a disarmed guard, re-arms a guard whose timeout or
// callback changed, and is a no-op otherwise.
func (g *Guard) Arm(cfg Config) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if !cfg.Active {
		if g.state != Disarmed {
			g.teardownLocked()
			g.logger.Debug("session guard disarmed")
		}
		return
	}

	if g.state != Disarmed && g.timeout == timeout && sameFunc(g.onInactive, cfg.OnInactive) {
		// Closures from the same literal share code; keep the newest instance.
		g.onInactive = cfg.OnInactive
		return
	}

	rearm := g.state != Disarmed
	g.teardownLocked()
	g.onInactive = cfg.OnInactive
	g.timeout = timeout
	g.setupLocked()
	g.logger.Debug("session guard armed", "timeout", timeout, "rearm", rearm)
}

// Close disarms the guard.
func (g *Guard) Close() {
	g.Arm(Config{})
}

// State returns the current lifecycle state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Deadline returns when the pending countdown elapses. ok is false when no
// countdown is pending.
func (g *Guard) Deadline() (deadline time.Time, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != Armed {
		return time.Time{}, false
	}
	return g.deadline, true
}

func (g *Guard) setupLocked() {
	g.span++
	span := g.span
	g.unsubs = make([]func(), 0, len(Channels))
	for _, ch := range Channels {
		g.unsubs = append(g.unsubs, g.src.Subscribe(ch, func() { g.activity(span) }))
	}
	g.state = Armed
	g.startLocked()
}

func (g *Guard) teardownLocked() {
	for _, unsub := range g.unsubs {
		unsub()
	}
	g.unsubs = nil
	g.stopLocked()
	g.state = Disarmed
}

func (g *Guard) startLocked() {
	g.gen++
	gen := g.gen
	g.deadline = g.clock.Now().Add(g.timeout)
	g.timer = g.clock.AfterFunc(g.timeout, func() { g.expire(gen) })
}

func (g *Guard) stopLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.deadline = time.Time{}
	// Invalidate a timer whose callback is already running.
	g.gen++
}

func (g *Guard) activity(span uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != Armed || span != g.span {
		return
	}
	g.stopLocked()
	g.startLocked()
}

func (g *Guard) expire(gen uint64) {
	g.mu.Lock()
	if g.state != Armed || gen != g.gen {
		g.mu.Unlock()
		return
	}
	g.state = Fired
	g.timer = nil
	g.deadline = time.Time{}
	cb := g.onInactive
	timeout := g.timeout
	g.mu.Unlock()

	g.logger.Info("session idle timeout elapsed", "timeout", timeout)
	if cb != nil {
		cb()
	}
}

func sameFunc(a, b func()) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
