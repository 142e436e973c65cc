package countdown

import (
	"context"
	"sync"
	"time"

	"github.com/smokyabdulrahman/ramadan-times/internal/prayer"
)

// DefaultInterval is the re-evaluation period of a Runner.
const DefaultInterval = time.Second

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Ticker is the subset of *time.Ticker a Runner needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop() { r.t.Stop() }

func newRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// Runner evaluates Next on every tick and hands the state to a callback.
// While the Timing Set is empty, or no next event exists, it does not tick.
type Runner struct {
	clock     Clock
	interval  time.Duration
	newTicker func(time.Duration) Ticker

	mu         sync.Mutex
	pending    prayer.TimingSet
	hasPending bool

	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

// RunnerOption customises a Runner.
type RunnerOption func(*Runner)

// WithClock replaces the wall clock.
func WithClock(c Clock) RunnerOption {
	return func(r *Runner) { r.clock = c }
}

// WithInterval sets the tick period.
func WithInterval(d time.Duration) RunnerOption {
	return func(r *Runner) { r.interval = d }
}

// WithTicker replaces the tick source.
func WithTicker(f func(time.Duration) Ticker) RunnerOption {
	return func(r *Runner) { r.newTicker = f }
}

// NewRunner creates a Runner ticking every DefaultInterval on the wall clock.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		clock:     ClockFunc(time.Now),
		interval:  DefaultInterval,
		newTicker: newRealTicker,
		wake:      make(chan struct{}, 1),
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetTimings replaces the Timing Set. The Runner re-evaluates at once.
func (r *Runner) SetTimings(ts prayer.TimingSet) {
	r.mu.Lock()
	r.pending = ts
	r.hasPending = true
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Runner) takePending() (prayer.TimingSet, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ts, ok := r.pending, r.hasPending
	r.pending, r.hasPending = prayer.TimingSet{}, false
	return ts, ok
}

// Stop ends Run. Calling it more than once is a no-op.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// Run emits a state immediately and then on every tick until ctx is done or
// Stop is called. emit runs on the Run goroutine.
func (r *Runner) Run(ctx context.Context, emit func(State)) error {
	var (
		ts     prayer.TimingSet
		ticker Ticker
		tickC  <-chan time.Time
	)

	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tickC = nil, nil
		}
	}
	defer stopTicker()

	evaluate := func() {
		st := Next(ts, r.clock.Now())
		emit(st)
		if !st.HasNext() {
			stopTicker()
			return
		}
		if ticker == nil {
			ticker = r.newTicker(r.interval)
			tickC = ticker.C()
		}
	}

	select {
	case <-r.stop:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if next, ok := r.takePending(); ok {
		ts = next
	}
	evaluate()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.stop:
			return nil
		case <-r.wake:
			if next, ok := r.takePending(); ok {
				ts = next
				evaluate()
			}
		case <-tickC:
			evaluate()
		}
	}
}
