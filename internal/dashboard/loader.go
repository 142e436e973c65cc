// Package dashboard runs one full fetch cycle for the configured location and
// makes sure that a slow, stale cycle never replaces a newer one.
package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/smokyabdulrahman/ramadan-times/internal/api"
	"github.com/smokyabdulrahman/ramadan-times/internal/hijri"
	"github.com/smokyabdulrahman/ramadan-times/internal/prayer"
)

// TimingsSource returns one day of timings. *api.Client satisfies it.
type TimingsSource interface {
	FetchTimings(ctx context.Context, date time.Time) (*api.Data, error)
}

// Verifier cross-checks a year's Ramadan. *hijri.Verifier satisfies it.
type Verifier interface {
	Verify(ctx context.Context, gregorianYear int) hijri.Verification
}

// Snapshot is the result of one fetch cycle.
type Snapshot struct {
	ID        uint64
	CycleID   string
	FetchedAt time.Time

	Day     *api.Data
	Timings prayer.TimingSet
	Err     error

	// Ramadan fields are only filled when the cycle asked for them.
	Ramadan      *hijri.Window
	RamadanErr   error
	Verification *hijri.Verification
}

// Hijri returns today's Hijri date, if today's timings were fetched.
func (s Snapshot) Hijri() (api.HijriDate, bool) {
	if s.Day == nil {
		return api.HijriDate{}, false
	}
	return s.Day.Date.Hijri, true
}

// Options selects what a cycle fetches.
type Options struct {
	Ramadan bool
	// Year is the Gregorian year for Ramadan. Zero means the current year.
	Year int
}

// Loader performs fetch cycles.
type Loader struct {
	timings  TimingsSource
	verifier Verifier
	fence    *Fence
	loc      *time.Location
	now      func() time.Time
	log      zerolog.Logger
}

// LoaderOption customises a Loader.
type LoaderOption func(*Loader)

// WithVerifier enables Ramadan cycles.
func WithVerifier(v Verifier) LoaderOption {
	return func(l *Loader) { l.verifier = v }
}

// WithLocation sets the time zone "today" is computed in.
func WithLocation(loc *time.Location) LoaderOption {
	return func(l *Loader) { l.loc = loc }
}

// WithNow replaces the wall clock.
func WithNow(now func() time.Time) LoaderOption {
	return func(l *Loader) { l.now = now }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) LoaderOption {
	return func(l *Loader) { l.log = log }
}

// NewLoader creates a Loader. Ids come from fence, which may be shared.
func NewLoader(ts TimingsSource, fence *Fence, opts ...LoaderOption) *Loader {
	if fence == nil {
		fence = &Fence{}
	}
	l := &Loader{
		timings: ts,
		fence:   fence,
		loc:     time.Local,
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fence returns the fence ids are drawn from.
func (l *Loader) Fence() *Fence {
	return l.fence
}

// Load runs one cycle from scratch. Failures are recorded in the snapshot,
// never returned, so the caller can always show what was obtained.
func (l *Loader) Load(ctx context.Context, opts Options) Snapshot {
	now := l.now().In(l.loc)
	snap := Snapshot{
		ID:        l.fence.Next(),
		CycleID:   uuid.NewString(),
		FetchedAt: now,
	}
	log := l.log.With().Uint64("request_id", snap.ID).Str("cycle_id", snap.CycleID).Logger()
	log.Debug().Bool("ramadan", opts.Ramadan).Msg("fetch cycle started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		day, err := l.timings.FetchTimings(gctx, now)
		if err != nil {
			snap.Err = err
			return nil
		}
		snap.Day = day
		snap.Timings = prayer.NewTimingSet(day.Timings)
		return nil
	})

	if opts.Ramadan && l.verifier != nil {
		year := opts.Year
		if year == 0 {
			year = now.Year()
		}
		g.Go(func() error {
			v := l.verifier.Verify(gctx, year)
			snap.Verification = &v
			snap.Ramadan = v.Primary
			snap.RamadanErr = v.PrimaryErr
			return nil
		})
	}
	_ = g.Wait()

	if snap.Err != nil {
		log.Error().Err(snap.Err).Msg("fetch cycle failed")
	} else {
		log.Debug().Int("timings", snap.Timings.Len()).Msg("fetch cycle finished")
	}
	return snap
}
