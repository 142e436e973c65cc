package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/ramadan-times/internal/api"
	"github.com/smokyabdulrahman/ramadan-times/internal/hijri"
	"github.com/smokyabdulrahman/ramadan-times/internal/prayer"
)

type fakeTimings struct {
	mu    sync.Mutex
	dates []time.Time
	err   error
}

func (f *fakeTimings) FetchTimings(_ context.Context, date time.Time) (*api.Data, error) {
	f.mu.Lock()
	f.dates = append(f.dates, date)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &api.Data{
		Timings: api.Timings{Fajr: "04:30", Dhuhr: "12:15", Asr: "15:30", Maghrib: "18:00", Isha: "19:30"},
		Date: api.DateInfo{
			Hijri: api.HijriDate{Day: "10", Month: api.HijriMonth{Number: 9, En: "Ramaḍān"}, Year: "1446"},
		},
	}, nil
}

type fakeVerifier struct {
	years []int
	res   hijri.Verification
}

func (f *fakeVerifier) Verify(_ context.Context, year int) hijri.Verification {
	f.years = append(f.years, year)
	return f.res
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
}

func TestFence_Monotonic(t *testing.T) {
	var f Fence
	assert.Equal(t, uint64(0), f.Latest())
	assert.False(t, f.IsCurrent(0))

	a, b := f.Next(), f.Next()
	assert.Less(t, a, b)
	assert.False(t, f.IsCurrent(a))
	assert.True(t, f.IsCurrent(b))
}

func TestFence_Concurrent(t *testing.T) {
	var f Fence
	var wg sync.WaitGroup
	seen := make(chan uint64, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- f.Next()
		}()
	}
	wg.Wait()
	close(seen)

	ids := map[uint64]bool{}
	for id := range seen {
		ids[id] = true
	}
	assert.Len(t, ids, 100)
	assert.Equal(t, uint64(100), f.Latest())
}

func TestView_DiscardsStale(t *testing.T) {
	var v View
	_, ok := v.Current()
	assert.False(t, ok)

	assert.True(t, v.Accept(Snapshot{ID: 2, CycleID: "b"}))
	assert.False(t, v.Accept(Snapshot{ID: 1, CycleID: "a"}), "older snapshot must be dropped")
	assert.False(t, v.Accept(Snapshot{ID: 2, CycleID: "b-again"}))

	cur, ok := v.Current()
	require.True(t, ok)
	assert.Equal(t, "b", cur.CycleID)

	assert.True(t, v.Accept(Snapshot{ID: 3, CycleID: "c"}))
	cur, _ = v.Current()
	assert.Equal(t, uint64(3), cur.ID)
}

func TestLoader_TimingsOnly(t *testing.T) {
	src := &fakeTimings{}
	ver := &fakeVerifier{}
	l := NewLoader(src, nil, WithNow(fixedNow), WithLocation(time.UTC), WithVerifier(ver))

	snap := l.Load(context.Background(), Options{})

	require.NoError(t, snap.Err)
	assert.Equal(t, uint64(1), snap.ID)
	_, err := uuid.Parse(snap.CycleID)
	assert.NoError(t, err)
	assert.Equal(t, 5, snap.Timings.Len())
	v, _ := snap.Timings.Get(prayer.Dhuhr)
	assert.Equal(t, "12:15", v)

	h, ok := snap.Hijri()
	require.True(t, ok)
	assert.Equal(t, "1446", h.Year)

	assert.Nil(t, snap.Verification)
	assert.Empty(t, ver.years, "verifier not called without Ramadan option")
	require.Len(t, src.dates, 1)
	assert.True(t, fixedNow().Equal(src.dates[0]))
}

func TestLoader_WithRamadan(t *testing.T) {
	window := &hijri.Window{GregorianYear: 2025, HijriYear: 1446, Days: make([]hijri.Day, 30)}
	ver := &fakeVerifier{res: hijri.Verification{DatesMatch: true, Primary: window}}
	l := NewLoader(&fakeTimings{}, nil, WithNow(fixedNow), WithVerifier(ver))

	snap := l.Load(context.Background(), Options{Ramadan: true})

	assert.Equal(t, []int{2025}, ver.years, "zero year means the current one")
	require.NotNil(t, snap.Verification)
	assert.True(t, snap.Verification.DatesMatch)
	assert.Same(t, window, snap.Ramadan)

	l.Load(context.Background(), Options{Ramadan: true, Year: 2026})
	assert.Equal(t, []int{2025, 2026}, ver.years)
}

func TestLoader_RamadanFailureRecorded(t *testing.T) {
	ver := &fakeVerifier{res: hijri.Verification{PrimaryErr: hijri.ErrNoRamadanDays}}
	l := NewLoader(&fakeTimings{}, nil, WithNow(fixedNow), WithVerifier(ver))

	snap := l.Load(context.Background(), Options{Ramadan: true})

	assert.NoError(t, snap.Err)
	assert.Nil(t, snap.Ramadan)
	assert.ErrorIs(t, snap.RamadanErr, hijri.ErrNoRamadanDays)
}

func TestLoader_TimingsFailure(t *testing.T) {
	boom := errors.New("boom")
	l := NewLoader(&fakeTimings{err: boom}, nil, WithNow(fixedNow))

	snap := l.Load(context.Background(), Options{})

	assert.ErrorIs(t, snap.Err, boom)
	assert.True(t, snap.Timings.Empty())
	_, ok := snap.Hijri()
	assert.False(t, ok)
}

func TestLoader_SharedFenceOrdersCycles(t *testing.T) {
	fence := &Fence{}
	l := NewLoader(&fakeTimings{}, fence, WithNow(fixedNow))
	var v View

	older := l.Load(context.Background(), Options{})
	newer := l.Load(context.Background(), Options{})

	assert.Same(t, fence, l.Fence())
	assert.True(t, v.Accept(newer))
	assert.False(t, v.Accept(older))
	assert.True(t, fence.IsCurrent(newer.ID))
}
