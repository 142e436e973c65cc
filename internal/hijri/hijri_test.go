package hijri

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/ramadan-times/internal/api"
)

var errProvider = errors.New("provider down")

// fakeProvider serves canned Ramadan listings keyed by Hijri year.
type fakeProvider struct {
	mu sync.Mutex

	hijriYear  string
	convertErr error
	listings   map[int][]api.Data
	listErrs   map[int]error

	convertCalls int
	monthCalls   []int
	adjustments  []int
}

func (p *fakeProvider) ConvertToHijri(_ context.Context, date time.Time) (*api.HijriDate, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.convertCalls++
	if p.convertErr != nil {
		return nil, p.convertErr
	}
	return &api.HijriDate{Day: "01", Year: p.hijriYear, Month: api.HijriMonth{Number: 9}}, nil
}

func (p *fakeProvider) FetchHijriMonth(ctx context.Context, hijriYear, month, adjustment int) ([]api.Data, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.monthCalls = append(p.monthCalls, hijriYear)
	p.adjustments = append(p.adjustments, adjustment)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.listErrs[hijriYear]; err != nil {
		return nil, err
	}
	return p.listings[hijriYear], nil
}

// ramadanListing builds n consecutive days starting at start.
func ramadanListing(start time.Time, n, hijriYear int) []api.Data {
	days := make([]api.Data, 0, n)
	for i := 0; i < n; i++ {
		d := start.AddDate(0, 0, i)
		days = append(days, api.Data{
			Timings: api.Timings{Fajr: "04:50 (+06)", Maghrib: "18:05 (+06)"},
			Date: api.DateInfo{
				Gregorian: api.GregorianDate{
					Date:    d.Format("02-01-2006"),
					Day:     d.Format("02"),
					Weekday: api.Weekday{En: d.Weekday().String()},
					Month:   api.GregorianMonth{Number: int(d.Month()), En: d.Month().String()},
					Year:    strconv.Itoa(d.Year()),
				},
				Hijri: api.HijriDate{
					Date:  fmt.Sprintf("%02d-09-%d", i+1, hijriYear),
					Day:   fmt.Sprintf("%02d", i+1),
					Month: api.HijriMonth{Number: 9, En: "Ramaḍān"},
					Year:  strconv.Itoa(hijriYear),
				},
			},
		})
	}
	return days
}

func march(year int) time.Time {
	return time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC)
}

func TestApproximateYear(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{622, 0},
		{2025, 1446},
		{2030, 1451},
		{1990, 1410},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ApproximateYear(tt.in), "ApproximateYear(%d)", tt.in)
	}
}

func TestResolveYear(t *testing.T) {
	t.Run("provider year", func(t *testing.T) {
		p := &fakeProvider{hijriYear: "1447"}
		assert.Equal(t, 1447, ResolveYear(context.Background(), p, 2026))
		assert.Equal(t, 1, p.convertCalls)
	})
	t.Run("provider failure falls back", func(t *testing.T) {
		p := &fakeProvider{convertErr: errProvider}
		assert.Equal(t, ApproximateYear(2025), ResolveYear(context.Background(), p, 2025))
	})
	t.Run("unparseable year falls back", func(t *testing.T) {
		p := &fakeProvider{hijriYear: "fourteen"}
		assert.Equal(t, ApproximateYear(2025), ResolveYear(context.Background(), p, 2025))
	})
}

func TestWindow_FirstCandidateAccepted(t *testing.T) {
	p := &fakeProvider{
		hijriYear: "1447",
		listings:  map[int][]api.Data{1446: ramadanListing(march(2025), 30, 1446)},
	}
	f := NewFetcher(p, zerolog.Nop())

	w, err := f.Window(context.Background(), 2025, 0)
	require.NoError(t, err)

	assert.Equal(t, 1446, w.HijriYear)
	assert.Equal(t, 2025, w.GregorianYear)
	assert.Len(t, w.Days, 30)
	assert.Equal(t, []int{1446}, p.monthCalls, "no further candidates after a match")
}

func TestWindow_CandidateOrder(t *testing.T) {
	p := &fakeProvider{
		hijriYear: "1446",
		listings:  map[int][]api.Data{1447: ramadanListing(march(2025), 29, 1447)},
	}
	f := NewFetcher(p, zerolog.Nop())

	w, err := f.Window(context.Background(), 2025, 2)
	require.NoError(t, err)

	assert.Equal(t, 1447, w.HijriYear)
	assert.Equal(t, 2, w.Adjustment)
	assert.Equal(t, []int{1445, 1446, 1447}, p.monthCalls)
	assert.Equal(t, []int{2, 2, 2}, p.adjustments)
}

func TestWindow_DayFlags(t *testing.T) {
	p := &fakeProvider{
		hijriYear: "1446",
		listings:  map[int][]api.Data{1445: ramadanListing(march(2025), 30, 1446)},
	}
	w, err := NewFetcher(p, zerolog.Nop()).Window(context.Background(), 2025, 0)
	require.NoError(t, err)

	for _, d := range w.Days {
		assert.Equal(t, d.Ordinal == 1, d.First, "day %d First", d.Ordinal)
		odd := d.Ordinal >= 21 && d.Ordinal%2 == 1
		assert.Equal(t, odd, d.NightOfPower, "day %d NightOfPower", d.Ordinal)
	}
	assert.Equal(t, 1, w.Days[0].Ordinal)
	assert.Equal(t, 30, w.Days[29].Ordinal)

	fajr, ok := w.Days[0].Timings.Get("Fajr")
	assert.True(t, ok)
	assert.Equal(t, "04:50", fajr)
}

func TestWindow_FiltersOtherYearsAndInvalidDays(t *testing.T) {
	// 31 Dec 2024 .. 30 Jan 2025, with one day stripped of its Hijri half.
	listing := ramadanListing(time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), 31, 1446)
	listing[5].Date.Hijri = api.HijriDate{}

	p := &fakeProvider{
		hijriYear: "1446",
		listings:  map[int][]api.Data{1445: listing},
	}
	w, err := NewFetcher(p, zerolog.Nop()).Window(context.Background(), 2025, 0)
	require.NoError(t, err)

	require.Len(t, w.Days, 29)
	for _, d := range w.Days {
		assert.Equal(t, "2025", d.Date.Gregorian.Year)
	}
	assert.Equal(t, "01-01-2025", w.Days[0].Date.Gregorian.Date)

	// Numbering follows the Hijri day, not the position among kept days.
	assert.Equal(t, 2, w.Days[0].Ordinal)
	assert.False(t, w.Days[0].First)
	assert.Equal(t, 7, w.Days[4].Ordinal)
	for _, d := range w.Days {
		want := d.Ordinal == 21 || d.Ordinal == 23 || d.Ordinal == 25 || d.Ordinal == 27 || d.Ordinal == 29
		assert.Equal(t, want, d.NightOfPower, "day %d NightOfPower", d.Ordinal)
	}
}

func TestWindow_StartsInPreviousYear(t *testing.T) {
	// 31 Dec 2029 is 1 Ramadan; the remaining 29 days fall in 2030.
	listing := ramadanListing(time.Date(2029, time.December, 31, 0, 0, 0, 0, time.UTC), 30, 1451)
	p := &fakeProvider{
		hijriYear: "1451",
		listings:  map[int][]api.Data{1450: listing},
	}
	w, err := NewFetcher(p, zerolog.Nop()).Window(context.Background(), 2030, 0)
	require.NoError(t, err)
	require.Len(t, w.Days, 29)

	first := w.Days[0]
	assert.Equal(t, "01-01-2030", first.Date.Gregorian.Date)
	assert.Equal(t, 2, first.Ordinal)
	assert.False(t, first.First)

	var nights []int
	for _, d := range w.Days {
		if d.NightOfPower {
			nights = append(nights, d.Ordinal)
		}
	}
	assert.Equal(t, []int{21, 23, 25, 27, 29}, nights)
	assert.Equal(t, 30, w.Days[28].Ordinal)
}

func TestCollectDays_UnparsableHijriDayFallsBackToPosition(t *testing.T) {
	listing := ramadanListing(march(2025), 3, 1446)
	listing[1].Date.Hijri.Day = "second"

	days := collectDays(listing, 2025)
	require.Len(t, days, 3)
	assert.Equal(t, 1, days[0].Ordinal)
	assert.True(t, days[0].First)
	assert.Equal(t, 2, days[1].Ordinal)
	assert.Equal(t, 3, days[2].Ordinal)
}

func TestWindow_NoCandidateComplete(t *testing.T) {
	short := ramadanListing(march(2025), 28, 1446)
	p := &fakeProvider{
		hijriYear: "1446",
		listings:  map[int][]api.Data{1445: short, 1446: short, 1447: short},
	}
	w, err := NewFetcher(p, zerolog.Nop()).Window(context.Background(), 2025, 0)

	assert.Nil(t, w)
	assert.ErrorIs(t, err, ErrNoRamadanDays)
	assert.Equal(t, []int{1445, 1446, 1447}, p.monthCalls)
}

func TestWindow_FailedCandidateSkipped(t *testing.T) {
	p := &fakeProvider{
		hijriYear: "1446",
		listings:  map[int][]api.Data{1446: ramadanListing(march(2025), 30, 1446)},
		listErrs:  map[int]error{1445: errProvider},
	}
	w, err := NewFetcher(p, zerolog.Nop()).Window(context.Background(), 2025, 0)
	require.NoError(t, err)
	assert.Equal(t, 1446, w.HijriYear)
}

func TestWindow_AllCandidatesFail(t *testing.T) {
	p := &fakeProvider{
		hijriYear: "1446",
		listErrs:  map[int]error{1445: errProvider, 1446: errProvider, 1447: errProvider},
	}
	_, err := NewFetcher(p, zerolog.Nop()).Window(context.Background(), 2025, 0)

	assert.ErrorIs(t, err, ErrNoRamadanDays)
	assert.ErrorIs(t, err, errProvider)
	assert.Len(t, p.monthCalls, 3)
}

func TestWindow_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &fakeProvider{hijriYear: "1446"}
	_, err := NewFetcher(p, zerolog.Nop()).Window(ctx, 2025, 0)

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrNoRamadanDays)
	assert.Len(t, p.monthCalls, 1)
}

func TestWindowLen_Nil(t *testing.T) {
	var w *Window
	assert.Equal(t, 0, w.Len())
}
