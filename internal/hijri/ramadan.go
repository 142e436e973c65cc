package hijri

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/ramadan-times/internal/api"
	"github.com/smokyabdulrahman/ramadan-times/internal/prayer"
)

// MinRamadanDays is the shortest complete lunar month.
const MinRamadanDays = 29

// ErrNoRamadanDays is returned when no candidate Hijri year yields a complete
// Ramadan inside the requested Gregorian year.
var ErrNoRamadanDays = errors.New("no Ramadan days found")

var nightsOfPower = map[int]bool{21: true, 23: true, 25: true, 27: true, 29: true}

// Day is one day of Ramadan.
type Day struct {
	Date         api.DateInfo
	Ordinal      int
	First        bool
	NightOfPower bool
	Timings      prayer.TimingSet
}

// Window is the accepted Ramadan of one Gregorian year.
type Window struct {
	GregorianYear int
	HijriYear     int
	Adjustment    int
	Days          []Day
}

// Len returns the number of days in the window. A nil window has none.
func (w *Window) Len() int {
	if w == nil {
		return 0
	}
	return len(w.Days)
}

// Fetcher searches the provider for Ramadan.
type Fetcher struct {
	provider Provider
	log      zerolog.Logger
}

// NewFetcher creates a Fetcher on top of p.
func NewFetcher(p Provider, log zerolog.Logger) *Fetcher {
	return &Fetcher{provider: p, log: log}
}

// Window tries the Hijri years around ResolveYear(gregorianYear) in order and
// returns the first whose Ramadan has at least MinRamadanDays days in
// gregorianYear. A failed candidate is skipped; a cancelled ctx ends the search.
func (f *Fetcher) Window(ctx context.Context, gregorianYear, adjustment int) (*Window, error) {
	resolved := ResolveYear(ctx, f.provider, gregorianYear)
	log := f.log.With().
		Int("gregorian_year", gregorianYear).
		Int("adjustment", adjustment).
		Int("resolved_hijri_year", resolved).
		Logger()

	var lastErr error
	for _, candidate := range []int{resolved - 1, resolved, resolved + 1} {
		listing, err := f.provider.FetchHijriMonth(ctx, candidate, api.RamadanMonth, adjustment)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Int("hijri_year", candidate).Msg("ramadan candidate fetch failed")
			lastErr = err
			continue
		}

		days := collectDays(listing, gregorianYear)
		log.Debug().
			Int("hijri_year", candidate).
			Int("listed", len(listing)).
			Int("matching", len(days)).
			Msg("ramadan candidate checked")

		if len(days) >= MinRamadanDays {
			return &Window{
				GregorianYear: gregorianYear,
				HijriYear:     candidate,
				Adjustment:    adjustment,
				Days:          days,
			}, nil
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoRamadanDays, lastErr)
	}
	return nil, fmt.Errorf("%w for %d", ErrNoRamadanDays, gregorianYear)
}

// collectDays keeps the structurally valid days that fall in gregorianYear.
// Each day is numbered by its Hijri day of month, so a month starting in the
// previous Gregorian year begins at day 2 or later. Position is the fallback
// when the provider's day does not parse.
func collectDays(listing []api.Data, gregorianYear int) []Day {
	year := strconv.Itoa(gregorianYear)
	days := make([]Day, 0, len(listing))
	for _, d := range listing {
		if !d.Date.Valid() || d.Date.Gregorian.Year != year {
			continue
		}
		ordinal, err := strconv.Atoi(strings.TrimSpace(d.Date.Hijri.Day))
		if err != nil || ordinal < 1 {
			ordinal = len(days) + 1
		}
		days = append(days, Day{
			Date:         d.Date,
			Ordinal:      ordinal,
			First:        ordinal == 1,
			NightOfPower: nightsOfPower[ordinal],
			Timings:      prayer.NewTimingSet(d.Timings),
		})
	}
	return days
}
