// Package hijri locates Ramadan inside a Gregorian year.
//
// ResolveYear picks the Hijri year to start from, Fetcher searches the
// neighbouring years for a complete Ramadan listing, and Verifier repeats the
// search under a second adjustment as a consistency check.
package hijri

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/smokyabdulrahman/ramadan-times/internal/api"
)

// Converter converts a single Gregorian date to its Hijri counterpart.
type Converter interface {
	ConvertToHijri(ctx context.Context, date time.Time) (*api.HijriDate, error)
}

// MonthSource lists every day of a Hijri month.
type MonthSource interface {
	FetchHijriMonth(ctx context.Context, hijriYear, month, adjustment int) ([]api.Data, error)
}

// Provider is everything the Fetcher needs from the calendar provider.
// *api.Client satisfies it.
type Provider interface {
	Converter
	MonthSource
}

// ResolveYear returns the Hijri year of 1 March of gregorianYear. When the
// conversion fails for any reason it falls back to ApproximateYear.
func ResolveYear(ctx context.Context, c Converter, gregorianYear int) int {
	anchor := time.Date(gregorianYear, time.March, 1, 0, 0, 0, 0, time.UTC)
	h, err := c.ConvertToHijri(ctx, anchor)
	if err != nil || h == nil {
		return ApproximateYear(gregorianYear)
	}
	year, err := strconv.Atoi(strings.TrimSpace(h.Year))
	if err != nil || year <= 0 {
		return ApproximateYear(gregorianYear)
	}
	return year
}

// ApproximateYear maps a Gregorian year onto the Hijri calendar using the
// ratio of the solar to the lunar year.
func ApproximateYear(gregorianYear int) int {
	n := float64(gregorianYear - 622)
	return int(math.Floor(n + n/32.5))
}
