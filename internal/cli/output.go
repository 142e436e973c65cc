package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/smokyabdulrahman/ramadan-times/internal/dashboard"
	"github.com/smokyabdulrahman/ramadan-times/internal/hijri"
)

// writeJSON renders v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// newLoader returns a dashboard loader bound to the app's client and clock.
func (a *app) newLoader(opts ...dashboard.LoaderOption) *dashboard.Loader {
	base := []dashboard.LoaderOption{
		dashboard.WithLocation(a.loc),
		dashboard.WithNow(a.now),
		dashboard.WithLogger(a.log),
	}
	return dashboard.NewLoader(a.client, nil, append(base, opts...)...)
}

// newVerifier returns a Ramadan verifier at the configured adjustment.
func (a *app) newVerifier() *hijri.Verifier {
	fetcher := hijri.NewFetcher(a.client, a.log)
	return hijri.NewVerifier(fetcher, a.cfg.AdjustmentOrDefault(0), a.log)
}

// parseYearArg returns the year in args[0], or the current year.
func (a *app) parseYearArg(args []string) (int, error) {
	if len(args) == 0 {
		return a.today().Year(), nil
	}
	year, err := strconv.Atoi(args[0])
	if err != nil || year < 1 || year > 9999 {
		return 0, fmt.Errorf("invalid year %q: must be a number like 2025", args[0])
	}
	return year, nil
}

// sameDay reports whether a and b fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// providerDate converts the provider's "DD-MM-YYYY" into a time at midnight in loc.
func providerDate(s string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation("02-01-2006", strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
