package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-times/internal/api"
	"github.com/smokyabdulrahman/ramadan-times/internal/countdown"
	"github.com/smokyabdulrahman/ramadan-times/internal/dashboard"
	"github.com/smokyabdulrahman/ramadan-times/internal/display"
	"github.com/smokyabdulrahman/ramadan-times/internal/prayer"
)

func (a *app) newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's prayer schedule",
		Long:  "Display today's prayer times, Gregorian and Hijri dates, and the next prayer.",
		Args:  cobra.NoArgs,
		RunE:  a.runToday,
	}
}

func (a *app) runToday(cmd *cobra.Command, args []string) error {
	snap := a.newLoader().Load(cmd.Context(), dashboard.Options{})
	if snap.Err != nil {
		return snap.Err
	}
	if snap.Timings.Empty() {
		return fmt.Errorf("provider returned no usable timings for %s", snap.FetchedAt.Format("2006-01-02"))
	}

	now := snap.FetchedAt
	next := countdown.Next(snap.Timings, now)
	current := currentPrayer(snap.Timings, now)
	layout := a.cfg.TimeLayout()

	if a.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), a.todayJSON(snap, current, next, layout))
	}

	a.printTodayRich(cmd.OutOrStdout(), snap, current, next, layout)
	return nil
}

// currentPrayer returns the last prayer whose time today is at or before now.
// Before Fajr there is none.
func currentPrayer(ts prayer.TimingSet, now time.Time) prayer.Name {
	var current prayer.Name
	for _, e := range ts.Entries() {
		if !e.Name.IsPrayer() {
			continue
		}
		at, ok := ts.At(e.Name, now)
		if ok && !at.After(now) {
			current = e.Name
		}
	}
	return current
}

// printTodayRich renders the colored terminal output for today's prayer schedule.
func (a *app) printTodayRich(w io.Writer, snap dashboard.Snapshot, current prayer.Name, next countdown.State, layout string) {
	now := snap.FetchedAt

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Bold("Prayer Times"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s\n", a.locationString(snap.Day))
	fmt.Fprintf(w, "  %s\n", a.loc.String())
	fmt.Fprintf(w, "  %s\n", formatGregorianDate(now, snap.Day))
	if h, ok := snap.Hijri(); ok {
		if s := h.Format(); s != "" {
			fmt.Fprintf(w, "  %s\n", s)
		}
		if hl := h.HolidayList(); hl != "" {
			fmt.Fprintf(w, "  %s\n", display.Yellow(hl))
		}
	}
	fmt.Fprintln(w)

	maxNameLen := 0
	for _, e := range snap.Timings.Entries() {
		maxNameLen = max(maxNameLen, len(e.Name))
	}

	for _, e := range snap.Timings.Entries() {
		at, _ := snap.Timings.At(e.Name, now)
		line := fmt.Sprintf("  %-*s  %s", maxNameLen, e.Name, at.Format(layout))

		switch {
		case next.Kind == countdown.NextEventToday && e.Name == next.Name:
			suffix := fmt.Sprintf("  <- next in %s", countdown.FormatRemaining(next.Remaining))
			fmt.Fprintln(w, display.Accent(line)+display.Accent(suffix))
		case e.Name == current:
			fmt.Fprintln(w, display.Dim(line))
		default:
			fmt.Fprintln(w, line)
		}
	}

	if next.Kind == countdown.NextEventTomorrow {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", display.Accent(fmt.Sprintf("Next: %s tomorrow at %s (in %s)",
			next.Name, next.Target.Format(layout), countdown.FormatRemaining(next.Remaining))))
	}

	fmt.Fprintln(w)
}

// locationString prefers the coordinates the provider echoed back.
func (a *app) locationString(day *api.Data) string {
	if day != nil && (day.Meta.Latitude != 0 || day.Meta.Longitude != 0) {
		return fmt.Sprintf("%.4f, %.4f", day.Meta.Latitude, day.Meta.Longitude)
	}
	loc := a.client.Location()
	return fmt.Sprintf("%.4f, %.4f", loc.Latitude, loc.Longitude)
}

// formatGregorianDate returns a formatted Gregorian date string.
// Prefers API data; falls back to formatting now.
func formatGregorianDate(now time.Time, day *api.Data) string {
	if day != nil {
		if s := day.Date.Gregorian.Format(); s != "" {
			return s
		}
	}
	return now.Format("02 January 2006")
}

// todayJSON is the JSON output structure for the today command.
type todayJSON struct {
	Location todayJSONLocation `json:"location"`
	Date     todayJSONDate     `json:"date"`
	Timings  map[string]string `json:"timings"`
	Current  string            `json:"current"`
	Next     *nextJSON         `json:"next"`
}

type todayJSONLocation struct {
	Timezone  string  `json:"timezone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Method    int     `json:"method"`
	School    int     `json:"school"`
}

type todayJSONDate struct {
	Gregorian string   `json:"gregorian"`
	Hijri     string   `json:"hijri"`
	Holidays  []string `json:"holidays,omitempty"`
}

// nextJSON describes the upcoming prayer. Shared with the next command.
type nextJSON struct {
	Prayer    string `json:"prayer"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
	Seconds   int    `json:"seconds"`
	Day       string `json:"day"`
}

func newNextJSON(s countdown.State, layout string) *nextJSON {
	if !s.HasNext() {
		return nil
	}
	return &nextJSON{
		Prayer:    strings.ToLower(string(s.Name)),
		Time:      s.Target.Format(layout),
		Remaining: countdown.FormatRemaining(s.Remaining),
		Seconds:   int(s.Remaining.Duration().Seconds()),
		Day:       s.Kind.String(),
	}
}

func (a *app) todayJSON(snap dashboard.Snapshot, current prayer.Name, next countdown.State, layout string) todayJSON {
	loc := a.client.Location()
	timings := make(map[string]string, snap.Timings.Len())
	for _, e := range snap.Timings.Entries() {
		at, _ := snap.Timings.At(e.Name, snap.FetchedAt)
		timings[strings.ToLower(string(e.Name))] = at.Format(layout)
	}

	out := todayJSON{
		Location: todayJSONLocation{
			Timezone:  a.loc.String(),
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			Method:    loc.Method,
			School:    loc.School,
		},
		Date: todayJSONDate{
			Gregorian: formatGregorianDate(snap.FetchedAt, snap.Day),
		},
		Timings: timings,
		Current: strings.ToLower(string(current)),
		Next:    newNextJSON(next, layout),
	}
	if h, ok := snap.Hijri(); ok {
		out.Date.Hijri = h.Format()
		out.Date.Holidays = h.Holidays
	}
	return out
}
