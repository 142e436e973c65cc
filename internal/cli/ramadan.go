package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-times/internal/api"
	"github.com/smokyabdulrahman/ramadan-times/internal/dashboard"
	"github.com/smokyabdulrahman/ramadan-times/internal/display"
	"github.com/smokyabdulrahman/ramadan-times/internal/hijri"
	"github.com/smokyabdulrahman/ramadan-times/internal/prayer"
)

func (a *app) newRamadanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ramadan [year]",
		Short: "Show the Ramadan calendar for a year",
		Long: "Display every day of Ramadan falling in the given Gregorian year (default: this year)\n" +
			"with Sehri (Fajr) and Iftar (Maghrib) times, Night of Power markers, and whether\n" +
			"the dates were confirmed against a second Hijri adjustment.",
		Args: cobra.MaximumNArgs(1),
		RunE: a.runRamadan,
	}
}

func (a *app) runRamadan(cmd *cobra.Command, args []string) error {
	year, err := a.parseYearArg(args)
	if err != nil {
		return err
	}

	loader := a.newLoader(dashboard.WithVerifier(a.newVerifier()))
	snap := loader.Load(cmd.Context(), dashboard.Options{Ramadan: true, Year: year})
	if snap.RamadanErr != nil {
		return fmt.Errorf("ramadan %d: %w", year, snap.RamadanErr)
	}
	if snap.Err != nil {
		// Today's timings only decorate the output.
		a.log.Warn().Err(snap.Err).Msg("today's timings unavailable")
	}

	layout := a.cfg.TimeLayout()
	if a.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), newRamadanJSON(snap.Verification, a.loc, layout))
	}

	printRamadan(cmd.OutOrStdout(), snap.Verification, a.today(), a.loc, layout)
	return nil
}

// printRamadan renders the window as a table followed by the verification footer.
func printRamadan(w io.Writer, v *hijri.Verification, now time.Time, loc *time.Location, layout string) {
	win := v.Primary

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Boldf("Ramadan %d AH (%d)", win.HijriYear, win.GregorianYear))
	fmt.Fprintln(w)

	tbl := display.NewTable([]string{"Day", "Date", "Hijri", "Sehri", "Iftar", "Note"})
	today := -1
	for i, d := range win.Days {
		date, ok := providerDate(d.Date.Gregorian.Date, loc)
		dateStr := d.Date.Gregorian.Format()
		if ok {
			dateStr = date.Format("Mon 02 Jan")
			if sameDay(date, now) {
				today = i
			}
		}

		tbl.AddRow([]string{
			fmt.Sprintf("%d", d.Ordinal),
			dateStr,
			d.Date.Hijri.Day + " " + d.Date.Hijri.Month.En,
			timeCell(d.Timings, prayer.Fajr, date, layout),
			timeCell(d.Timings, prayer.Maghrib, date, layout),
			dayNote(d),
		})
		if d.NightOfPower {
			tbl.SetRowStyle(i, display.Highlight)
		}
	}
	tbl.SetHighlightRow(today)
	fmt.Fprint(w, tbl.Render())

	fmt.Fprintln(w)
	printVerificationFooter(w, v)
	fmt.Fprintln(w)
}

func printVerificationFooter(w io.Writer, v *hijri.Verification) {
	if v.DatesMatch {
		fmt.Fprintf(w, "  %s\n", display.Green(fmt.Sprintf("Dates verified: %d-day month", v.Primary.Len())))
	} else {
		fmt.Fprintf(w, "  %s\n", display.Yellow(fmt.Sprintf("Dates not verified: %d days found", v.Primary.Len())))
	}

	switch {
	case v.SecondaryErr != nil:
		fmt.Fprintf(w, "  %s\n", display.Dim(fmt.Sprintf("Cross-check (adjustment %+d) failed: %v",
			v.Primary.Adjustment+1, v.SecondaryErr)))
	case v.Secondary.Len() > 0:
		first := v.Secondary.Days[0].Date.Gregorian.Format()
		fmt.Fprintf(w, "  %s\n", display.Dim(fmt.Sprintf("With adjustment %+d Ramadan starts %s (%d days)",
			v.Secondary.Adjustment, first, v.Secondary.Len())))
	}
}

// dayNote labels the first day and the odd nights of the last ten.
func dayNote(d hijri.Day) string {
	var notes []string
	if d.First {
		notes = append(notes, "First day")
	}
	if d.NightOfPower {
		notes = append(notes, "Night of Power")
	}
	notes = append(notes, d.Date.Hijri.Holidays...)
	return strings.Join(notes, ", ")
}

// timeCell formats one event of ts on day, or "-" when it is missing.
func timeCell(ts prayer.TimingSet, n prayer.Name, day time.Time, layout string) string {
	if day.IsZero() {
		v, ok := ts.Get(n)
		if !ok {
			return "-"
		}
		return v
	}
	at, ok := ts.At(n, day)
	if !ok {
		return "-"
	}
	return at.Format(layout)
}

type ramadanJSON struct {
	GregorianYear int              `json:"gregorian_year"`
	HijriYear     int              `json:"hijri_year"`
	Adjustment    int              `json:"adjustment"`
	DatesMatch    bool             `json:"dates_match"`
	Days          []ramadanDayJSON `json:"days"`
	Secondary     *windowJSON      `json:"secondary,omitempty"`
	SecondaryErr  string           `json:"secondary_error,omitempty"`
}

type ramadanDayJSON struct {
	Day          int               `json:"day"`
	Gregorian    string            `json:"gregorian"`
	Hijri        string            `json:"hijri"`
	Sehri        string            `json:"sehri"`
	Iftar        string            `json:"iftar"`
	First        bool              `json:"first,omitempty"`
	NightOfPower bool              `json:"night_of_power,omitempty"`
	Timings      map[string]string `json:"timings"`
}

// windowJSON summarises a window without its days.
type windowJSON struct {
	HijriYear  int    `json:"hijri_year"`
	Adjustment int    `json:"adjustment"`
	Days       int    `json:"days"`
	First      string `json:"first,omitempty"`
	Last       string `json:"last,omitempty"`
}

func newWindowJSON(w *hijri.Window) *windowJSON {
	if w == nil {
		return nil
	}
	out := &windowJSON{HijriYear: w.HijriYear, Adjustment: w.Adjustment, Days: w.Len()}
	if n := len(w.Days); n > 0 {
		out.First = isoDate(w.Days[0].Date.Gregorian)
		out.Last = isoDate(w.Days[n-1].Date.Gregorian)
	}
	return out
}

func newRamadanJSON(v *hijri.Verification, loc *time.Location, layout string) ramadanJSON {
	win := v.Primary
	out := ramadanJSON{
		GregorianYear: win.GregorianYear,
		HijriYear:     win.HijriYear,
		Adjustment:    win.Adjustment,
		DatesMatch:    v.DatesMatch,
		Days:          make([]ramadanDayJSON, 0, len(win.Days)),
		Secondary:     newWindowJSON(v.Secondary),
	}
	if v.SecondaryErr != nil {
		out.SecondaryErr = v.SecondaryErr.Error()
	}
	for _, d := range win.Days {
		date, _ := providerDate(d.Date.Gregorian.Date, loc)
		out.Days = append(out.Days, ramadanDayJSON{
			Day:          d.Ordinal,
			Gregorian:    isoDate(d.Date.Gregorian),
			Hijri:        d.Date.Hijri.Format(),
			Sehri:        timeCell(d.Timings, prayer.Fajr, date, layout),
			Iftar:        timeCell(d.Timings, prayer.Maghrib, date, layout),
			First:        d.First,
			NightOfPower: d.NightOfPower,
			Timings:      d.Timings.Map(),
		})
	}
	return out
}

// isoDate rewrites the provider's "DD-MM-YYYY" as "YYYY-MM-DD".
func isoDate(g api.GregorianDate) string {
	t, ok := providerDate(g.Date, time.UTC)
	if !ok {
		return g.Date
	}
	return t.Format("2006-01-02")
}
