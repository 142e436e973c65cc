package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-times/internal/api"
	"github.com/smokyabdulrahman/ramadan-times/internal/display"
	"github.com/smokyabdulrahman/ramadan-times/internal/prayer"
)

func (a *app) newMonthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show prayer times for a Gregorian month",
		Long:  "Display a grid of prayer times and Hijri dates for every day of a month (default: this month).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.today()
			year, month := now.Year(), now.Month()
			if len(args) == 1 {
				t, err := time.Parse("2006-01", args[0])
				if err != nil {
					return fmt.Errorf("invalid month %q: expected YYYY-MM", args[0])
				}
				year, month = t.Year(), t.Month()
			}

			days, err := a.client.FetchMonthCalendar(cmd.Context(), year, int(month), a.cfg.AdjustmentOrDefault(0))
			if err != nil {
				return err
			}

			layout := a.cfg.TimeLayout()
			if a.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), newMonthJSON(days))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  %s\n", display.Bold(fmt.Sprintf("%s %d", month, year)))
			fmt.Fprintln(out)
			fmt.Fprint(out, monthTable(days, now, a.loc, layout).Render())
			fmt.Fprintln(out)
			return nil
		},
	}
}

// monthTable lays out one row per day. Today is highlighted and Ramadan days are marked.
func monthTable(days []api.Data, now time.Time, loc *time.Location, layout string) *display.Table {
	headers := []string{"Date", "Hijri"}
	for _, n := range prayer.Order {
		headers = append(headers, string(n))
	}
	tbl := display.NewTable(headers)

	for i, d := range days {
		date, ok := providerDate(d.Date.Gregorian.Date, loc)
		dateStr := d.Date.Gregorian.Date
		if ok {
			dateStr = date.Format("Mon 02 Jan")
		}

		ts := prayer.NewTimingSet(d.Timings)
		row := []string{dateStr, d.Date.Hijri.Day + " " + d.Date.Hijri.Month.En}
		for _, n := range prayer.Order {
			row = append(row, timeCell(ts, n, date, layout))
		}
		tbl.AddRow(row)

		switch {
		case ok && sameDay(date, now):
			tbl.SetHighlightRow(i)
		case d.Date.Hijri.Month.Number == api.RamadanMonth:
			tbl.SetRowStyle(i, display.Cyan)
		}
	}
	return tbl
}

type monthDayJSON struct {
	Gregorian string            `json:"gregorian"`
	Hijri     string            `json:"hijri"`
	Holidays  []string          `json:"holidays,omitempty"`
	Timings   map[string]string `json:"timings"`
}

func newMonthJSON(days []api.Data) []monthDayJSON {
	out := make([]monthDayJSON, 0, len(days))
	for _, d := range days {
		out = append(out, monthDayJSON{
			Gregorian: isoDate(d.Date.Gregorian),
			Hijri:     d.Date.Hijri.Format(),
			Holidays:  d.Date.Hijri.Holidays,
			Timings:   prayer.NewTimingSet(d.Timings).Map(),
		})
	}
	return out
}
