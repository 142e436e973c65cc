package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-times/internal/display"
)

func (a *app) newHijriCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hijri [YYYY-MM-DD]",
		Short: "Convert a Gregorian date to the Hijri calendar",
		Long:  "Convert a Gregorian date (default: today) to its Hijri date.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := a.today()
			if len(args) == 1 {
				d, err := time.ParseInLocation("2006-01-02", args[0], a.loc)
				if err != nil {
					return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", args[0])
				}
				date = d
			}

			h, err := a.client.ConvertToHijri(cmd.Context(), date)
			if err != nil {
				return err
			}
			if !h.Valid() {
				return fmt.Errorf("provider returned an incomplete Hijri date for %s", date.Format("2006-01-02"))
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return writeJSON(out, h)
			}

			fmt.Fprintf(out, "  %s  %s\n", date.Format("Mon 02 January 2006"), display.Dim("->"))
			fmt.Fprintf(out, "  %s", display.Accent(h.Format()))
			if h.Month.Ar != "" {
				fmt.Fprintf(out, "  %s", h.Month.Ar)
			}
			fmt.Fprintln(out)
			if hl := h.HolidayList(); hl != "" {
				fmt.Fprintf(out, "  %s\n", display.Yellow(hl))
			}
			return nil
		},
	}
}
