package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-times/internal/display"
	"github.com/smokyabdulrahman/ramadan-times/internal/hijri"
)

func (a *app) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [year]",
		Short: "Cross-check the Ramadan dates for a year",
		Long: "Fetch Ramadan at the configured Hijri adjustment and at one day more, and report\n" +
			"whether the primary result is a complete 29 or 30 day month.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := a.parseYearArg(args)
			if err != nil {
				return err
			}

			v := a.newVerifier().Verify(cmd.Context(), year)
			if a.jsonOutput {
				if err := writeJSON(cmd.OutOrStdout(), newVerifyJSON(v)); err != nil {
					return err
				}
			} else {
				printVerification(cmd.OutOrStdout(), v)
			}

			if v.PrimaryErr != nil {
				return fmt.Errorf("ramadan %d: %w", year, v.PrimaryErr)
			}
			return nil
		},
	}
}

func printVerification(w io.Writer, v hijri.Verification) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", display.Boldf("Ramadan %d verification", v.GregorianYear))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-10s %s\n", "Primary", describeWindow(v.Primary, v.PrimaryErr))
	fmt.Fprintf(w, "  %-10s %s\n", "Secondary", describeWindow(v.Secondary, v.SecondaryErr))
	fmt.Fprintln(w)

	if v.DatesMatch {
		fmt.Fprintf(w, "  Dates match: %s\n", display.Green("yes"))
	} else {
		fmt.Fprintf(w, "  Dates match: %s\n", display.Red("no"))
	}
	fmt.Fprintln(w)
}

// describeWindow summarises a window as "1446 AH, adjustment +0, 30 days, 01 March 2025 - 30 March 2025".
func describeWindow(w *hijri.Window, err error) string {
	if err != nil {
		return display.Red("error: " + err.Error())
	}
	if w.Len() == 0 {
		return display.Dim("(none)")
	}
	first := w.Days[0].Date.Gregorian.Format()
	last := w.Days[len(w.Days)-1].Date.Gregorian.Format()
	return fmt.Sprintf("%d AH, adjustment %+d, %d days, %s - %s", w.HijriYear, w.Adjustment, w.Len(), first, last)
}

type verifyJSON struct {
	GregorianYear  int         `json:"gregorian_year"`
	DatesMatch     bool        `json:"dates_match"`
	Primary        *windowJSON `json:"primary,omitempty"`
	Secondary      *windowJSON `json:"secondary,omitempty"`
	PrimaryError   string      `json:"primary_error,omitempty"`
	SecondaryError string      `json:"secondary_error,omitempty"`
}

func newVerifyJSON(v hijri.Verification) verifyJSON {
	out := verifyJSON{
		GregorianYear: v.GregorianYear,
		DatesMatch:    v.DatesMatch,
		Primary:       newWindowJSON(v.Primary),
		Secondary:     newWindowJSON(v.Secondary),
	}
	if v.PrimaryErr != nil {
		out.PrimaryError = v.PrimaryErr.Error()
	}
	if v.SecondaryErr != nil {
		out.SecondaryError = v.SecondaryErr.Error()
	}
	return out
}
