package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-times/internal/countdown"
	"github.com/smokyabdulrahman/ramadan-times/internal/dashboard"
)

const formatHelp = "Display format: time-remaining, next-prayer-time, name-and-time, name-and-remaining, " +
	"short-name-and-time, short-name-and-remaining, clock, full, or a custom Go template"

func (a *app) newNextCmd() *cobra.Command {
	var (
		format      string
		watch       bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next prayer with countdown",
		Long: "Display the next upcoming prayer time with a countdown.\n" +
			"With --watch the countdown updates every second; press Enter to re-fetch.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = a.cfg.Format
			}
			if watch {
				return a.runWatch(cmd, format, metricsAddr)
			}
			return a.runNext(cmd, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", countdown.FormatFull, formatHelp)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep running and update the countdown every second")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while watching, e.g. :9090")

	return cmd
}

// runNext prints the next prayer once, without a trailing newline so the
// output can be embedded in status bars.
func (a *app) runNext(cmd *cobra.Command, format string) error {
	snap := a.newLoader().Load(cmd.Context(), dashboard.Options{})
	if snap.Err != nil {
		return snap.Err
	}

	state := countdown.Next(snap.Timings, snap.FetchedAt)
	layout := a.cfg.TimeLayout()

	if a.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), newNextJSON(state, layout))
	}

	fmt.Fprint(cmd.OutOrStdout(), countdown.Format(state, format, layout))
	return nil
}
