package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/ramadan-times/internal/api"
	"github.com/smokyabdulrahman/ramadan-times/internal/config"
	"github.com/smokyabdulrahman/ramadan-times/internal/display"
	"github.com/smokyabdulrahman/ramadan-times/internal/fetch"
	"github.com/smokyabdulrahman/ramadan-times/internal/logging"
)

// flagKeys maps global flag names to the config keys they override.
var flagKeys = map[string]string{
	"latitude":    "latitude",
	"longitude":   "longitude",
	"method":      "method",
	"school":      "school",
	"timezone":    "timezone",
	"adjustment":  "adjustment",
	"time-format": "time_format",
	"base-url":    "base_url",
	"log-level":   "log_level",
	"log-format":  "log_format",
}

// app carries the state shared by every subcommand of one root command.
type app struct {
	jsonOutput bool

	cfg    config.Config
	loc    *time.Location
	log    zerolog.Logger
	client *api.Client

	now    func() time.Time
	stdin  io.Reader
	policy *fetch.Policy
}

// Option customises the root command. Used by tests.
type Option func(*app)

// WithNow replaces the wall clock.
func WithNow(now func() time.Time) Option {
	return func(a *app) { a.now = now }
}

// WithStdin replaces the reader watch mode reads Enter presses from.
func WithStdin(r io.Reader) Option {
	return func(a *app) { a.stdin = r }
}

// WithFetchPolicy replaces the provider retry policy.
func WithFetchPolicy(p fetch.Policy) Option {
	return func(a *app) { a.policy = &p }
}

// NewRootCmd creates the root command for the ramadan-times CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string, opts ...Option) *cobra.Command {
	a := &app{
		now:   time.Now,
		stdin: os.Stdin,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	rootCmd := &cobra.Command{
		Use:   "ramadan-times",
		Short: "Prayer times and Ramadan calendar CLI",
		Long: "Prayer times, Hijri dates and the Ramadan calendar for one location,\n" +
			"powered by the Al Adhan API, with a live countdown to the next prayer.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		// Default action: show today's prayer schedule.
		RunE:          a.runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.Float64("latitude", 0, "Override latitude")
	pf.Float64("longitude", 0, "Override longitude")
	pf.Int("method", 1, "Override calculation method (0-23)")
	pf.Int("school", 1, "Override school (0=Shafi, 1=Hanafi)")
	pf.String("timezone", "", "Override IANA time zone, e.g. Asia/Dhaka")
	pf.Int("adjustment", 0, "Hijri date adjustment in days (-3..3)")
	pf.String("time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.String("base-url", "", "Al Adhan API base URL")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: console or json")
	pf.BoolVar(&a.jsonOutput, "json", false, "Output as JSON (where supported)")

	rootCmd.AddCommand(a.newTodayCmd())
	rootCmd.AddCommand(a.newNextCmd())
	rootCmd.AddCommand(a.newRamadanCmd())
	rootCmd.AddCommand(a.newVerifyCmd())
	rootCmd.AddCommand(a.newHijriCmd())
	rootCmd.AddCommand(a.newMonthCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())

	return rootCmd
}

// setup merges configuration and builds the logger and provider client.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	fetchOpts := []fetch.Option{fetch.WithLogger(log)}
	if a.policy != nil {
		fetchOpts = append(fetchOpts, fetch.WithPolicy(*a.policy))
	}
	client := api.NewClient(fetch.New(fetchOpts...), api.Location{
		Latitude:  derefFloat(cfg.Latitude),
		Longitude: derefFloat(cfg.Longitude),
		Method:    cfg.MethodOrDefault(-1),
		School:    cfg.SchoolOrDefault(-1),
		Timezone:  cfg.Timezone,
	})
	if cfg.BaseURL != "" {
		client.BaseURL = cfg.BaseURL
	}

	if a.jsonOutput {
		display.SetEnabled(false)
	}

	a.cfg, a.log, a.loc, a.client = cfg, log, loc, client
	log.Debug().
		Str("timezone", cfg.Timezone).
		Int("method", cfg.MethodOrDefault(-1)).
		Int("adjustment", cfg.AdjustmentOrDefault(0)).
		Msg("configuration loaded")
	return nil
}

// today returns the current instant in the configured time zone.
func (a *app) today() time.Time {
	return a.now().In(a.loc)
}

// effectiveConfig returns the merged configuration values,
// applying the priority: CLI flags > environment > config file > defaults.
// It uses cobra's Changed() to detect whether a flag was explicitly set.
func effectiveConfig(cmd *cobra.Command) (config.Config, error) {
	file, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	env, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()
	var over config.Config
	for name, key := range flagKeys {
		f := lookupChanged(flags, root, name)
		if f == nil {
			continue
		}
		if err := over.Set(key, f.Value.String()); err != nil {
			return config.Config{}, fmt.Errorf("--%s: %w", name, err)
		}
	}

	return config.Defaults().Merge(file).Merge(env).Merge(&over), nil
}

// lookupChanged returns the flag if it was explicitly set on either the local or persistent flag set.
func lookupChanged(local, persistent *pflag.FlagSet, name string) *pflag.Flag {
	if f := local.Lookup(name); f != nil && f.Changed {
		return f
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return f
	}
	return nil
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
