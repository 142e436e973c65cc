package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/ramadan-times/internal/config"
	"github.com/smokyabdulrahman/ramadan-times/internal/display"
)

// skipSetup replaces the root pre-run so that settings commands keep working
// when the stored configuration is broken.
func skipSetup(cmd *cobra.Command, args []string) error { return nil }

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "config",
		Short:             "Show or modify configuration",
		Long:              "Display current configuration, or use subcommands to modify it.\nWhen run without subcommands, shows the current configuration.",
		Args:              cobra.NoArgs,
		PersistentPreRunE: skipSetup,
		RunE:              runConfigShow,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value",
		Long: fmt.Sprintf("Set a configuration value. Valid keys: %s\n\nExamples:\n  ramadan-times config set latitude 21.4225\n  ramadan-times config set longitude 39.8262\n  ramadan-times config set timezone Asia/Riyadh\n  ramadan-times config set method 4\n  ramadan-times config set adjustment -1\n  ramadan-times config set time_format 12h",
			strings.Join(config.ValidKeys, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: runConfigSet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print a single config value",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigGet,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Reset config to defaults",
		Long:  "Delete the config file and restore all settings to defaults.",
		Args:  cobra.NoArgs,
		RunE:  runConfigReset,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print config file path",
		Args:  cobra.NoArgs,
		RunE:  runConfigPath,
	})

	return cmd
}

// runConfigShow displays the stored configuration next to the defaults.
func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	defaults := config.Defaults()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  Configuration (%s)\n\n", path)

	for _, key := range config.ValidKeys {
		val, _ := cfg.Get(key)
		shown := describeValue(key, val)
		if val == "" {
			def, _ := defaults.Get(key)
			shown = display.Dim(fmt.Sprintf("(default: %s)", describeValue(key, def)))
		}
		fmt.Fprintf(out, "  %-14s %s\n", key, shown)
	}
	return nil
}

// runConfigSet sets a config key to the given value.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}

// runConfigGet prints the stored value of one key, or its default.
func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	val, err := cfg.Get(args[0])
	if err != nil {
		return err
	}
	if val == "" {
		defaults := config.Defaults()
		val, _ = defaults.Get(args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), val)
	return nil
}

// runConfigReset deletes the config file.
func runConfigReset(cmd *cobra.Command, args []string) error {
	if err := config.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults.")
	return nil
}

// runConfigPath prints the config file path.
func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

// describeValue adds a label to method and school ids.
func describeValue(key, val string) string {
	if val == "" {
		return "(not set)"
	}
	switch key {
	case "method":
		return formatMethodValue(val)
	case "school":
		return formatSchoolValue(val)
	default:
		return val
	}
}

// formatMethodValue adds the method name to the numeric value.
func formatMethodValue(val string) string {
	for _, m := range CalculationMethods {
		if strconv.Itoa(m.ID) == val {
			return fmt.Sprintf("%s (%s)", val, m.Name)
		}
	}
	return val
}

// formatSchoolValue adds the school name to the numeric value.
func formatSchoolValue(val string) string {
	switch val {
	case "0":
		return "0 (Shafi)"
	case "1":
		return "1 (Hanafi)"
	default:
		return val
	}
}

// CalculationMethods lists all supported Al Adhan API calculation methods.
var CalculationMethods = []struct {
	ID   int
	Name string
}{
	{0, "Shia Ithna-Ashari (Jafari)"},
	{1, "University of Islamic Sciences, Karachi"},
	{2, "Islamic Society of North America (ISNA)"},
	{3, "Muslim World League (MWL)"},
	{4, "Umm Al-Qura University, Makkah"},
	{5, "Egyptian General Authority of Survey"},
	{7, "Institute of Geophysics, University of Tehran"},
	{8, "Gulf Region"},
	{9, "Kuwait"},
	{10, "Qatar"},
	{11, "Majlis Ugama Islam Singapura (Singapore)"},
	{12, "Union Organization Islamic de France"},
	{13, "Diyanet Isleri Baskanligi, Turkey (experimental)"},
	{14, "Spiritual Administration of Muslims of Russia"},
	{15, "Moonsighting Committee Worldwide"},
	{16, "Dubai (experimental)"},
	{17, "JAKIM (Malaysia)"},
	{18, "Tunisia"},
	{19, "Algeria"},
	{20, "KEMENAG (Indonesia)"},
	{21, "Morocco"},
	{22, "Comunidade Islamica de Lisboa (Portugal)"},
	{23, "Ministry of Awqaf, Jordan"},
}

func newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "methods",
		Short:             "List all calculation methods",
		Long:              "Print the table of all supported Al Adhan API calculation methods.",
		Args:              cobra.NoArgs,
		PersistentPreRunE: skipSetup,
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl := display.NewTable([]string{"ID", "Name"})
			for _, m := range CalculationMethods {
				tbl.AddRow([]string{strconv.Itoa(m.ID), m.Name})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Supported calculation methods:")
			fmt.Fprintln(out)
			fmt.Fprint(out, tbl.Render())
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Use --method <ID> to select a calculation method.")
			fmt.Fprintf(out, "The default is %d (%s).\n", CalculationMethods[1].ID, CalculationMethods[1].Name)
			return nil
		},
	}
}
