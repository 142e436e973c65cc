package countdown

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Format constants for display modes.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatClock              = "clock"
	FormatFull               = "full"
)

// NoEventText is printed when there is no next event.
const NoEventText = "--:--"

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Name      string // Full prayer name, e.g. "Asr"
	ShortName string // Abbreviated name, e.g. "A"
	Time      string // Formatted prayer time, e.g. "15:02" or "3:02 PM"
	Remaining string // Time remaining, e.g. "2h 15m"
	Clock     string // Time remaining as "HH:MM:SS"
	Day       string // "today" or "tomorrow"
	Hours     int
	Minutes   int
	Seconds   int
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(r Remaining) string {
	if r.Hours > 0 {
		return fmt.Sprintf("%dh %dm", r.Hours, r.Minutes)
	}
	return fmt.Sprintf("%dm", r.Minutes)
}

// Format renders a state according to the chosen mode.
// timeFormat should be "15:04" for 24h or "3:04 PM" for 12h.
//
// If mode contains "{{", it is treated as a custom Go template string.
// Available template fields: .Name, .ShortName, .Time, .Remaining, .Clock,
// .Day, .Hours, .Minutes, .Seconds
//
// Example: "{{.Name}} in {{.Clock}}" -> "Asr in 02:15:00"
func Format(s State, mode string, timeFormat string) string {
	if !s.HasNext() {
		return NoEventText
	}

	remaining := FormatRemaining(s.Remaining)
	timeStr := s.Target.Format(timeFormat)
	short := s.Name.Short()

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, FormatData{
			Name:      string(s.Name),
			ShortName: short,
			Time:      timeStr,
			Remaining: remaining,
			Clock:     s.Remaining.String(),
			Day:       s.Kind.String(),
			Hours:     s.Remaining.Hours,
			Minutes:   s.Remaining.Minutes,
			Seconds:   s.Remaining.Seconds,
		})
	}

	switch mode {
	case FormatTimeRemaining:
		return remaining
	case FormatNextPrayerTime:
		return timeStr
	case FormatNameAndTime:
		return fmt.Sprintf("%s %s", s.Name, timeStr)
	case FormatNameAndRemaining:
		return fmt.Sprintf("%s %s", s.Name, remaining)
	case FormatShortNameAndTime:
		return fmt.Sprintf("%s %s", short, timeStr)
	case FormatShortNameAndRemain:
		return fmt.Sprintf("%s %s", short, remaining)
	case FormatClock:
		return fmt.Sprintf("%s in %s", s.Name, s.Remaining)
	case FormatFull:
		return fmt.Sprintf("%s %s (%s)", s.Name, timeStr, remaining)
	default:
		return fmt.Sprintf("%s %s", s.Name, timeStr)
	}
}

// formatCustom executes a user-provided Go template string against the FormatData.
func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	return buf.String()
}
