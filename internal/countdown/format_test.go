package countdown

import (
	"strings"
	"testing"
	"time"

	"github.com/smokyabdulrahman/ramadan-times/internal/prayer"
)

// formatTestState is Asr at 15:02 seen from 12:47.
func formatTestState() State {
	target := time.Date(2026, 2, 28, 15, 2, 0, 0, time.UTC)
	now := time.Date(2026, 2, 28, 12, 47, 0, 0, time.UTC)
	return newState(NextEventToday, prayer.Asr, target, now)
}

func TestFormat_AllBuiltinModes(t *testing.T) {
	s := formatTestState()

	tests := []struct {
		mode string
		want string
	}{
		{FormatTimeRemaining, "2h 15m"},
		{FormatNextPrayerTime, "15:02"},
		{FormatNameAndTime, "Asr 15:02"},
		{FormatNameAndRemaining, "Asr 2h 15m"},
		{FormatShortNameAndTime, "A 15:02"},
		{FormatShortNameAndRemain, "A 2h 15m"},
		{FormatClock, "Asr in 02:15:00"},
		{FormatFull, "Asr 15:02 (2h 15m)"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			got := Format(s, tt.mode, "15:04")
			if got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.mode, got, tt.want)
			}
		})
	}
}

func TestFormat_12HourFormat(t *testing.T) {
	got := Format(formatTestState(), FormatNameAndTime, "3:04 PM")
	if got != "Asr 3:02 PM" {
		t.Errorf("12h format = %q, want %q", got, "Asr 3:02 PM")
	}
}

func TestFormat_UnknownModeDefaultsToNameAndTime(t *testing.T) {
	got := Format(formatTestState(), "nonexistent-format", "15:04")
	if got != "Asr 15:02" {
		t.Errorf("unknown mode = %q, want %q", got, "Asr 15:02")
	}
}

func TestFormat_NoNextEvent(t *testing.T) {
	got := Format(State{}, FormatFull, "15:04")
	if got != NoEventText {
		t.Errorf("no event = %q, want %q", got, NoEventText)
	}
}

func TestFormat_CustomTemplate(t *testing.T) {
	s := formatTestState()

	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{"name and remaining", "{{.Name}} in {{.Remaining}}", "Asr in 2h 15m"},
		{"short name and time", "{{.ShortName}} @ {{.Time}}", "A @ 15:02"},
		{"clock and day", "{{.Name}} {{.Day}} {{.Clock}}", "Asr today 02:15:00"},
		{
			"all numeric fields",
			"{{.Hours}}|{{.Minutes}}|{{.Seconds}}",
			"2|15|0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(s, tt.tmpl, "15:04")
			if got != tt.want {
				t.Errorf("custom template %q = %q, want %q", tt.tmpl, got, tt.want)
			}
		})
	}
}

func TestFormat_InvalidTemplate(t *testing.T) {
	got := Format(formatTestState(), "{{.Invalid", "15:04")
	if !strings.HasPrefix(got, "template-err:") {
		t.Errorf("invalid template should return 'template-err:...', got %q", got)
	}
}

func TestFormat_TemplateBadField(t *testing.T) {
	// Accessing a non-existent field should produce a template execution error.
	got := Format(formatTestState(), "{{.NonExistent}}", "15:04")
	if !strings.HasPrefix(got, "template-err:") {
		t.Errorf("bad field template should return 'template-err:...', got %q", got)
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{"hours and minutes", 2*time.Hour + 15*time.Minute, "2h 15m"},
		{"only minutes", 45 * time.Minute, "45m"},
		{"exactly one hour", time.Hour, "1h 0m"},
		{"zero", 0, "0m"},
		{"negative", -30 * time.Minute, "0m"},
		{"seconds are truncated", 59*time.Minute + 59*time.Second, "59m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatRemaining(Split(tt.duration))
			if got != tt.want {
				t.Errorf("FormatRemaining(%v) = %q, want %q", tt.duration, got, tt.want)
			}
		})
	}
}
