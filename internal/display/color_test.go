package display

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

var styleFuncs = []struct {
	name string
	fn   func(string) string
}{
	{"Bold", Bold},
	{"Dim", Dim},
	{"Green", Green},
	{"Yellow", Yellow},
	{"Red", Red},
	{"Cyan", Cyan},
	{"Gray", Gray},
	{"Accent", Accent},
	{"Highlight", Highlight},
}

func TestStyles_Enabled(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	for _, f := range styleFuncs {
		t.Run(f.name, func(t *testing.T) {
			got := f.fn("text")
			if !strings.Contains(got, "\033[") {
				t.Errorf("%s(\"text\") = %q, want ANSI escape codes", f.name, got)
			}
			if !strings.Contains(got, "text") {
				t.Errorf("%s(\"text\") = %q, lost its text", f.name, got)
			}
			if w := lipgloss.Width(got); w != 4 {
				t.Errorf("%s(\"text\") width = %d, want 4", f.name, w)
			}
		})
	}
}

func TestStyles_Disabled_ReturnPlainText(t *testing.T) {
	SetEnabled(false)

	for _, f := range styleFuncs {
		t.Run(f.name, func(t *testing.T) {
			if got := f.fn("plain"); got != "plain" {
				t.Errorf("%s(\"plain\") with colors disabled = %q, want \"plain\"", f.name, got)
			}
		})
	}
}

func TestBoldf(t *testing.T) {
	SetEnabled(false)

	if got := Boldf("count: %d", 42); got != "count: 42" {
		t.Errorf("Boldf = %q, want %q", got, "count: 42")
	}
}

func TestEnabled_ReportsState(t *testing.T) {
	SetEnabled(true)
	if !Enabled() {
		t.Error("Enabled() should return true after SetEnabled(true)")
	}

	SetEnabled(false)
	if Enabled() {
		t.Error("Enabled() should return false after SetEnabled(false)")
	}
}
