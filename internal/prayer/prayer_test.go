package prayer

import (
	"testing"
	"time"

	"github.com/smokyabdulrahman/ramadan-times/internal/api"
)

func sampleTimings() api.Timings {
	return api.Timings{
		Fajr:    "04:30 (+06)",
		Sunrise: "05:50 (+06)",
		Dhuhr:   "12:15 (+06)",
		Asr:     "3:30 PM",
		Maghrib: "18:00",
		Isha:    "19:30",
	}
}

func TestNewTimingSet_NormalisesAll(t *testing.T) {
	s := NewTimingSet(sampleTimings())
	if s.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", s.Len())
	}

	want := map[Name]string{
		Fajr: "04:30", Sunrise: "05:50", Dhuhr: "12:15",
		Asr: "15:30", Maghrib: "18:00", Isha: "19:30",
	}
	for name, v := range want {
		got, ok := s.Get(name)
		if !ok || got != v {
			t.Errorf("Get(%s) = %q, %v; want %q", name, got, ok, v)
		}
	}
}

func TestNewTimingSet_DropsInvalid(t *testing.T) {
	timings := sampleTimings()
	timings.Sunrise = ""
	timings.Asr = "garbage"

	s := NewTimingSet(timings)
	if s.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", s.Len())
	}
	if _, ok := s.Get(Sunrise); ok {
		t.Error("empty Sunrise should be dropped")
	}
	if _, ok := s.Get(Asr); ok {
		t.Error("unparseable Asr should be dropped")
	}
}

func TestTimingSet_EntriesCanonicalOrder(t *testing.T) {
	s := FromMap(map[Name]string{
		Isha:       "19:30",
		Fajr:       "04:30",
		Dhuhr:      "12:15",
		"Tahajjud": "02:00",
	})

	entries := s.Entries()
	want := []Name{Fajr, Dhuhr, Isha}
	if len(entries) != len(want) {
		t.Fatalf("len(Entries()) = %d, want %d", len(entries), len(want))
	}
	for i, n := range want {
		if entries[i].Name != n {
			t.Errorf("entries[%d] = %s, want %s", i, entries[i].Name, n)
		}
	}
}

func TestTimingSet_Empty(t *testing.T) {
	var zero TimingSet
	if !zero.Empty() {
		t.Error("zero TimingSet should be empty")
	}
	if _, ok := zero.Get(Fajr); ok {
		t.Error("zero TimingSet should have no Fajr")
	}
	if len(zero.Entries()) != 0 {
		t.Error("zero TimingSet should have no entries")
	}
	if !NewTimingSet(api.Timings{}).Empty() {
		t.Error("TimingSet from empty timings should be empty")
	}
}

func TestTimingSet_At(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Dhaka")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	s := NewTimingSet(sampleTimings())
	day := time.Date(2025, 3, 1, 22, 45, 0, 0, loc)

	got, ok := s.At(Asr, day)
	if !ok {
		t.Fatal("At(Asr) not found")
	}
	want := time.Date(2025, 3, 1, 15, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("At(Asr) = %v, want %v", got, want)
	}
	if got.Location() != loc {
		t.Errorf("At(Asr) location = %v, want %v", got.Location(), loc)
	}

	if _, ok := FromMap(nil).At(Fajr, day); ok {
		t.Error("At on empty set should report false")
	}
}

func TestTimingSet_Map(t *testing.T) {
	m := NewTimingSet(sampleTimings()).Map()
	if m["maghrib"] != "18:00" {
		t.Errorf(`Map()["maghrib"] = %q`, m["maghrib"])
	}
	if len(m) != 6 {
		t.Errorf("len(Map()) = %d, want 6", len(m))
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		want Name
		ok   bool
	}{
		{"fajr", Fajr, true},
		{"MAGHRIB", Maghrib, true},
		{" Isha ", Isha, true},
		{"Tahajjud", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseName(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseName(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestName_IsPrayer(t *testing.T) {
	for _, n := range Order {
		if got, want := n.IsPrayer(), n != Sunrise; got != want {
			t.Errorf("%s.IsPrayer() = %v, want %v", n, got, want)
		}
	}
}

func TestShortNames_AllNames(t *testing.T) {
	for _, n := range Order {
		if n.Short() == "" {
			t.Errorf("ShortNames missing entry for %q", n)
		}
	}
}
