// Package prayer holds the daily Timing Set: the canonical prayer names and
// their normalised "HH:MM" times.
package prayer

import (
	"strings"
	"time"

	"github.com/smokyabdulrahman/ramadan-times/internal/api"
)

// Name identifies a daily event.
type Name string

const (
	Fajr    Name = "Fajr"
	Sunrise Name = "Sunrise"
	Dhuhr   Name = "Dhuhr"
	Asr     Name = "Asr"
	Maghrib Name = "Maghrib"
	Isha    Name = "Isha"
)

// Order lists every event in canonical (chronological) order.
var Order = []Name{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// ShortNames maps full names to abbreviations.
var ShortNames = map[Name]string{
	Fajr:    "F",
	Sunrise: "S",
	Dhuhr:   "D",
	Asr:     "A",
	Maghrib: "M",
	Isha:    "I",
}

// IsPrayer reports whether n is a prayer boundary. Sunrise is informational.
func (n Name) IsPrayer() bool {
	return n != Sunrise
}

// Short returns the abbreviation for n.
func (n Name) Short() string {
	return ShortNames[n]
}

// ParseName matches s case-insensitively against the known names.
func ParseName(s string) (Name, bool) {
	for _, n := range Order {
		if strings.EqualFold(string(n), strings.TrimSpace(s)) {
			return n, true
		}
	}
	return "", false
}

// Entry is one retained Timing Set value.
type Entry struct {
	Name Name
	Time string // "HH:MM"
}

// TimingSet maps event names to canonical times. Only values that
// normalised successfully are kept.
type TimingSet struct {
	values map[Name]string
}

// NewTimingSet normalises the provider's raw timings.
func NewTimingSet(t api.Timings) TimingSet {
	return FromMap(map[Name]string{
		Fajr:    t.Fajr,
		Sunrise: t.Sunrise,
		Dhuhr:   t.Dhuhr,
		Asr:     t.Asr,
		Maghrib: t.Maghrib,
		Isha:    t.Isha,
	})
}

// FromMap builds a TimingSet from raw strings keyed by name. Unknown names
// and values that fail NormalizeTime are dropped.
func FromMap(raw map[Name]string) TimingSet {
	s := TimingSet{values: make(map[Name]string, len(Order))}
	for _, n := range Order {
		if v := NormalizeTime(raw[n]); v != "" {
			s.values[n] = v
		}
	}
	return s
}

// Get returns the canonical time for n.
func (s TimingSet) Get(n Name) (string, bool) {
	v, ok := s.values[n]
	return v, ok
}

// Len returns the number of retained entries.
func (s TimingSet) Len() int {
	return len(s.values)
}

// Empty reports whether no entry was retained.
func (s TimingSet) Empty() bool {
	return len(s.values) == 0
}

// Entries returns the retained values in canonical order.
func (s TimingSet) Entries() []Entry {
	entries := make([]Entry, 0, len(s.values))
	for _, n := range Order {
		if v, ok := s.values[n]; ok {
			entries = append(entries, Entry{Name: n, Time: v})
		}
	}
	return entries
}

// At returns the instant of n on the calendar day of day, in day's location.
func (s TimingSet) At(n Name, day time.Time) (time.Time, bool) {
	v, ok := s.values[n]
	if !ok {
		return time.Time{}, false
	}
	hour, min, ok := parseClock(v)
	if !ok {
		return time.Time{}, false
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, min, 0, 0, day.Location()), true
}

// Map returns the entries keyed by lower-case name, for JSON output.
func (s TimingSet) Map() map[string]string {
	out := make(map[string]string, len(s.values))
	for n, v := range s.values {
		out[strings.ToLower(string(n))] = v
	}
	return out
}
