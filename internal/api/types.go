package api

import "strings"

// Data holds one day's prayer timings, date info, and metadata.
// Calendar endpoints return a slice of these, one per day.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`
}

// Timings contains the raw time strings returned by the provider.
// Values may be 24-hour ("05:17"), carry a timezone suffix ("05:17 (+06)"),
// or be 12-hour with a meridiem ("5:17 AM"). Normalisation happens in
// internal/prayer.
type Timings struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

// DateInfo pairs the Gregorian and Hijri descriptions of the same day.
type DateInfo struct {
	Readable  string        `json:"readable"`
	Timestamp string        `json:"timestamp"`
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

// Valid reports whether both halves are fully populated.
func (d DateInfo) Valid() bool {
	return d.Gregorian.Valid() && d.Hijri.Valid()
}

// Conversion is the payload of the single-date conversion endpoint.
type Conversion struct {
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

// HijriDate represents the Hijri (Islamic) date.
type HijriDate struct {
	Date        string           `json:"date"` // e.g. "01-09-1446"
	Day         string           `json:"day"`
	Weekday     Weekday          `json:"weekday"`
	Month       HijriMonth       `json:"month"`
	Year        string           `json:"year"`
	Designation HijriDesignation `json:"designation"`
	Holidays    []string         `json:"holidays"`
}

// HijriMonth represents the month in the Hijri calendar.
type HijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"` // e.g. "Ramaḍān"
	Ar     string `json:"ar"` // e.g. "رَمَضان"
}

// Weekday carries English and, for Hijri dates, Arabic weekday names.
type Weekday struct {
	En string `json:"en"`
	Ar string `json:"ar,omitempty"`
}

// HijriDesignation contains the calendar designation labels.
type HijriDesignation struct {
	Abbreviated string `json:"abbreviated"` // "AH"
	Expanded    string `json:"expanded"`    // "Anno Hegirae"
}

// Valid reports whether the Hijri descriptor has every field a Calendar Day needs.
func (h HijriDate) Valid() bool {
	return h.Day != "" && h.Year != "" && h.Month.Number >= 1 && h.Month.Number <= 12
}

// Format returns the Hijri date as "DD MonthName YYYY AH".
func (h HijriDate) Format() string {
	if h.Day == "" || h.Month.En == "" || h.Year == "" {
		return ""
	}
	abbr := h.Designation.Abbreviated
	if abbr == "" {
		abbr = "AH"
	}
	return h.Day + " " + h.Month.En + " " + h.Year + " " + abbr
}

// HolidayList joins holiday labels with ", ".
func (h HijriDate) HolidayList() string {
	return strings.Join(h.Holidays, ", ")
}

// GregorianDate represents the Gregorian date.
type GregorianDate struct {
	Date    string         `json:"date"` // e.g. "01-03-2025"
	Day     string         `json:"day"`
	Weekday Weekday        `json:"weekday"`
	Month   GregorianMonth `json:"month"`
	Year    string         `json:"year"`
}

// GregorianMonth contains the month details.
type GregorianMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"` // e.g. "March"
}

// Valid reports whether the Gregorian descriptor is fully populated.
func (g GregorianDate) Valid() bool {
	return g.Date != "" && g.Day != "" && g.Year != "" &&
		g.Month.Number >= 1 && g.Month.Number <= 12 && g.Weekday.En != ""
}

// Format returns the date as "DD MonthName YYYY".
func (g GregorianDate) Format() string {
	if g.Day == "" || g.Month.En == "" || g.Year == "" {
		return ""
	}
	return g.Day + " " + g.Month.En + " " + g.Year
}

// Meta contains request metadata returned by the API.
type Meta struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Method    MethodInfo `json:"method"`
	School    string     `json:"school"`
}

// MethodInfo identifies the calculation method used.
type MethodInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
