// Package countdown derives the next prayer and the time left until it.
//
// Next is a pure function of a Timing Set and an instant. Runner re-evaluates
// it on a fixed tick for as long as its context lives.
package countdown

import (
	"fmt"
	"time"

	"github.com/smokyabdulrahman/ramadan-times/internal/prayer"
)

// Kind distinguishes the countdown states.
type Kind int

const (
	NoNextEvent Kind = iota
	NextEventToday
	NextEventTomorrow
)

func (k Kind) String() string {
	switch k {
	case NextEventToday:
		return "today"
	case NextEventTomorrow:
		return "tomorrow"
	default:
		return "none"
	}
}

// Anchor is the event that rolls over to the following day once every
// prayer of today has passed.
const Anchor = prayer.Fajr

// Remaining is a non-negative duration split into whole units.
type Remaining struct {
	Hours   int
	Minutes int
	Seconds int
}

// Split truncates d toward zero. Negative durations become zero.
func Split(d time.Duration) Remaining {
	if d < 0 {
		d = 0
	}
	return Remaining{
		Hours:   int(d / time.Hour),
		Minutes: int(d % time.Hour / time.Minute),
		Seconds: int(d % time.Minute / time.Second),
	}
}

// Duration converts back to a time.Duration.
func (r Remaining) Duration() time.Duration {
	return time.Duration(r.Hours)*time.Hour + time.Duration(r.Minutes)*time.Minute + time.Duration(r.Seconds)*time.Second
}

// String renders "HH:MM:SS".
func (r Remaining) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", r.Hours, r.Minutes, r.Seconds)
}

// State is the result of one evaluation.
type State struct {
	Kind      Kind
	Name      prayer.Name
	Target    time.Time
	Remaining Remaining
}

// HasNext reports whether a next event was found.
func (s State) HasNext() bool {
	return s.Kind != NoNextEvent
}

// Next returns the first prayer whose time today is strictly after now,
// or tomorrow's Fajr when every prayer has passed. Sunrise is skipped.
// Times are interpreted in now's location.
func Next(ts prayer.TimingSet, now time.Time) State {
	if ts.Empty() {
		return State{Kind: NoNextEvent}
	}

	for _, e := range ts.Entries() {
		if !e.Name.IsPrayer() {
			continue
		}
		at, ok := ts.At(e.Name, now)
		if ok && at.After(now) {
			return newState(NextEventToday, e.Name, at, now)
		}
	}

	at, ok := ts.At(Anchor, now.AddDate(0, 0, 1))
	if !ok {
		return State{Kind: NoNextEvent}
	}
	return newState(NextEventTomorrow, Anchor, at, now)
}

func newState(kind Kind, name prayer.Name, target, now time.Time) State {
	return State{
		Kind:      kind,
		Name:      name,
		Target:    target,
		Remaining: Split(target.Sub(now)),
	}
}
