package prayer

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeTime converts a provider time string into canonical "HH:MM".
//
// Accepted shapes are 24-hour ("05:17"), 12-hour with a meridiem ("5:17 PM"),
// and 24-hour with a trailing label such as the " (+06)" timezone suffix the
// Al Adhan API appends. Anything missing, blank, or unparseable yields "".
func NormalizeTime(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if strings.Contains(s, ":") && !strings.ContainsAny(s, " \t") {
		hour, min, ok := parseClock(s)
		if !ok {
			return ""
		}
		return formatClock(hour, min)
	}

	fields := strings.Fields(s)
	if len(fields) < 2 {
		return ""
	}
	hour, min, ok := parseClock(fields[0])
	if !ok {
		return ""
	}

	switch strings.ToUpper(fields[1]) {
	case "PM":
		if hour != 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}

	return formatClock(hour, min)
}

// parseClock splits "H:MM" into hour and minute.
func parseClock(s string) (hour, min int, ok bool) {
	h, m, found := strings.Cut(s, ":")
	if !found {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, 0, false
	}
	min, err = strconv.Atoi(m)
	if err != nil {
		return 0, 0, false
	}
	return hour, min, true
}

// formatClock zero-pads both fields. Out-of-range values are rejected.
func formatClock(hour, min int) string {
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", hour, min)
}
