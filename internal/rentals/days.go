package rentals

import "time"

const wireDateFormat = "2006-01-02"

// Days counts the days in a rental window, both endpoints included. A
// single-day rental therefore counts as 1, not 0.
func Days(start, end time.Time) int {
	s := start.Truncate(24 * time.Hour)
	e := end.Truncate(24 * time.Hour)
	days := int(e.Sub(s).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// ParseWireDate parses the date format clients send on the wire.
func ParseWireDate(value string) (time.Time, error) {
	return time.Parse(wireDateFormat, value)
}
