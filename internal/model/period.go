package model

import "time"

// Period is one parsed input row. It is immutable once built.
type Period struct {
	// Index is the 0-based position of the row in the input table, after any
	// header row. Positional month fallback keys off this value.
	Index int
	Label string

	Date    time.Time
	HasDate bool

	// Raw is the return cell as it appeared in the input.
	Raw       string
	Return    float64
	HasReturn bool
}

// CalendarMonth returns the period's month (1..12). When the date could not
// be parsed it falls back to ((Index-origin) mod 12)+1 and reports inferred.
func (p Period) CalendarMonth(origin int) (month int, inferred bool) {
	if p.HasDate {
		return int(p.Date.Month()), false
	}
	pos := (p.Index - origin) % 12
	if pos < 0 {
		pos += 12
	}
	return pos + 1, true
}
