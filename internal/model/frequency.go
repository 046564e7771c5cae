package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Frequency is the cadence at which a fee event fires.
// Keep these values stable; they appear in exports and config files.
type Frequency string

const (
	Monthly   Frequency = "Monthly"
	Quarterly Frequency = "Quarterly"
	Yearly    Frequency = "Yearly"
)

var ErrUnknownFrequency = errors.New("unknown frequency")

// Each cadence is described by the cron month field of a schedule that fires
// on the first of the month. Only the month set is consulted.
var frequencySpecs = map[Frequency]string{
	Monthly:   "0 0 1 * *",
	Quarterly: "0 0 1 3,6,9,12 *",
	Yearly:    "0 0 1 12 *",
}

var frequencyMonths = mustMonthSets(frequencySpecs)

func mustMonthSets(specs map[Frequency]string) map[Frequency]uint64 {
	out := make(map[Frequency]uint64, len(specs))
	for f, spec := range specs {
		sched, err := cron.ParseStandard(spec)
		if err != nil {
			panic(fmt.Errorf("frequency %s: %w", f, err))
		}
		ss, ok := sched.(*cron.SpecSchedule)
		if !ok {
			panic(fmt.Errorf("frequency %s: unexpected schedule type %T", f, sched))
		}
		out[f] = ss.Month
	}
	return out
}

// Frequencies lists the supported cadences in display order.
func Frequencies() []Frequency {
	return []Frequency{Monthly, Quarterly, Yearly}
}

// ParseFrequency accepts the canonical names case-insensitively, plus a few
// common aliases ("month", "quarter", "annual").
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "month", "m":
		return Monthly, nil
	case "quarterly", "quarter", "q":
		return Quarterly, nil
	case "yearly", "year", "annual", "annually", "y":
		return Yearly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFrequency, s)
}

func (f Frequency) Valid() bool {
	_, ok := frequencyMonths[f]
	return ok
}

// PeriodsPerYear is the number of times the frequency fires in a calendar year.
func (f Frequency) PeriodsPerYear() float64 {
	switch f {
	case Monthly:
		return 12
	case Quarterly:
		return 4
	case Yearly:
		return 1
	}
	return 0
}

// Fires reports whether an event on this cadence happens in the given
// calendar month (1..12). Unknown frequencies and months never fire.
func (f Frequency) Fires(month int) bool {
	if month < 1 || month > 12 {
		return false
	}
	set, ok := frequencyMonths[f]
	if !ok {
		return false
	}
	return set&(1<<uint(month)) != 0
}

// Fires is the free-function form of Frequency.Fires.
func Fires(f Frequency, month int) bool {
	return f.Fires(month)
}

func (f *Frequency) UnmarshalText(text []byte) error {
	parsed, err := ParseFrequency(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f Frequency) MarshalText() ([]byte, error) {
	return []byte(f), nil
}
