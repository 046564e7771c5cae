package data

import (
	"fmt"
	"math"
	"strings"

	"feeder-fund-calc/internal/model"

	"github.com/rs/zerolog/log"
)

// baseRowEpsilon is the magnitude under which a first-row return counts as
// a zero "base" return.
const baseRowEpsilon = 0.0001

// BuildPeriods parses the first two columns of t into periods.
// It fails only when no return in the table can be parsed.
func BuildPeriods(t *Table) ([]model.Period, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil table", ErrInputShape)
	}
	labels := t.Column(0)
	raw := t.Column(1)
	returns, err := ParseReturns(raw)
	if err != nil {
		return nil, err
	}

	periods := make([]model.Period, len(labels))
	for i := range labels {
		p := model.Period{
			Index:     i,
			Label:     strings.TrimSpace(labels[i]),
			Raw:       raw[i],
			Return:    returns[i].Value,
			HasReturn: returns[i].OK,
		}
		p.Date, p.HasDate = ParseDate(labels[i])
		periods[i] = p
	}
	warnUnordered(periods, t.Source)
	return periods, nil
}

// BuildPeriodsFromJSON is BuildPeriods for API payloads.
func BuildPeriodsFromJSON(in []JSONRow) ([]model.Period, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: no periods", ErrInputShape)
	}
	t, err := newTable(RowsFromJSON(in), false)
	if err != nil {
		return nil, err
	}
	t.Source = "request"
	return BuildPeriods(t)
}

// DetectBaseRow reports whether the first period looks like a base row: a
// missing return or one that is effectively zero.
func DetectBaseRow(periods []model.Period) bool {
	if len(periods) == 0 {
		return false
	}
	first := periods[0]
	return !first.HasReturn || math.Abs(first.Return) < baseRowEpsilon
}

func warnUnordered(periods []model.Period, source string) {
	var prev *model.Period
	for i := range periods {
		p := &periods[i]
		if !p.HasDate {
			continue
		}
		if prev != nil && !p.Date.After(prev.Date) {
			log.Warn().
				Str("source", source).
				Str("period", p.Label).
				Str("previous", prev.Label).
				Msg("period dates are not strictly increasing; rows are processed in input order")
			return
		}
		prev = p
	}
}
