package data

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var ErrAllValuesUnparseable = errors.New("cannot parse returns column: expected numbers or percentages (e.g. 7.89 or 7.89%)")

// ParsedReturn is one decimal return aligned with its input position.
// OK is false when the raw value could not be coerced to a number.
type ParsedReturn struct {
	Value float64
	OK    bool
}

// ParseReturns normalizes raw return cells into decimal returns.
//
// Each cell is trimmed, a trailing "%" and thousands separators are removed,
// and the rest is parsed as a float. If any parsed magnitude exceeds 1 the
// whole column is treated as percentages and every value is divided by 100.
// The decision is made once for the column, never per value.
func ParseReturns(raw []string) ([]ParsedReturn, error) {
	out := make([]ParsedReturn, len(raw))
	percentScaled := false
	parsed := 0
	for i, s := range raw {
		v, ok := parseNumber(s)
		if !ok {
			continue
		}
		out[i] = ParsedReturn{Value: v, OK: true}
		parsed++
		if math.Abs(v) > 1 {
			percentScaled = true
		}
	}
	if parsed == 0 {
		return nil, ErrAllValuesUnparseable
	}
	if percentScaled {
		for i := range out {
			if out[i].OK {
				out[i].Value /= 100
			}
		}
	}
	return out, nil
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FormatRaw renders a JSON-decoded cell (string or number) as the string the
// parser expects. Nil yields an empty cell.
func FormatRaw(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return ""
	default:
		if s, ok := v.(interface{ String() string }); ok {
			return s.String()
		}
		return ""
	}
}
