package data

import (
	"strconv"
	"strings"
	"time"
)

// Layouts tried in order. Slash dates are day-first, matching the
// spreadsheets this calculator is fed; dash dates with a two-digit year are
// the spreadsheet default "mm-dd-yy".
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2/1/2006",
	"02/01/2006",
	"2/1/06",
	"1-2-06",
	"01-02-06",
	"2006/01/02",
	"2-Jan-2006",
	"2 Jan 2006",
	"Jan 2006",
	"January 2006",
	"Jan-06",
	"Jan-2006",
	"2006-01",
	"01/2006",
	"1/2006",
}

// minExcelSerial is 1901-01-01. Smaller integers are period numbers, not dates.
const minExcelSerial = 367

// excelEpoch is day zero of the 1900 date system, already shifted for the
// spreadsheet leap-year bug.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseDate parses a period label. ok is false when nothing matches.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// Spreadsheet serial day numbers, e.g. 43861 for 2020-01-31.
	if n, err := strconv.ParseFloat(s, 64); err == nil && n >= minExcelSerial && n < 2958466 {
		days := int(n)
		return excelEpoch.AddDate(0, 0, days), true
	}
	return time.Time{}, false
}
