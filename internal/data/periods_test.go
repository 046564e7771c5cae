package data

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPeriods(t *testing.T) {
	in := "Month,Gross\n2019-12-31,0%\n2020-01-31,7.86%\nsomeday,-4.98%\n2020-03-31,oops\n"
	tbl, err := ReadTable(strings.NewReader(in), FormatCSV)
	require.NoError(t, err)

	periods, err := BuildPeriods(tbl)
	require.NoError(t, err)
	require.Len(t, periods, 4)

	assert.Equal(t, 0, periods[0].Index)
	assert.True(t, periods[0].HasDate)
	assert.Equal(t, time.December, periods[0].Date.Month())

	assert.InDelta(t, 0.0786, periods[1].Return, 1e-12)
	assert.True(t, periods[1].HasReturn)

	assert.False(t, periods[2].HasDate)
	assert.True(t, periods[2].HasReturn)
	assert.Equal(t, "someday", periods[2].Label)

	assert.False(t, periods[3].HasReturn)
	assert.Equal(t, "oops", periods[3].Raw)
}

func TestBuildPeriods_AllUnparseable(t *testing.T) {
	tbl, err := NewTable([][]string{{"2020-01-31", "x"}, {"2020-02-29", "y"}})
	require.NoError(t, err)
	_, err = BuildPeriods(tbl)
	assert.ErrorIs(t, err, ErrAllValuesUnparseable)
}

func TestBuildPeriodsFromJSON(t *testing.T) {
	periods, err := BuildPeriodsFromJSON([]JSONRow{
		{Period: "2019-12-31", Return: "0%"},
		{Period: "2020-01-31", Return: 7.86},
	})
	require.NoError(t, err)
	// 7.86 exceeds 1, so the column is percentage-scaled.
	assert.InDelta(t, 0.0786, periods[1].Return, 1e-12)

	_, err = BuildPeriodsFromJSON(nil)
	assert.ErrorIs(t, err, ErrInputShape)
}

func TestDetectBaseRow(t *testing.T) {
	tbl, err := NewTable([][]string{{"2019-12-31", "0%"}, {"2020-01-31", "7.86%"}})
	require.NoError(t, err)
	periods, err := BuildPeriods(tbl)
	require.NoError(t, err)
	assert.True(t, DetectBaseRow(periods))
	assert.False(t, DetectBaseRow(periods[1:]))
	assert.False(t, DetectBaseRow(nil))
}
