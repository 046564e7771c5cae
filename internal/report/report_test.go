package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"feeder-fund-calc/internal/model"
	"feeder-fund-calc/internal/waterfall"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleResult(t *testing.T) *waterfall.Result {
	t.Helper()
	cfg := model.DefaultEngineConfig()
	cfg.BaseRow = true
	periods := []model.Period{
		{Index: 0, Label: "Jan", Raw: "0%", HasReturn: true},
		{Index: 1, Label: "Feb", Raw: "7.86%", Return: 0.0786, HasReturn: true},
		{Index: 2, Label: "Mar", Raw: "x"},
		{Index: 3, Label: "Apr", Raw: "-4.98%", Return: -0.0498, HasReturn: true},
	}
	res, err := waterfall.New().Run(periods, cfg)
	require.NoError(t, err)
	return res
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1.077252", Fixed(1.07725175))
	assert.Equal(t, "0.000000", Fixed(0))
	assert.Equal(t, 1.077252, Round(1.07725175))
	assert.Equal(t, "1.5%", Percent(1.5))
	assert.Equal(t, "10%", Percent(10))
	assert.Equal(t, "out_summary.csv", SummaryPath("out.csv"))
	assert.Equal(t, "dir/run_summary", SummaryPath("dir/run"))
}

func TestParameters_CoverConfig(t *testing.T) {
	params := Parameters(model.DefaultEngineConfig())
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{
		"Method", "Management Fee", "Mgmt Frequency", "Performance Fee", "Perf Calc Frequency",
		"Crystallization Frequency", "Hurdle Rate", "High Water Mark", "HWM Reference",
		"Base Row", "Skip Undated", "Starting NAV",
	}, names)
	assert.Equal(t, "Monthly", params[2].Value)
	assert.Equal(t, "Yearly", params[5].Value)
	assert.Equal(t, "Yes", params[7].Value)
}

func TestWriteLedgerCSV(t *testing.T) {
	res := sampleResult(t)
	var buf bytes.Buffer
	require.NoError(t, WriteLedgerCSV(&buf, res.Ledger))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+len(res.Ledger))
	assert.Equal(t, LedgerColumns, records[0])
	assert.Equal(t, "Feb", records[2][0])
	assert.Equal(t, "7.860000", records[2][3])
	assert.Equal(t, "1.077252", records[2][16])
}

func TestWriteSummaryCSV(t *testing.T) {
	res := sampleResult(t)
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, res))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Parameter,Value\n"))
	assert.Contains(t, out, "Management Fee,1.5%")
	assert.Contains(t, out, "Skipped Rows,1")
	assert.Contains(t, out, "Final NAV,")
}

func TestWriteXLSX(t *testing.T) {
	res := sampleResult(t)
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, res))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ResultsSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(ResultsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1+len(res.Ledger))
	assert.Equal(t, LedgerColumns, rows[0])

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	got := map[string]bool{}
	for _, r := range summary {
		if len(r) > 0 {
			got[r[0]] = true
		}
	}
	for _, p := range Parameters(res.Config) {
		assert.True(t, got[p.Name], p.Name)
	}
	assert.True(t, got["Final NAV"])
}

func TestMarkdown(t *testing.T) {
	res := sampleResult(t)
	out := Markdown("Fee ledger", res)
	assert.Contains(t, out, "# Fee ledger")
	assert.Contains(t, out, "Closing NAV")
	assert.Contains(t, out, "Skipped rows")
	assert.Contains(t, out, "Mar")
	assert.Contains(t, out, "Crystallization Frequency")
}
