package report

import (
	"fmt"
	"io"

	"feeder-fund-calc/internal/waterfall"

	"github.com/xuri/excelize/v2"
)

const (
	ResultsSheet = "Results"
	SummarySheet = "Summary"
)

// WriteXLSX writes a workbook with the ledger on Results and the
// configuration audit plus aggregates on Summary.
func WriteXLSX(w io.Writer, res *waterfall.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeResults(f, res.Ledger, bold); err != nil {
		return fmt.Errorf("results sheet: %w", err)
	}
	if err := writeSummary(f, res, bold); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}

// SaveXLSX writes the workbook to path.
func SaveXLSX(path string, res *waterfall.Result) error {
	return writeFile(path, func(w io.Writer) error { return WriteXLSX(w, res) })
}

func writeResults(f *excelize.File, ledger []waterfall.LedgerRow, headerStyle int) error {
	header := make([]interface{}, len(LedgerColumns))
	for i, c := range LedgerColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(ResultsSheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(LedgerColumns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(ResultsSheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, r := range ledger {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.Label,
			fmtDate(r.Date),
			r.Month,
			Round(r.Return * 100),
			Round(r.OpeningNAV),
			Round(r.PnL),
			Round(r.AddBack),
			Round(r.AdjustedGAV),
			Round(r.ManagementFee),
			yesNo(r.ManagementCharged),
			Round(r.NAVBeforePerfFee),
			Round(r.PerfFeeAccrued),
			Round(r.IncrementalAccrual),
			Round(r.Uncrystallized),
			yesNo(r.Crystallized),
			Round(r.PerfFeePaid),
			Round(r.ClosingNAV),
			Round(r.ReturnPct),
			Round(r.HWM),
		}
		if err := f.SetSheetRow(ResultsSheet, cell, &row); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(LedgerColumns))
	if err != nil {
		return err
	}
	return f.SetColWidth(ResultsSheet, "A", lastCol, 14)
}

func writeSummary(f *excelize.File, res *waterfall.Result, headerStyle int) error {
	if err := f.SetSheetRow(SummarySheet, "A1", &[]interface{}{"Parameter", "Value"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	for i, p := range SummaryPairs(res) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &[]interface{}{p.Name, p.Value}); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "A", "B", 28)
}
