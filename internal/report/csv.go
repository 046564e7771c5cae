package report

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"feeder-fund-calc/internal/waterfall"
)

func WriteLedgerCSV(w io.Writer, ledger []waterfall.LedgerRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(LedgerColumns); err != nil {
		return err
	}
	for _, r := range ledger {
		if err := cw.Write(LedgerCells(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes the Parameter/Value audit table for res.
func WriteSummaryCSV(w io.Writer, res *waterfall.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Parameter", "Value"}); err != nil {
		return err
	}
	for _, p := range SummaryPairs(res) {
		if err := cw.Write([]string{p.Name, p.Value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the ledger to path and the summary next to it, with
// "_summary" inserted before the extension.
func SaveCSV(path string, res *waterfall.Result) error {
	if err := writeFile(path, func(w io.Writer) error { return WriteLedgerCSV(w, res.Ledger) }); err != nil {
		return err
	}
	return writeFile(SummaryPath(path), func(w io.Writer) error { return WriteSummaryCSV(w, res) })
}

func SummaryPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_summary" + ext
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
