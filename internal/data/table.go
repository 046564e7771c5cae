package data

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrInputShape = errors.New("input must have at least 2 columns (period, return)")

// Table is the raw input: an optional header and string cells.
// Columns beyond the first two are carried but ignored.
type Table struct {
	Header []string
	Rows   [][]string
	Source string
}

// Format identifies an input encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// FormatFromName guesses the encoding from a file name extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported input file type: %q", filepath.Ext(name))
}

// LoadTable reads a table from disk, picking the decoder by extension.
func LoadTable(path string) (*Table, error) {
	format, err := FormatFromName(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := ReadTable(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Source = path
	return t, nil
}

// ReadTable decodes a table and checks its shape.
func ReadTable(r io.Reader, format Format) (*Table, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = readCSV(r)
	case FormatXLSX:
		rows, err = readXLSX(r)
	case FormatJSON:
		// Keys name the columns, so no row is a header.
		if rows, err = readJSON(r); err != nil {
			return nil, err
		}
		return newTable(rows, false)
	default:
		return nil, fmt.Errorf("unsupported input format: %q", format)
	}
	if err != nil {
		return nil, err
	}
	return NewTable(rows)
}

// NewTable detects a header row and validates that every table has at
// least two columns and one data row.
func NewTable(rows [][]string) (*Table, error) {
	return newTable(rows, true)
}

func newTable(rows [][]string, detectHeader bool) (*Table, error) {
	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInputShape)
	}
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	if width < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInputShape, width)
	}
	t := &Table{}
	if detectHeader && isHeader(rows[0]) {
		t.Header = rows[0]
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: header only", ErrInputShape)
	}
	t.Rows = rows
	return t, nil
}

// Column returns the i-th cell of every row, "" where a row is short.
func (t *Table) Column(i int) []string {
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		if i < len(row) {
			out[r] = row[i]
		}
	}
	return out
}

func isHeader(row []string) bool {
	if len(row) < 2 {
		return false
	}
	if _, ok := parseNumber(row[1]); ok {
		return false
	}
	if _, ok := ParseDate(row[0]); ok {
		return false
	}
	return strings.TrimSpace(row[0]) != "" || strings.TrimSpace(row[1]) != ""
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, r := range rows {
		blank := true
		for _, c := range r {
			if strings.TrimSpace(c) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, r)
		}
	}
	return out
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

// readXLSX uses "Sheet1" when the workbook has it, else the first sheet.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInputShape)
	}
	sheet := sheets[0]
	for _, s := range sheets {
		if s == "Sheet1" {
			sheet = s
			break
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// JSONRow is the JSON input row shape. Return may be a number or a string
// such as "7.86%".
type JSONRow struct {
	Period string `json:"period"`
	Return any    `json:"return"`
}

func readJSON(r io.Reader) ([][]string, error) {
	var in []JSONRow
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return RowsFromJSON(in), nil
}

// RowsFromJSON turns decoded JSON rows into table cells.
func RowsFromJSON(in []JSONRow) [][]string {
	rows := make([][]string, 0, len(in))
	for _, r := range in {
		rows = append(rows, []string{r.Period, FormatRaw(r.Return)})
	}
	return rows
}
