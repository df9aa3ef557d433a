package dataset

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"insights/internal/model"

	"github.com/xuri/excelize/v2"
)

// RequiredColumns must be present in the header row of an uploaded sheet
var RequiredColumns = []string{"year", "area", "price", "demand"}

// ErrMissingColumns is returned when the header row lacks a required column
var ErrMissingColumns = errors.New("missing required columns")

// MissingColumnsError lists which required columns were not found
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("Excel must contain columns: %s", strings.Join(RequiredColumns, ", "))
}

func (e *MissingColumnsError) Unwrap() error {
	return ErrMissingColumns
}

// LoadExcelFile reads records from a spreadsheet on disk
func LoadExcelFile(path string) ([]model.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	return ParseExcel(file)
}

// ParseExcel reads records from the first sheet of an xlsx workbook.
// Column order does not matter; size and type are optional.
func ParseExcel(r io.Reader) ([]model.Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, &MissingColumnsError{Missing: append([]string(nil), RequiredColumns...)}
	}

	columns := indexHeader(rows[0])
	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	records := make([]model.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rowNum := i + 2 // 1-based, after header

		record, err := parseRow(row, columns)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		records = append(records, record)
	}

	return records, nil
}

func indexHeader(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, dup := columns[key]; !dup {
			columns[key] = i
		}
	}
	return columns
}

func parseRow(row []string, columns map[string]int) (model.Record, error) {
	var rec model.Record

	yearStr := cell(row, columns, "year")
	year, err := parseNumber(yearStr)
	if err != nil {
		return rec, fmt.Errorf("column year: %w", err)
	}
	if year != math.Trunc(year) {
		return rec, fmt.Errorf("column year: %q is not a whole year", yearStr)
	}
	rec.Year = int(year)

	rec.Area = strings.TrimSpace(cell(row, columns, "area"))
	if rec.Area == "" {
		return rec, errors.New("column area: value is empty")
	}

	if rec.Price, err = parseNumber(cell(row, columns, "price")); err != nil {
		return rec, fmt.Errorf("column price: %w", err)
	}
	if rec.Demand, err = parseNumber(cell(row, columns, "demand")); err != nil {
		return rec, fmt.Errorf("column demand: %w", err)
	}

	if sizeStr := cell(row, columns, "size"); sizeStr != "" {
		if rec.Size, err = parseNumber(sizeStr); err != nil {
			return rec, fmt.Errorf("column size: %w", err)
		}
	}
	rec.Type = strings.TrimSpace(cell(row, columns, "type"))

	return rec, nil
}

// cell returns the trimmed value of a named column, or "" when the row is short
func cell(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("value is empty")
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
