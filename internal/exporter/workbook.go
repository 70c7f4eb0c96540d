package exporter

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"storecli/internal/config"
)

// maxSheetName is the longest sheet name Excel accepts
const maxSheetName = 31

// measureColumns are the headers whose cells are written as numbers. Key
// columns stay text even when a value such as "1e5" parses as a float.
var measureColumns = map[string]bool{
	"value":              true,
	"rows":               true,
	"line":               true,
	"rank":               true,
	"customers":          true,
	"new_customers":      true,
	"total_customers":    true,
	"gaps":               true,
	"span_days":          true,
	"mean_days":          true,
	"sales":              true,
	"lines":              true,
	"orders":             true,
	"aov":                true,
	"sales_per_order":    true,
	"sales_per_customer": true,
}

// WorkbookWriter writes report tables into one workbook, one sheet per table
type WorkbookWriter struct {
	path string
}

// NewWorkbookWriter creates a writer for the workbook at path
func NewWorkbookWriter(path string) *WorkbookWriter {
	return &WorkbookWriter{path: path}
}

// Write replaces the workbook with the given tables. Cells of measure columns
// are stored as numbers so they sort and sum in a spreadsheet.
func (w *WorkbookWriter) Write(tables []Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("write workbook %s: no tables", w.path)
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, t := range tables {
		name := sheetName(t.Name)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("rename sheet %s: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
		if err := writeSheet(f, name, t, header); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(w.path), config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", w.path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t Table, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", toCells(t.Header, nil)); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	if len(t.Header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(t.Header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("style %s header: %w", sheet, err)
		}
	}

	numeric := make([]bool, len(t.Header))
	for i, h := range t.Header {
		numeric[i] = measureColumns[h]
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, toCells(row, numeric)); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// toCells converts the values of numeric columns to floats. Values that do
// not parse, or parse to NaN or an infinity, stay text.
func toCells(values []string, numeric []bool) *[]interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
		if i >= len(numeric) || !numeric[i] {
			continue
		}
		if n, err := strconv.ParseFloat(v, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			cells[i] = n
		}
	}
	return &cells
}

func sheetName(name string) string {
	if len(name) > maxSheetName {
		return name[:maxSheetName]
	}
	return name
}
