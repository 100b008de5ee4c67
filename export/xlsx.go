package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/datasynth/engine"
)

// ErrEmptyDataset is returned by exports that cannot represent an empty
// dataset (workbooks and chart images).
var ErrEmptyDataset = errors.New("empty dataset")

// Default workbook settings.
const (
	DefaultXLSXName  = "synthetic_data.xlsx"
	DefaultSheetName = "Data"
)

// WriteXLSX writes rows as a single-sheet workbook. Numbers and booleans
// keep their cell types; nulls are left blank.
func WriteXLSX(w io.Writer, rows engine.Dataset, sheetName string) error {
	if len(rows) == 0 {
		return ErrEmptyDataset
	}
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headers := rows.Columns()
	for col, key := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, key); err != nil {
			return fmt.Errorf("header %s: %w", key, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("header style %s: %w", key, err)
		}
	}

	for r, row := range rows {
		for col, key := range headers {
			v := row.Get(key)
			if v.IsNull() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, excelValue(v)); err != nil {
				return fmt.Errorf("row %d %s: %w", r, key, err)
			}
		}
	}

	for col := range headers {
		name, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(sheetName, name, name, 18); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// excelValue converts a Value to the native type excelize expects.
func excelValue(v engine.Value) any {
	switch v.Kind() {
	case engine.KindNumber:
		if f, ok := v.Float(); ok {
			return f
		}
		return v.String()
	case engine.KindBool:
		return v.String() == "true"
	default:
		return v.String()
	}
}
