// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// Workbook builds an in-memory xlsx file whose first sheet holds rows.
func Workbook(t *testing.T, rows ...[]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("Workbook() failed: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("Workbook() failed: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Workbook() failed: %v", err)
	}
	return buf.Bytes()
}
