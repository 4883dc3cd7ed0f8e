package testutil

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// SolpedHeader is the header row used by the sample fixtures.
var SolpedHeader = []interface{}{"Fecha Sol.", "SOLPED", "Doc.Compra", "Solicitante", "Cantidad", "Centro"}

// SampleSolpedRows returns a small report: five records, three without a purchase order.
func SampleSolpedRows() [][]interface{} {
	return [][]interface{}{
		{"15/12/2024", "1001", "(en blanco)", "Ana", "2", "C1"},
		{"20/12/2024", "1002", "4500001234", "Luis", "5", "C2"},
		{"10/01/2025", "1003", "", "Ana", "2", "C1"},
		{"11/01/2025", "1004", "nan", "Marta", "1", "C2"},
		{"12/01/2025", "1005", "4500001299", "Luis", "5", "C1"},
	}
}

// SolpedWorkbook builds a workbook laid out like the procurement report:
// two leading rows, SolpedHeader on the third row, then the data rows.
func SolpedWorkbook(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()

	grid := make([][]interface{}, 0, len(rows)+3)
	grid = append(grid, []interface{}{"Reporte SOLPED vs OC"}, nil, SolpedHeader)
	grid = append(grid, rows...)
	return Workbook(t, grid)
}

// SolpedWorkbookBytes serializes SolpedWorkbook to an in-memory .xlsx file.
func SolpedWorkbookBytes(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	return WorkbookBytes(t, SolpedWorkbook(t, rows))
}

// Workbook writes rows starting at A1 of the first sheet; nil rows stay blank.
func Workbook(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	return f
}

// WorkbookBytes serializes f and closes it.
func WorkbookBytes(t *testing.T, f *excelize.File) *bytes.Buffer {
	t.Helper()
	defer f.Close()

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

// TypedSolpedWorkbookBytes builds a SOLPED report whose cells carry real Excel
// types: date cells (time.Time, a serial with built-in format 14, a serial with
// a custom dd/mm/yyyy format), a day-first text date, and quantities with
// thousands and decimal display formats.
//
// Records, in order:
//
//	1001 WithoutPO 2024-03-04 qty 1234 (#,##0)  C1
//	1002 WithoutPO 2024-03-04 qty 2             C2
//	1003 WithoutPO 2024-12-05 qty 2.5 (#,##0.00) C1
//	1004 WithPO    2025-01-02 qty 1234 (#,##0)  C2
//	1005 WithoutPO 2025-01-05 qty 7 (text)      C1
func TypedSolpedWorkbookBytes(t *testing.T) *bytes.Buffer {
	t.Helper()

	f := SolpedWorkbook(t, [][]interface{}{
		{time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), "1001", "(en blanco)", "Ana", 1234, "C1"},
		{45355, "1002", "", "Luis", 2, "C2"},
		{time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC), "1003", "nan", "Ana", 2.5, "C1"},
		{45659, "1004", "4500001234", "Marta", 1234, "C2"},
		{"05/01/2025", "1005", "", "Marta", "7", "C1"},
	})
	sheet := f.GetSheetName(0)

	style := func(s *excelize.Style, cells ...string) {
		id, err := f.NewStyle(s)
		require.NoError(t, err)
		for _, cell := range cells {
			require.NoError(t, f.SetCellStyle(sheet, cell, cell, id))
		}
	}
	dayFirst := "dd/mm/yyyy"
	style(&excelize.Style{NumFmt: 3}, "E4", "E7")
	style(&excelize.Style{NumFmt: 4}, "E6")
	style(&excelize.Style{NumFmt: 14}, "A5")
	style(&excelize.Style{CustomNumFmt: &dayFirst}, "A7")

	return WorkbookBytes(t, f)
}
