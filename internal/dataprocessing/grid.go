package dataprocessing

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "solpedcli/internal/errors"
)

// Grid is a headerless, rectangular block of raw cell text.
type Grid struct {
	Cells [][]string
	Width int
}

// NewGrid pads rows to a common width and rejects grids too short to hold
// two blank rows, a header row and at least one data row.
func NewGrid(rows [][]string) (*Grid, error) {
	if len(rows) < apperrors.MinGridRows {
		return nil, apperrors.NewMalformedGridError(len(rows))
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	cells := make([][]string, len(rows))
	for i, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		cells[i] = padded
	}

	return &Grid{Cells: cells, Width: width}, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return len(g.Cells)
}

// RowIndex returns the ordinal row indices 0..n-1.
func (g *Grid) RowIndex() []int {
	return ordinals(len(g.Cells))
}

// ColumnIndex returns the ordinal column indices 0..w-1.
func (g *Grid) ColumnIndex() []int {
	return ordinals(g.Width)
}

func ordinals(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// ReadGrid reads the first sheet of an Excel workbook as a raw grid.
//
// Cells are read as stored values, not as Excel renders them: numbers keep
// their plain form ("1234", not "1,234") and date-formatted cells are written
// as ISO dates ("2024-03-04"), so locale display formats never reach parsing.
func ReadGrid(r io.Reader) (*Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &apperrors.InvalidWorkbookError{Cause: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewMalformedGridError(0)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	dates := dateStyles{file: f, known: make(map[int]bool)}
	for i, row := range rows {
		for j, value := range row {
			if text, ok := dates.render(sheets[0], i, j, value); ok {
				row[j] = text
			}
		}
	}

	slog.Debug("Workbook sheet read",
		slog.String("sheet_name", sheets[0]),
		slog.Int("total_rows", len(rows)))

	return NewGrid(rows)
}

// dateStyles decides, per cell style, whether a numeric cell holds a date.
type dateStyles struct {
	file  *excelize.File
	known map[int]bool
}

// render returns the ISO text of a numeric cell whose number format is a date format.
func (d dateStyles) render(sheet string, row, col int, value string) (string, bool) {
	if value == "" {
		return "", false
	}
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return "", false
	}

	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return "", false
	}
	styleID, err := d.file.GetCellStyle(sheet, cell)
	if err != nil || styleID == 0 {
		return "", false
	}

	isDate, seen := d.known[styleID]
	if !seen {
		if style, err := d.file.GetStyle(styleID); err == nil {
			isDate = isDateFormat(style.NumFmt, style.CustomNumFmt)
		}
		d.known[styleID] = isDate
	}
	if !isDate {
		return "", false
	}

	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return "", false
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02"), true
	}
	return t.Format("2006-01-02 15:04:05"), true
}

// Built-in number formats holding a calendar date (14-17, 22, and the
// East Asian date formats 27-36 and 50-58). Time-only formats are not dates.
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

func isDateFormat(numFmt int, custom *string) bool {
	if custom == nil || *custom == "" {
		return builtInDateFormats[numFmt]
	}

	// Ignore quoted literals, escaped characters and [..] sections (colors, locales).
	var b strings.Builder
	inQuote, inBracket, escaped := false, false, false
	for _, r := range *custom {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	code := strings.ToLower(b.String())
	return strings.ContainsAny(code, "dy")
}
