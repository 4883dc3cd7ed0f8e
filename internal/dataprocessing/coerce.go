package dataprocessing

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"solpedcli/pkg/contracts/domain"
)

var (
	ErrEmptyValue       = errors.New("empty value")
	ErrUnrecognizedDate = errors.New("unrecognized date format")
	ErrNotNumeric       = errors.New("not a number")
)

// Day-first layouts are tried before year-first ones. Workbook date cells
// arrive as ISO text (see ReadGrid), so only typed-in text is ever day-first.
var (
	dayFirstLayouts = []string{
		"2/1/2006",
		"2/1/2006 15:04",
		"2/1/2006 15:04:05",
		"2-1-2006",
		"2-1-2006 15:04:05",
		"2.1.2006",
		"2/1/06",
		"2-1-06",
		"2.1.06",
	}
	yearFirstLayouts = []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006/01/02",
		"2006/1/2",
	}
)

// Excel serial day numbers accepted as dates: 1900-01-01 .. 9999-12-31.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// ParseDayFirst parses a date cell, reading ambiguous values as day/month/year.
// Excel serial day numbers are accepted as well.
func ParseDayFirst(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, ErrEmptyValue
	}

	for _, group := range [][]string{dayFirstLayouts, yearFirstLayouts} {
		for _, layout := range group {
			if t, err := time.Parse(layout, value); err == nil {
				return t, nil
			}
		}
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrUnrecognizedDate
}

// ParseQuantity parses a numeric cell with a dot decimal separator.
// Thousands separators and decimal commas are not accepted; no rounding is applied.
func ParseQuantity(raw string) (float64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, ErrEmptyValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) {
		return 0, ErrNotNumeric
	}
	return f, nil
}

// NewDate coerces raw text into a nullable date.
func NewDate(raw string) domain.Date {
	t, err := ParseDayFirst(raw)
	return domain.Date{Time: t, Valid: err == nil, Raw: raw}
}

// NewQuantity coerces raw text into a nullable quantity.
func NewQuantity(raw string) domain.Quantity {
	f, err := ParseQuantity(raw)
	return domain.Quantity{Value: f, Valid: err == nil, Raw: raw}
}
