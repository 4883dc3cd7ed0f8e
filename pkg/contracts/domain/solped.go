package domain

import (
	"strings"
	"time"
)

// Status is the procurement status derived from a record's purchase document.
type Status string

const (
	// StatusUnset marks a record whose status has not been derived yet.
	StatusUnset     Status = ""
	StatusWithPO    Status = "WithPO"
	StatusWithoutPO Status = "WithoutPO"
)

// Labels used by the source spreadsheets and the CSV export.
const (
	StatusColumnName   = "Tiene OC"
	StatusLabelWithPO  = "Con OC"
	StatusLabelWithout = "Sin OC"
)

// Label returns the spreadsheet label for the status.
func (s Status) Label() string {
	switch s {
	case StatusWithPO:
		return StatusLabelWithPO
	case StatusWithoutPO:
		return StatusLabelWithout
	default:
		return ""
	}
}

// ParseStatus accepts both the enum names and the spreadsheet labels.
func ParseStatus(value string) (Status, bool) {
	switch strings.TrimSpace(value) {
	case string(StatusWithPO), StatusLabelWithPO:
		return StatusWithPO, true
	case string(StatusWithoutPO), StatusLabelWithout:
		return StatusWithoutPO, true
	default:
		return StatusUnset, false
	}
}

// FieldID identifies a canonical record field.
type FieldID int

const (
	FieldUnknown FieldID = iota
	FieldRequestDate
	FieldRequestID
	FieldMaterialDescription
	FieldPurchaseDoc
	FieldSupplier
	FieldRequester
	FieldModDate
	FieldQuantity
	FieldCenter
	FieldWarehouse
	FieldStatus
)

// HeaderFields maps raw header text to canonical fields. Lookup trims the header.
var HeaderFields = map[string]FieldID{
	"Fecha Sol.":               FieldRequestDate,
	"SOLPED":                   FieldRequestID,
	"Descripción del Material": FieldMaterialDescription,
	"Doc.Compra":               FieldPurchaseDoc,
	"Proveedor":                FieldSupplier,
	"Solicitante":              FieldRequester,
	"Fecha Mod.":               FieldModDate,
	"Cantidad":                 FieldQuantity,
	"Centro":                   FieldCenter,
	"Almacén":                  FieldWarehouse,
	StatusColumnName:           FieldStatus,
}

var fieldNames = map[FieldID]string{
	FieldRequestDate:         "Fecha Sol.",
	FieldRequestID:           "SOLPED",
	FieldMaterialDescription: "Descripción del Material",
	FieldPurchaseDoc:         "Doc.Compra",
	FieldSupplier:            "Proveedor",
	FieldRequester:           "Solicitante",
	FieldModDate:             "Fecha Mod.",
	FieldQuantity:            "Cantidad",
	FieldCenter:              "Centro",
	FieldWarehouse:           "Almacén",
	FieldStatus:              StatusColumnName,
}

// String returns the canonical header text of the field.
func (f FieldID) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// LookupField resolves raw header text to a canonical field.
func LookupField(header string) FieldID {
	if id, ok := HeaderFields[strings.TrimSpace(header)]; ok {
		return id
	}
	return FieldUnknown
}

// Column is one dataset column: the header text as given and the field it maps to.
// Only the first column mapping to a field is bound to it; later duplicates keep FieldUnknown.
type Column struct {
	Name  string  `json:"name"`
	Field FieldID `json:"-"`
}

// Date is a nullable date cell. Raw keeps the source text.
type Date struct {
	Time  time.Time
	Valid bool
	Raw   string
}

// Quantity is a nullable numeric cell. Raw keeps the source text.
type Quantity struct {
	Value float64
	Valid bool
	Raw   string
}

// Record is one purchase request line.
type Record struct {
	RequestDate         Date
	RequestID           string
	MaterialDescription string
	PurchaseDoc         string
	Supplier            string
	Requester           string
	ModDate             Date
	Quantity            Quantity
	Center              string
	Warehouse           string
	Status              Status

	// Values holds every cell in dataset column order, as read from the source.
	Values []string
}

// DateField returns the date stored under the given field.
func (r Record) DateField(field FieldID) (Date, bool) {
	switch field {
	case FieldRequestDate:
		return r.RequestDate, true
	case FieldModDate:
		return r.ModDate, true
	default:
		return Date{}, false
	}
}

// Dataset is the ordered result of one ingestion event.
type Dataset struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	IngestedAt time.Time `json:"ingested_at"`
	Columns    []Column  `json:"columns"`
	Records    []Record  `json:"-"`
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// HasField reports whether some column is bound to the field.
func (d *Dataset) HasField(field FieldID) bool {
	return d.ColumnIndex(field) >= 0
}

// ColumnIndex returns the index of the column bound to field, or -1.
func (d *Dataset) ColumnIndex(field FieldID) int {
	if d == nil {
		return -1
	}
	for i, c := range d.Columns {
		if c.Field == field {
			return i
		}
	}
	return -1
}

// ColumnNames returns the header row.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// FilteredView is a read-only subsequence of a Dataset.
type FilteredView struct {
	Columns []Column
	Records []Record
}

// Len returns the number of records in the view.
func (v FilteredView) Len() int {
	return len(v.Records)
}

// Table is a header-complete grid of cell text: one header row and the data rows below it.
type Table struct {
	Header []string
	Rows   [][]string
}
