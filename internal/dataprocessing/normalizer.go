package dataprocessing

import (
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "solpedcli/internal/errors"
	"solpedcli/pkg/contracts/domain"
)

// HeaderRowIndex is the zero-based row holding column names in SAP exports,
// which carry two blank rows above the header.
const HeaderRowIndex = 2

// NormalizeHeader takes row HeaderRowIndex of the grid as the header and the
// rows below it as data, in their original order.
func NormalizeHeader(g *Grid) (*domain.Table, error) {
	if g == nil || g.Rows() < apperrors.MinGridRows {
		rows := 0
		if g != nil {
			rows = g.Rows()
		}
		return nil, apperrors.NewMalformedGridError(rows)
	}

	header := append([]string(nil), g.Cells[HeaderRowIndex]...)

	found := false
	for _, name := range header {
		if domain.LookupField(name) == domain.FieldPurchaseDoc {
			found = true
			break
		}
	}
	if !found {
		return nil, &apperrors.MissingColumnError{Column: domain.FieldPurchaseDoc.String()}
	}

	data := g.Cells[HeaderRowIndex+1:]
	rows := make([][]string, len(data))
	for i, row := range data {
		rows[i] = append([]string(nil), row...)
	}

	return &domain.Table{Header: header, Rows: rows}, nil
}

// BuildDataset binds table columns to record fields through domain.HeaderFields
// and converts every row into a Record. The first column mapping to a field wins.
func BuildDataset(source string, t *domain.Table) *domain.Dataset {
	columns := make([]domain.Column, len(t.Header))
	bound := make(map[domain.FieldID]int)
	for i, name := range t.Header {
		columns[i] = domain.Column{Name: name}
		field := domain.LookupField(name)
		if field == domain.FieldUnknown {
			continue
		}
		if _, dup := bound[field]; dup {
			continue
		}
		bound[field] = i
		columns[i].Field = field
	}

	records := make([]domain.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		values := make([]string, len(columns))
		copy(values, row)

		get := func(field domain.FieldID) string {
			if idx, ok := bound[field]; ok {
				return values[idx]
			}
			return ""
		}

		rec := domain.Record{
			RequestDate:         NewDate(get(domain.FieldRequestDate)),
			RequestID:           strings.TrimSpace(get(domain.FieldRequestID)),
			MaterialDescription: get(domain.FieldMaterialDescription),
			PurchaseDoc:         strings.TrimSpace(get(domain.FieldPurchaseDoc)),
			Supplier:            get(domain.FieldSupplier),
			Requester:           get(domain.FieldRequester),
			ModDate:             NewDate(get(domain.FieldModDate)),
			Quantity:            NewQuantity(get(domain.FieldQuantity)),
			Center:              get(domain.FieldCenter),
			Warehouse:           get(domain.FieldWarehouse),
			Values:              values,
		}
		if _, ok := bound[domain.FieldStatus]; ok {
			rec.Status, _ = domain.ParseStatus(get(domain.FieldStatus))
		}
		records = append(records, rec)
	}

	return &domain.Dataset{
		ID:         uuid.New().String(),
		Source:     source,
		IngestedAt: time.Now().UTC(),
		Columns:    columns,
		Records:    records,
	}
}
