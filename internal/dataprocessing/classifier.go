package dataprocessing

import (
	"strings"

	apperrors "solpedcli/internal/errors"
	"solpedcli/pkg/contracts/domain"
)

// noDocumentSentinels are the purchase document values that mean "no purchase order".
// Membership is exact and case-sensitive after trimming.
var noDocumentSentinels = map[string]struct{}{
	"(en blanco)": {},
	"nan":         {},
	"":            {},
	"None":        {},
}

// ClassifyValue derives the status of a single purchase document value.
func ClassifyValue(purchaseDoc string) domain.Status {
	if _, ok := noDocumentSentinels[strings.TrimSpace(purchaseDoc)]; ok {
		return domain.StatusWithoutPO
	}
	return domain.StatusWithPO
}

// Classify returns a copy of the dataset carrying a status column.
//
// A dataset that already has a status column is returned with its columns
// unchanged; only records whose status could not be read from that column are
// derived from the purchase document. The input dataset is never modified.
func Classify(ds *domain.Dataset) (*domain.Dataset, error) {
	hasStatus := ds.HasField(domain.FieldStatus)
	docIdx := ds.ColumnIndex(domain.FieldPurchaseDoc)
	if !hasStatus && docIdx < 0 {
		return nil, &apperrors.MissingColumnError{Column: domain.FieldPurchaseDoc.String()}
	}

	out := *ds
	out.Records = make([]domain.Record, len(ds.Records))

	if hasStatus {
		statusIdx := ds.ColumnIndex(domain.FieldStatus)
		for i, rec := range ds.Records {
			if rec.Status == domain.StatusUnset {
				rec.Status = ClassifyValue(rec.PurchaseDoc)
				rec.Values = append([]string(nil), rec.Values...)
				if statusIdx < len(rec.Values) {
					rec.Values[statusIdx] = rec.Status.Label()
				}
			}
			out.Records[i] = rec
		}
		return &out, nil
	}

	out.Columns = append(append([]domain.Column(nil), ds.Columns...),
		domain.Column{Name: domain.StatusColumnName, Field: domain.FieldStatus})

	for i, rec := range ds.Records {
		rec.Status = ClassifyValue(rec.PurchaseDoc)

		values := make([]string, len(ds.Columns), len(ds.Columns)+1)
		copy(values, rec.Values)
		values[docIdx] = strings.TrimSpace(values[docIdx])
		rec.Values = append(values, rec.Status.Label())

		out.Records[i] = rec
	}

	return &out, nil
}
