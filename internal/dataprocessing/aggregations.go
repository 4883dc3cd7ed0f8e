package dataprocessing

import (
	"fmt"
	"sort"
	"time"

	apperrors "solpedcli/internal/errors"
	"solpedcli/pkg/contracts/domain"
)

// MonthlyBuckets counts records per calendar month of the given date field.
//
// Records whose date cannot be coerced are left out of the buckets and
// reported as exclusions; they stay in the view. Months without records are
// not emitted. Buckets are keyed by the first day of the month in UTC and
// ordered ascending.
func MonthlyBuckets(view domain.FilteredView, field domain.FieldID) ([]domain.MonthBucket, []domain.Exclusion, error) {
	if field != domain.FieldRequestDate && field != domain.FieldModDate {
		return nil, nil, fmt.Errorf("field %s is not a date field", field)
	}

	counts := make(map[time.Time]int)
	var excluded []domain.Exclusion
	for i, rec := range view.Records {
		date, _ := rec.DateField(field)
		if !date.Valid {
			_, cause := ParseDayFirst(date.Raw)
			excluded = append(excluded, newExclusion(i, rec, field, date.Raw, cause))
			continue
		}
		key := time.Date(date.Time.Year(), date.Time.Month(), 1, 0, 0, 0, 0, time.UTC)
		counts[key]++
	}

	buckets := make([]domain.MonthBucket, 0, len(counts))
	for month, n := range counts {
		buckets = append(buckets, domain.MonthBucket{MonthStart: month, Count: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].MonthStart.Before(buckets[j].MonthStart)
	})
	return buckets, excluded, nil
}

// QuantityDistribution counts records per exact quantity value, ascending.
//
// Values are grouped by float64 equality with no rounding, so non-integral
// quantities that differ only by representation noise land in separate buckets.
func QuantityDistribution(view domain.FilteredView) ([]domain.QuantityBucket, []domain.Exclusion) {
	counts := make(map[float64]int)
	var excluded []domain.Exclusion
	for i, rec := range view.Records {
		if !rec.Quantity.Valid {
			_, cause := ParseQuantity(rec.Quantity.Raw)
			excluded = append(excluded, newExclusion(i, rec, domain.FieldQuantity, rec.Quantity.Raw, cause))
			continue
		}
		counts[rec.Quantity.Value]++
	}

	buckets := make([]domain.QuantityBucket, 0, len(counts))
	for q, n := range counts {
		buckets = append(buckets, domain.QuantityBucket{Quantity: q, Frequency: n})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Quantity < buckets[j].Quantity
	})
	return buckets, excluded
}

func newExclusion(index int, rec domain.Record, field domain.FieldID, raw string, cause error) domain.Exclusion {
	err := &apperrors.FieldCoercionError{Field: field.String(), Value: raw, Cause: cause}
	return domain.Exclusion{
		Index:     index,
		RequestID: rec.RequestID,
		Field:     field,
		FieldName: field.String(),
		Value:     raw,
		Reason:    err.Error(),
	}
}
