package domain

import "time"

// StatusSelection restricts a filter to one status or none.
type StatusSelection string

const (
	SelectAll       StatusSelection = "All"
	SelectWithPO    StatusSelection = "WithPO"
	SelectWithoutPO StatusSelection = "WithoutPO"
)

// FilterSpec holds the user's selections. Empty selections do not constrain.
type FilterSpec struct {
	Requesters []string        `json:"requesters,omitempty"`
	Centers    []string        `json:"centers,omitempty"`
	Status     StatusSelection `json:"status" validate:"omitempty,oneof=All WithPO WithoutPO"`
}

// Summary is the (total, withPO, withoutPO) triple.
type Summary struct {
	Total     int `json:"total"`
	WithPO    int `json:"with_po"`
	WithoutPO int `json:"without_po"`
}

// StatusCount is one bar of the status distribution.
type StatusCount struct {
	Status Status `json:"status"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

// MonthBucket counts records whose date falls in the month starting at MonthStart.
type MonthBucket struct {
	MonthStart time.Time `json:"month_start"`
	Count      int       `json:"count"`
}

// QuantityBucket counts records with exactly Quantity.
type QuantityBucket struct {
	Quantity  float64 `json:"quantity"`
	Frequency int     `json:"frequency"`
}

// Exclusion records a record left out of one aggregation because a field could not be coerced.
type Exclusion struct {
	Index     int     `json:"index"`
	RequestID string  `json:"request_id,omitempty"`
	Field     FieldID `json:"-"`
	FieldName string  `json:"field"`
	Value     string  `json:"value"`
	Reason    string  `json:"reason"`
}

// FilterOptions lists the selectable values of each optional filter dimension.
type FilterOptions struct {
	Requesters []string `json:"requesters"`
	Centers    []string `json:"centers"`
	Statuses   []string `json:"statuses"`
}
