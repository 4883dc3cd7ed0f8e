package services

import (
	apperrors "solpedcli/internal/errors"
)

// Service errors. Both are shared with the transport layer through
// internal/errors so handlers can map them without importing services.
var (
	// ErrNoDataset is returned by read operations before a successful ingestion
	ErrNoDataset = apperrors.ErrNoDataset

	// ErrInvalidFilter is returned when a filter selection cannot be applied
	ErrInvalidFilter = apperrors.ErrInvalidFilter
)
