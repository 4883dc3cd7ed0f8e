// Package services holds the application state of the SOLPED dashboard.
//
// SolpedService keeps the dataset of the last successful ingestion (an
// uploaded workbook or a remote tab) and recomputes every view from it on
// request: summary metrics, status distribution, filter options, filtered
// records, monthly trend and quantity distribution of records without a
// purchase order, and CSV export. Ingestion replaces the dataset under a
// write lock; reads share a read lock. A failed ingestion leaves no dataset.
//
// HealthService reports liveness and readiness for the HTTP layer.
package services
