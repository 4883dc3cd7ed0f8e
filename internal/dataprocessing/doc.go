// Package dataprocessing turns SOLPED workbook exports into classified datasets
// and derives the summaries, filters and chart series served on top of them.
//
// # Architecture
//
// The package is organized as a linear pipeline:
//
// 1. Grid: the first worksheet of an Excel file read as a raw cell grid
// 2. Normalizer: the header row is promoted and the rows above it discarded
// 3. Classifier: each record is labelled with or without a purchase order
// 4. Filter and aggregations: conjunctive filtering, monthly buckets and the quantity distribution
//
// # Usage
//
//	ds, err := dataprocessing.LoadWorkbook(file, "upload.xlsx")
//	if err != nil {
//	    return err
//	}
//	view := dataprocessing.Filter(ds, domain.FilterSpec{Centers: []string{"C100"}})
//	summary := dataprocessing.ComputeMetrics(view.Records)
//
// # Data Flow
//
//	Excel File → Grid → Table → Dataset → Classify → FilteredView → Summary / Buckets
//
// # Error Handling
//
// Structural problems stop ingestion and are reported as typed errors from
// the errors package (MalformedGridError, MissingColumnError). Cells that
// cannot be read as dates or quantities never fail ingestion; they are
// excluded from the affected chart and reported as exclusions.
package dataprocessing
