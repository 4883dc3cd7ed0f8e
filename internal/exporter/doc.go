// Package exporter serializes filtered SOLPED views as CSV.
//
// Output is UTF-8 with a header row holding the view's column names in order,
// followed by one row per record. An optional BOM helps Excel detect the encoding.
//
// Example usage:
//
//	view := dataprocessing.Filter(ds, spec)
//	err := exporter.WriteView(w, view, exporter.WriteOptions{BOMPrefix: true})
package exporter
