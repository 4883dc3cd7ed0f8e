package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"solpedcli/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes filtered views as CSV files under a base directory
type CSVWriter struct {
	baseDir string
}

// NewCSVWriter creates a new CSV writer instance. Relative paths are resolved against baseDir.
func NewCSVWriter(baseDir string) *CSVWriter {
	return &CSVWriter{baseDir: baseDir}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// ViewRows returns the header and rows of a view in column order.
// The status column carries the source labels (Con OC / Sin OC).
func ViewRows(view domain.FilteredView) ([]string, [][]string) {
	header := make([]string, len(view.Columns))
	for i, col := range view.Columns {
		header[i] = col.Name
	}

	rows := make([][]string, len(view.Records))
	for i, rec := range view.Records {
		row := make([]string, len(header))
		copy(row, rec.Values)
		rows[i] = row
	}
	return header, rows
}

// WriteView writes view to out: one header row, then one row per record.
func WriteView(out io.Writer, view domain.FilteredView, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	header, rows := ViewRows(view)

	writer := csv.NewWriter(out)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteViewFile writes view to filePath, replacing any existing file.
func (w *CSVWriter) WriteViewFile(filePath string, view domain.FilteredView, options WriteOptions) (string, error) {
	fullPath := w.resolvePath(filePath)

	slog.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", view.Len()))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}

	if err := WriteView(file, view, options); err != nil {
		file.Close()
		return "", err
	}
	return fullPath, file.Close()
}

// resolvePath resolves a path against the base directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.baseDir == "" {
		return filePath
	}
	return filepath.Join(w.baseDir, filePath)
}
