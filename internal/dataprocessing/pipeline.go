package dataprocessing

import (
	"fmt"
	"io"
	"log/slog"

	"solpedcli/pkg/contracts/domain"
)

// LoadWorkbook runs the local file path of the pipeline: raw grid, fixed-offset
// header, typed records, status classification. Any structural error aborts the
// ingestion and no partial dataset is returned.
func LoadWorkbook(r io.Reader, source string) (*domain.Dataset, error) {
	grid, err := ReadGrid(r)
	if err != nil {
		return nil, err
	}
	return LoadGrid(grid, source)
}

// LoadGrid runs the pipeline from an already read grid.
func LoadGrid(grid *Grid, source string) (*domain.Dataset, error) {
	table, err := NormalizeHeader(grid)
	if err != nil {
		return nil, err
	}
	return LoadTable(table, source)
}

// LoadTable builds and classifies a dataset from a header-complete table.
func LoadTable(table *domain.Table, source string) (*domain.Dataset, error) {
	if table == nil {
		return nil, fmt.Errorf("no table to load")
	}

	ds, err := Classify(BuildDataset(source, table))
	if err != nil {
		return nil, err
	}

	slog.Info("Dataset loaded",
		slog.String("dataset_id", ds.ID),
		slog.String("source", source),
		slog.Int("columns", len(ds.Columns)),
		slog.Int("records", ds.Len()))

	return ds, nil
}
