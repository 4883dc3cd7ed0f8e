package remote

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"solpedcli/internal/config"
	"solpedcli/pkg/contracts/domain"
)

// Fetcher retrieves a header-complete table addressed by a document and tab handle.
// Row 0 of the remote table is the header. Implementations make a single attempt
// and return either a table or an error, never both.
type Fetcher interface {
	Fetch(ctx context.Context, documentID, tabID string) (*domain.Table, error)
}

// NewFetcher builds the fetcher selected by cfg.Mode.
func NewFetcher(ctx context.Context, cfg config.SourceConfig, logger *slog.Logger) (Fetcher, error) {
	switch cfg.Mode {
	case config.SourceModeExport, "":
		client := &http.Client{Timeout: cfg.Timeout}
		return NewExportFetcher(cfg.Host, client, logger), nil
	case config.SourceModeSheetsAPI:
		return NewSheetsFetcher(ctx, cfg.APIKey, logger)
	default:
		return nil, fmt.Errorf("unknown source mode %q", cfg.Mode)
	}
}

// SourceName describes a remote table in dataset metadata and logs.
func SourceName(documentID, tabID string) string {
	return fmt.Sprintf("remote:%s#gid=%s", documentID, tabID)
}

// tableFromRows promotes rows[0] to the header and pads shorter data rows.
// Data rows wider than the header are rejected.
func tableFromRows(rows [][]string) (*domain.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty table")
	}

	header := make([]string, len(rows[0]))
	copy(header, rows[0])
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := &domain.Table{Header: header, Rows: make([][]string, 0, len(rows)-1)}
	for i, row := range rows[1:] {
		if len(row) > len(header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(row), len(header))
		}
		padded := make([]string, len(header))
		copy(padded, row)
		table.Rows = append(table.Rows, padded)
	}

	return table, nil
}
