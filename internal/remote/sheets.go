package remote

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	apperrors "solpedcli/internal/errors"
	"solpedcli/pkg/contracts/domain"
)

// SheetsFetcher reads a tab through the Google Sheets API v4 using an API key.
// The tab handle is the numeric sheet id (the gid of the export address).
type SheetsFetcher struct {
	service *sheets.Service
	logger  *slog.Logger
}

// NewSheetsFetcher creates a Sheets API client. Extra options are applied after the API key.
func NewSheetsFetcher(ctx context.Context, apiKey string, logger *slog.Logger, opts ...option.ClientOption) (*SheetsFetcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsFetcher{
		service: service,
		logger:  logger.With(slog.String("component", "sheets_fetcher")),
	}, nil
}

// Fetch resolves the tab id to a sheet title and reads its formatted values.
// An empty tab id selects the first sheet.
func (f *SheetsFetcher) Fetch(ctx context.Context, documentID, tabID string) (*domain.Table, error) {
	target := SourceName(documentID, tabID)

	spreadsheet, err := f.service.Spreadsheets.Get(documentID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &apperrors.NetworkError{URL: target, Cause: err}
	}

	title, err := sheetTitle(spreadsheet, tabID)
	if err != nil {
		return nil, &apperrors.RemoteParseError{URL: target, Cause: err}
	}

	values, err := f.service.Spreadsheets.Values.Get(documentID, quoteSheetTitle(title)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &apperrors.NetworkError{URL: target, Cause: err}
	}

	rows := make([][]string, len(values.Values))
	for i, row := range values.Values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			if cell != nil {
				rows[i][j] = fmt.Sprint(cell)
			}
		}
	}

	table, err := tableFromRows(rows)
	if err != nil {
		return nil, &apperrors.RemoteParseError{URL: target, Cause: err}
	}

	f.logger.InfoContext(ctx, "Remote table fetched",
		slog.String("document_id", documentID),
		slog.String("sheet", title),
		slog.Int("columns", len(table.Header)),
		slog.Int("rows", len(table.Rows)))

	return table, nil
}

func sheetTitle(spreadsheet *sheets.Spreadsheet, tabID string) (string, error) {
	if len(spreadsheet.Sheets) == 0 {
		return "", fmt.Errorf("spreadsheet has no sheets")
	}

	if strings.TrimSpace(tabID) == "" {
		if first := spreadsheet.Sheets[0].Properties; first != nil {
			return first.Title, nil
		}
		return "", fmt.Errorf("first sheet has no properties")
	}

	gid, err := strconv.ParseInt(strings.TrimSpace(tabID), 10, 64)
	if err != nil {
		return "", fmt.Errorf("tab id %q is not a sheet id: %w", tabID, err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.SheetId == gid {
			return sheet.Properties.Title, nil
		}
	}
	return "", fmt.Errorf("no sheet with id %d", gid)
}

// quoteSheetTitle renders a title as an A1 range covering the whole sheet.
func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
