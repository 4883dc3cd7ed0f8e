package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	apperrors "solpedcli/internal/errors"
)

func newSheetsServer(t *testing.T, values [][]interface{}) (*httptest.Server, *[]string) {
	t.Helper()
	var ranges []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(r.URL.Path, "/values/"):
			ranges = append(ranges, r.URL.Path[strings.Index(r.URL.Path, "/values/")+len("/values/"):])
			json.NewEncoder(w).Encode(sheets.ValueRange{MajorDimension: "ROWS", Values: values})
		case strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/doc-1"):
			json.NewEncoder(w).Encode(sheets.Spreadsheet{
				SpreadsheetId: "doc-1",
				Sheets: []*sheets.Sheet{
					{Properties: &sheets.SheetProperties{SheetId: 0, Title: "Resumen"}},
					{Properties: &sheets.SheetProperties{SheetId: 1525112044, Title: "SOLPED VS OC"}},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{"code": 404, "message": "Requested entity was not found."},
			})
		}
	}))
	t.Cleanup(srv.Close)

	return srv, &ranges
}

func newTestSheetsFetcher(t *testing.T, srv *httptest.Server) *SheetsFetcher {
	t.Helper()
	fetcher, err := NewSheetsFetcher(context.Background(), "test-key", testLogger(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return fetcher
}

func TestSheetsFetcher_Fetch(t *testing.T) {
	srv, ranges := newSheetsServer(t, [][]interface{}{
		{"SOLPED", "Doc.Compra", "Cantidad"},
		{"1001", "(en blanco)", 3},
		{"1002"},
	})

	table, err := newTestSheetsFetcher(t, srv).Fetch(context.Background(), "doc-1", "1525112044")
	require.NoError(t, err)

	require.Len(t, *ranges, 1)
	assert.Equal(t, "'SOLPED VS OC'", (*ranges)[0])

	assert.Equal(t, []string{"SOLPED", "Doc.Compra", "Cantidad"}, table.Header)
	assert.Equal(t, [][]string{{"1001", "(en blanco)", "3"}, {"1002", "", ""}}, table.Rows)
}

func TestSheetsFetcher_EmptyTabSelectsFirstSheet(t *testing.T) {
	srv, ranges := newSheetsServer(t, [][]interface{}{{"Doc.Compra"}})

	_, err := newTestSheetsFetcher(t, srv).Fetch(context.Background(), "doc-1", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"'Resumen'"}, *ranges)
}

func TestSheetsFetcher_Failures(t *testing.T) {
	srv, _ := newSheetsServer(t, nil)
	fetcher := newTestSheetsFetcher(t, srv)

	t.Run("unknown document", func(t *testing.T) {
		_, err := fetcher.Fetch(context.Background(), "missing", "0")
		var netErr *apperrors.NetworkError
		assert.ErrorAs(t, err, &netErr)
	})

	t.Run("unknown tab", func(t *testing.T) {
		_, err := fetcher.Fetch(context.Background(), "doc-1", "7")
		var parseErr *apperrors.RemoteParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("non-numeric tab", func(t *testing.T) {
		_, err := fetcher.Fetch(context.Background(), "doc-1", "Hoja1")
		var parseErr *apperrors.RemoteParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("no values", func(t *testing.T) {
		_, err := fetcher.Fetch(context.Background(), "doc-1", "0")
		var parseErr *apperrors.RemoteParseError
		assert.ErrorAs(t, err, &parseErr)
	})
}

func TestQuoteSheetTitle(t *testing.T) {
	assert.Equal(t, "'O''Brien'", quoteSheetTitle("O'Brien"))
}
