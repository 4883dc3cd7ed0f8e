package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "solpedcli/internal/errors"
	"solpedcli/internal/shared/testutil"
)

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "SOLPED_VS_OC.xlsx")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	return writeFile(t, testutil.SolpedWorkbookBytes(t, rows).Bytes())
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\ufeff")))).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRun_Workbook(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out", "solped_filtrado.csv")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{
		"-file", writeWorkbook(t, testutil.SampleSolpedRows()),
		"-status", "WithoutPO",
		"-center", "C1",
		"-out", out,
	}, &stdout, &stderr)

	require.Equal(t, exitOK, code, stderr.String())
	rows := readRows(t, out)
	require.Len(t, rows, 3)
	assert.Equal(t, "Tiene OC", rows[0][len(rows[0])-1])
	assert.Equal(t, "1001", rows[1][1])
	assert.Equal(t, "1003", rows[2][1])

	logs := stdout.String()
	assert.Contains(t, logs, `"msg":"Metrics"`)
	assert.Contains(t, logs, `"without_po":3`)
	assert.Contains(t, logs, "Filtered view written")
	assert.Contains(t, logs, `"trace_id":"`)
}

func TestRun_BOM(t *testing.T) {
	out := filepath.Join(t.TempDir(), "solped.csv")
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-file", writeWorkbook(t, testutil.SampleSolpedRows()), "-bom", "-out", out}, &stdout, &stderr)
	require.Equal(t, exitOK, code)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\ufeff")))
	assert.Len(t, readRows(t, out), 6)
}

func TestRun_StructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "missing purchase document column",
			path: func(t *testing.T) string {
				return writeFile(t, testutil.WorkbookBytes(t, testutil.Workbook(t, [][]interface{}{
					{"Reporte SOLPED vs OC"},
					nil,
					{"Fecha Sol.", "SOLPED", "Solicitante"},
					{"01/01/2025", "1001", "Ana"},
				})).Bytes())
			},
		},
		{
			name: "grid too short",
			path: func(t *testing.T) string {
				return writeFile(t, testutil.WorkbookBytes(t, testutil.Workbook(t, [][]interface{}{{"Fecha Sol."}})).Bytes())
			},
		},
		{
			name: "not a workbook",
			path: func(t *testing.T) string {
				return writeFile(t, []byte("not a zip"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), []string{"-file", tt.path(t), "-out", filepath.Join(t.TempDir(), "x.csv")}, &stdout, &stderr)
			assert.Equal(t, exitStructural, code)
			assert.Contains(t, stdout.String(), "Ingestion failed")
		})
	}
}

func TestRun_Remote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/doc123/export" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, "Fecha Sol.,SOLPED,Doc.Compra,Solicitante,Cantidad,Centro\n"+
			"05/02/2025,2001,,Ana,3,C1\n"+
			"06/02/2025,2002,4500000001,Luis,1,C2\n")
	}))
	defer server.Close()

	t.Run("exports the remote tab", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "remote.csv")
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"-host", server.URL, "-doc", "doc123", "-tab", "0", "-requester", "Ana", "-out", out}, &stdout, &stderr)

		require.Equal(t, exitOK, code, stdout.String())
		rows := readRows(t, out)
		require.Len(t, rows, 2)
		assert.Equal(t, "Sin OC", rows[1][len(rows[1])-1])
	})

	t.Run("unreachable document", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), []string{"-host", server.URL, "-doc", "missing", "-out", filepath.Join(t.TempDir(), "x.csv")}, &stdout, &stderr)
		assert.Equal(t, exitRemote, code)
	})
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-nope"}},
		{"file and doc", []string{"-file", "a.xlsx", "-doc", "abc"}},
		{"bad status", []string{"-file", "a.xlsx", "-status", "Maybe"}},
		{"no input", []string{}},
		{"positional args", []string{"extra"}},
	}

	t.Setenv("SOLPED_SOURCE_DOCUMENT_ID", "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, exitUsage, run(context.Background(), tt.args, &stdout, &stderr))
		})
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, exitOK, run(context.Background(), []string{"-version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "SOLPED Dashboard v")
	assert.Empty(t, stderr.String())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitStructural, exitCode(fmt.Errorf("ingest: %w", &apperrors.MalformedGridError{Rows: 1})))
	assert.Equal(t, exitRemote, exitCode(&apperrors.NetworkError{URL: "x", Cause: fmt.Errorf("refused")}))
	assert.Equal(t, exitUsage, exitCode(fmt.Errorf("%w: bad", apperrors.ErrInvalidFilter)))
	assert.Equal(t, exitFailure, exitCode(fmt.Errorf("disk full")))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Ana", "Luis"}, splitList(" Ana, ,Luis "))
	assert.Nil(t, splitList(""))
}
