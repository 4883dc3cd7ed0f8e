package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"solpedcli/internal/config"
	"solpedcli/internal/infrastructure"
	"solpedcli/internal/remote"
	"solpedcli/internal/shared/testutil"
	"solpedcli/pkg/contracts/domain"
)

// MockFetcher is a mock for remote.Fetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, documentID, tabID string) (*domain.Table, error) {
	args := m.Called(ctx, documentID, tabID)
	if table := args.Get(0); table != nil {
		return table.(*domain.Table), args.Error(1)
	}
	return nil, args.Error(1)
}

func testSource() config.SourceConfig {
	source := config.Default().Source
	source.DocumentID = "default-doc"
	source.TabID = "0"
	return source
}

func newTestService(t *testing.T, fetcher *MockFetcher) (*SolpedService, *testutil.BufferedSlogHandler) {
	t.Helper()

	logger, logs := testutil.NewTestLogger(t)
	metrics, err := infrastructure.NewPipelineMetrics(nil)
	require.NoError(t, err)

	var f remote.Fetcher
	if fetcher != nil {
		f = fetcher
	}
	return NewSolpedService(testSource(), f, metrics, noop.NewTracerProvider().Tracer("test"), logger), logs
}

// loadSample ingests testutil.SampleSolpedRows through the workbook path.
func loadSample(t *testing.T, svc *SolpedService) *DatasetInfo {
	t.Helper()

	info, err := svc.IngestWorkbook(context.Background(), testutil.SolpedWorkbookBytes(t, testutil.SampleSolpedRows()), "SOLPED_VS_OC.xlsx")
	require.NoError(t, err)
	return info
}
