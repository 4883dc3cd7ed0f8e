package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solpedcli/internal/config"
	"solpedcli/internal/services"
	"solpedcli/internal/shared/testutil"
)

type stubDatasets struct {
	info *services.DatasetInfo
	err  error
}

func (s stubDatasets) Current(context.Context) (*services.DatasetInfo, error) {
	return s.info, s.err
}

func newHealthRouter(t *testing.T, datasets services.DatasetProvider) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	source := config.Default().Source
	source.DocumentID = "default-doc"

	handler := NewHealthHandler(services.NewHealthService("v1.0.0-test", "2025-01-15T10:00:00Z", source, datasets, logger), logger)
	return handler.Routes()
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		datasets   services.DatasetProvider
		path       string
		wantStatus int
		check      func(t *testing.T, body services.HealthStatus)
	}{
		{
			name:       "health",
			datasets:   stubDatasets{err: services.ErrNoDataset},
			path:       "/",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body services.HealthStatus) {
				assert.Equal(t, "ok", body.Status)
				assert.Equal(t, "v1.0.0-test", body.Version)
			},
		},
		{
			name:       "live",
			datasets:   stubDatasets{err: services.ErrNoDataset},
			path:       "/live",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body services.HealthStatus) {
				assert.Equal(t, "alive", body.Status)
				assert.Contains(t, body.Runtime, "goroutines")
			},
		},
		{
			name:       "ready without dataset",
			datasets:   stubDatasets{err: services.ErrNoDataset},
			path:       "/ready",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body services.HealthStatus) {
				assert.Equal(t, "ready", body.Status)
				assert.Equal(t, "no dataset loaded", body.Services["dataset"].Message)
			},
		},
		{
			name:       "ready with dataset",
			datasets:   stubDatasets{info: &services.DatasetInfo{Records: 5, Source: "solped.xlsx"}},
			path:       "/ready",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body services.HealthStatus) {
				assert.Equal(t, "5 records from solped.xlsx", body.Services["dataset"].Message)
			},
		},
		{
			name:       "not ready",
			datasets:   stubDatasets{err: errors.New("boom")},
			path:       "/ready",
			wantStatus: http.StatusServiceUnavailable,
			check: func(t *testing.T, body services.HealthStatus) {
				assert.Equal(t, "not_ready", body.Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newHealthRouter(t, tt.datasets)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, tt.wantStatus, w.Code)
			var body services.HealthStatus
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			tt.check(t, body)
		})
	}
}

func TestHealthHandler_Version(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewHealthHandler(services.NewHealthService("v1.0.0-test", "2025-01-15T10:00:00Z", config.Default().Source, nil, logger), logger)

	w := httptest.NewRecorder()
	handler.Version(w, httptest.NewRequest(http.MethodGet, "/version", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "v1.0.0-test", body["version"])
	assert.Equal(t, "2025-01-15T10:00:00Z", body["build_time"])
}
