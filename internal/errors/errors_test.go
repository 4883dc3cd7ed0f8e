package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Render(t *testing.T) {
	tests := []struct {
		name       string
		apiError   *APIError
		wantStatus int
	}{
		{"bad request", ErrInvalidRequest, http.StatusBadRequest},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests},
		{"internal", ErrInternalServer, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			require.NoError(t, render.Render(w, r, tt.apiError))
			assert.Equal(t, tt.wantStatus, w.Code)

			var body APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.apiError.ErrorCode, body.ErrorCode)
			assert.Equal(t, tt.apiError.Message, body.Error())
		})
	}
}

func TestConstructors(t *testing.T) {
	t.Run("invalid request carries cause", func(t *testing.T) {
		err := InvalidRequestWithError(fmt.Errorf("bad multipart body"))
		assert.Equal(t, http.StatusBadRequest, err.StatusCode)
		assert.Equal(t, "bad multipart body", err.Details)
	})

	t.Run("validation lists field", func(t *testing.T) {
		err := ErrValidation("date_from", "must be a date")
		assert.Equal(t, "VALIDATION_FAILED", err.ErrorCode)
		assert.Equal(t, []ValidationError{{Field: "date_from", Message: "must be a date"}}, err.Details)
	})

	t.Run("multiple validation errors", func(t *testing.T) {
		errs := []ValidationError{{Field: "a", Message: "x"}, {Field: "b", Message: "y"}}
		err := NewValidationErrors(errs)
		assert.Equal(t, errs, err.Details)
	})
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusConflict, TypeNoDataset, "No Dataset Loaded", "", "/api/v1/summary").
		WithExtension("trace_id", "req-1").
		WithExtension("status", 999)

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, TypeNoDataset, got["type"])
	assert.Equal(t, float64(http.StatusConflict), got["status"])
	assert.Equal(t, "req-1", got["trace_id"])
	assert.Equal(t, "/api/v1/summary", got["instance"])
	assert.NotContains(t, got, "detail")
}

func TestProblemDetails_Render(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	require.NoError(t, render.Render(w, r, NewProblemDetails(http.StatusBadGateway, TypeRemoteUnavailable, "Remote", "", "/")))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestProblemDetails_WithExtensionOnZeroValue(t *testing.T) {
	var problem ProblemDetails
	problem.WithExtension("k", "v")
	assert.Equal(t, "v", problem.Extensions["k"])
}
