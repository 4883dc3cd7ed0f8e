package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "solpedcli/internal/errors"
	"solpedcli/internal/shared/testutil"
)

type remoteRequest struct {
	DocumentID string `json:"document_id" validate:"omitempty,document_id"`
	TabID      string `json:"tab_id" validate:"omitempty,tab_id"`
	Status     string `json:"status" validate:"omitempty,oneof=All WithPO WithoutPO"`
}

func newValidation(t *testing.T, maxBody int64) *ValidationMiddleware {
	logger, _ := testutil.NewTestLogger(t)
	return NewValidationMiddleware(logger, apierrors.NewErrorHandler(logger, false), maxBody)
}

func TestValidateStruct(t *testing.T) {
	m := newValidation(t, 0)

	tests := []struct {
		name       string
		req        remoteRequest
		wantFields []string
	}{
		{"empty is valid", remoteRequest{}, nil},
		{"valid handles", remoteRequest{DocumentID: "1AbC_d-9", TabID: "1183146257", Status: "WithoutPO"}, nil},
		{"bad document id", remoteRequest{DocumentID: "../etc/passwd"}, []string{"document_id"}},
		{"bad tab id", remoteRequest{TabID: "Sheet1"}, []string{"tab_id"}},
		{"bad status and tab", remoteRequest{TabID: "x", Status: "Maybe"}, []string{"tab_id", "status"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.ValidateStruct(tt.req)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierrors.APIError
			require.True(t, errors.As(err, &apiErr))
			details, ok := apiErr.Details.([]apierrors.ValidationError)
			require.True(t, ok)

			var fields []string
			for _, d := range details {
				fields = append(fields, d.Field)
				assert.NotEmpty(t, d.Message)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestValidateJSONBody(t *testing.T) {
	m := newValidation(t, 64)
	var got string
	handler := m.ValidateJSONBody(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := new(strings.Builder)
		_, _ = buf.ReadFrom(r.Body)
		got = buf.String()
		w.WriteHeader(http.StatusAccepted)
	}))

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid json is replayed", `{"document_id":"abc"}`, http.StatusAccepted},
		{"empty body passes", "", http.StatusAccepted},
		{"invalid json", `{"document_id":`, http.StatusBadRequest},
		{"too large", `{"document_id":"` + strings.Repeat("a", 100) + `"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = ""
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/datasets/remote", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusAccepted {
				assert.Equal(t, tt.body, got)
			}
		})
	}
}

func TestContentTypeValidator(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := ContentTypeValidator(apierrors.NewErrorHandler(logger, false), "application/json")(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x"))
	r.Header.Set("Content-Type", "text/plain")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestQueryParamValidator(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewQueryParamValidator(logger, apierrors.NewErrorHandler(logger, false))

	w := httptest.NewRecorder()
	field, ok := v.ValidateEnum(w, httptest.NewRequest(http.MethodGet, "/?field=mod_date", nil), "field", []string{"request_date", "mod_date"}, "request_date")
	assert.True(t, ok)
	assert.Equal(t, "mod_date", field)

	field, ok = v.ValidateEnum(w, httptest.NewRequest(http.MethodGet, "/", nil), "field", []string{"request_date"}, "request_date")
	assert.True(t, ok)
	assert.Equal(t, "request_date", field)

	w = httptest.NewRecorder()
	_, ok = v.ValidateEnum(w, httptest.NewRequest(http.MethodGet, "/?field=cantidad", nil), "field", []string{"request_date"}, "request_date")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bom, ok := v.ValidateBool(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?bom=1", nil), "bom", false)
	assert.True(t, ok)
	assert.True(t, bom)

	w = httptest.NewRecorder()
	_, ok = v.ValidateBool(w, httptest.NewRequest(http.MethodGet, "/?bom=perhaps", nil), "bom", false)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
