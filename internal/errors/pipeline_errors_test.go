package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineErrors_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"malformed grid", NewMalformedGridError(2), "malformed grid: 2 rows, need at least 4"},
		{"missing column", &MissingColumnError{Column: "Doc.Compra"}, `missing required column "Doc.Compra"`},
		{"network", &NetworkError{URL: "https://host/doc", Cause: io.ErrUnexpectedEOF}, "fetch https://host/doc: unexpected EOF"},
		{"remote parse", &RemoteParseError{URL: "remote:doc#gid=0", Cause: fmt.Errorf("empty table")}, "parse remote:doc#gid=0: empty table"},
		{"coercion without cause", &FieldCoercionError{Field: "Cantidad", Value: "x"}, `cannot coerce Cantidad value "x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestPipelineErrors_Unwrap(t *testing.T) {
	cause := io.ErrUnexpectedEOF

	wrapped := fmt.Errorf("ingest: %w", &NetworkError{URL: "u", Cause: cause})
	assert.ErrorIs(t, wrapped, cause)

	var netErr *NetworkError
	assert.True(t, errors.As(wrapped, &netErr))
	assert.Equal(t, "u", netErr.URL)

	assert.ErrorIs(t, &RemoteParseError{Cause: cause}, cause)
	assert.ErrorIs(t, &FieldCoercionError{Field: "f", Value: "v", Cause: cause}, cause)
}
