package shared

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/whatever", nil)
	req = req.WithContext(SetTraceID(req.Context()))
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusConflict, "Username already taken")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Username already taken", resp.Error)
	assert.Len(t, resp.TraceID, 2*TraceIDLength)
}

func TestRespondWithFieldErrors(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/auth/register", nil)
	w := httptest.NewRecorder()

	RespondWithFieldErrors(w, req, http.StatusBadRequest, "Validation failed",
		map[string][]string{
			"email":    {"This field is required."},
			"password": {"This field is required."},
		})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Len(t, resp.FieldErrors, 2)
}

func TestTraceID(t *testing.T) {
	t.Parallel()

	ctx := SetTraceID(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	first := GetTraceID(ctx)
	assert.Len(t, first, 2*TraceIDLength)

	// Each context gets its own ID.
	second := GetTraceID(SetTraceID(ctx))
	assert.NotEqual(t, first, second)

	// Missing trace ID yields an empty string.
	assert.Empty(t, GetTraceID(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
