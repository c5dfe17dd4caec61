package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()

	err := JSONWithHeaders(w, http.StatusCreated, JSONObject{"message": "ok"}, http.Header{"X-Test": {"1"}})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "1", w.Header().Get("X-Test"))
	assert.JSONEq(t, `{"message":"ok"}`, w.Body.String())
}

func TestMetricsResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	mw := NewMetricsResponseWriter(rec)

	mw.WriteHeader(http.StatusNotFound)
	mw.WriteHeader(http.StatusInternalServerError)
	n, err := mw.Write([]byte("hello"))
	require.NoError(t, err)

	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusNotFound, mw.StatusCode)
	assert.Equal(t, 5, mw.BytesCount)
	assert.Same(t, rec, mw.Unwrap())
}

func TestMetricsResponseWriterDefaultsToOK(t *testing.T) {
	mw := NewMetricsResponseWriter(httptest.NewRecorder())

	_, _ = mw.Write([]byte("{}"))

	assert.Equal(t, http.StatusOK, mw.StatusCode)
}
