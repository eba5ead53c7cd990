package responsewriter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_DefaultsToOK(t *testing.T) {
	w := Wrap(httptest.NewRecorder())
	assert.Equal(t, http.StatusOK, w.StatusCode())
	assert.Zero(t, w.BytesWritten())
}

func TestWrap_Idempotent(t *testing.T) {
	w := Wrap(httptest.NewRecorder())
	assert.Same(t, w, Wrap(w))
}

func TestWriteHeader_FirstCallWins(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	w.WriteHeader(http.StatusServiceUnavailable)
	w.WriteHeader(http.StatusOK)

	assert.Equal(t, http.StatusServiceUnavailable, w.StatusCode())
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWrite_CountsBytesAndImpliesOK(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	_, _ = w.Write([]byte(`{"type":`))
	_, _ = w.Write([]byte(`"FeatureCollection"}`))

	assert.Equal(t, http.StatusOK, w.StatusCode())
	assert.Equal(t, 28, w.BytesWritten())
	assert.Equal(t, `{"type":"FeatureCollection"}`, rec.Body.String())
}

func TestFlush(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)
	w.Flush()
	assert.True(t, rec.Flushed)
}

func TestUnwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.Same(t, rec, Wrap(rec).Unwrap())
}
