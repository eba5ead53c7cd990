package citygram_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citygram-orlando/internal/domain/entity"
	"citygram-orlando/internal/handler/http/citygram"
	cgUC "citygram-orlando/internal/usecase/citygram"
)

/* ──────────────────────────── stub service ──────────────────────────── */

type stubFeeds struct {
	fc  *entity.FeatureCollection
	err error
	got []string
}

func (s *stubFeeds) Tags() []string { return []string{"police"} }

func (s *stubFeeds) Collection(_ context.Context, tag string) (*entity.FeatureCollection, error) {
	s.got = append(s.got, tag)
	if tag != "police" {
		return nil, cgUC.ErrUnknownService
	}
	return s.fc, s.err
}

func newMux(svc citygram.FeedService) *http.ServeMux {
	mux := http.NewServeMux()
	citygram.Register(mux, svc, "http://orlando-citygram-api.azurewebsites.net")
	return mux
}

/* ──────────────────────────── tests ──────────────────────────── */

func TestFeedHandler_Collection(t *testing.T) {
	svc := &stubFeeds{fc: entity.NewFeatureCollection([]*entity.Feature{{
		ID:         "ec78d78507b05c5105a40bdff2636d90264b6517",
		Type:       "Feature",
		Geometry:   map[string]any{"type": "Point", "coordinates": []any{-81.379, 28.543}},
		Properties: map[string]any{"title": "Alarm has been reported near 100 N ORANGE AVE on 4/17 at 1:05AM"},
	}})}

	rec := httptest.NewRecorder()
	newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?service=police", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Type     string `json:"type"`
		Features []struct {
			ID         string         `json:"id"`
			Type       string         `json:"type"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "FeatureCollection", body.Type)
	require.Len(t, body.Features, 1)
	assert.Equal(t, "Feature", body.Features[0].Type)
	assert.Equal(t, "ec78d78507b05c5105a40bdff2636d90264b6517", body.Features[0].ID)
}

func TestFeedHandler_EmptyCollection(t *testing.T) {
	rec := httptest.NewRecorder()
	newMux(&stubFeeds{fc: entity.NewFeatureCollection(nil)}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?service=police", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, rec.Body.String())
}

func TestFeedHandler_Errors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "unknown service",
			target:   "/?service=fire",
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"not a valid service"}`,
		},
		{
			name:     "upstream failure",
			target:   "/?service=police",
			err:      fmt.Errorf("%w: police: %w", cgUC.ErrUpstream, errors.New("dial tcp: connection refused")),
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"error":"data fetch error"}`,
		},
		{
			name:     "unexpected error is hidden",
			target:   "/?service=police",
			err:      errors.New("cache corrupted"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newMux(&stubFeeds{err: tt.err}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestFeedHandler_Homepage(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "no service", target: "/"},
		{name: "service given twice", target: "/?service=police&service=fire"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubFeeds{}
			rec := httptest.NewRecorder()
			newMux(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			body := rec.Body.String()
			assert.Contains(t, body, "<h1>Orlando Citygram API</h1>")
			assert.Contains(t, body, "http://orlando-citygram-api.azurewebsites.net/?service=police")
			assert.Contains(t, body, "Code For Orlando")
			assert.Empty(t, svc.got)
		})
	}
}

func TestFeedHandler_HomepageUsesRequestHost(t *testing.T) {
	rec := httptest.NewRecorder()
	citygram.FeedHandler{Svc: &stubFeeds{}}.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://localhost:8080/", nil))

	assert.Contains(t, rec.Body.String(), "http://localhost:8080/?service=police")
}

func TestFeedHandler_UnknownPath(t *testing.T) {
	rec := httptest.NewRecorder()
	citygram.FeedHandler{Svc: &stubFeeds{}}.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServicesHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	newMux(&stubFeeds{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/services", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"services":["police"]}`, rec.Body.String())
}
