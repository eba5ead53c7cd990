// Package citygram serves Citygram-compliant feeds over HTTP.
package citygram

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"citygram-orlando/internal/domain/entity"
	"citygram-orlando/internal/handler/http/respond"
	"citygram-orlando/internal/observability/logging"
	cgUC "citygram-orlando/internal/usecase/citygram"
)

// FeedService is implemented by *citygram.Service.
type FeedService interface {
	Tags() []string
	Collection(ctx context.Context, tag string) (*entity.FeatureCollection, error)
}

var homepage = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Orlando Citygram API</title></head>
<body>
<h1>Orlando Citygram API</h1>
<p>Hi. My job is to take data streams from the Orlando public data portal and format them to be Citygram compliant. Here is a list of service urls that are publicly supported:</p>
{{range .}}<p><a href="{{.}}">{{.}}</a></p>
{{end}}<p>This is a project by <a href="http://codefororlando.com">Code For Orlando</a>.</p>
</body>
</html>
`))

// FeedHandler serves GET /. With ?service=<tag> it returns that feed's
// FeatureCollection, otherwise the homepage listing every service URL.
type FeedHandler struct {
	Svc FeedService
	// BaseURL prefixes service links on the homepage. Empty means the
	// request's own scheme and host.
	BaseURL string
}

func (h FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respond.JSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	services, ok := r.URL.Query()["service"]
	if !ok || len(services) != 1 {
		h.serveHomepage(w, r)
		return
	}

	fc, err := h.Svc.Collection(r.Context(), services[0])
	switch {
	case err == nil:
		respond.JSON(w, http.StatusOK, fc)
	case errors.Is(err, cgUC.ErrUnknownService):
		respond.JSON(w, http.StatusBadRequest, map[string]string{"error": "not a valid service"})
	case errors.Is(err, cgUC.ErrUpstream):
		logging.FromContext(r.Context()).Warn("feed unavailable",
			"service", services[0], "error", respond.SanitizeError(err))
		respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"error": "data fetch error"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.SafeError(w, http.StatusServiceUnavailable, respond.NewAppError(http.StatusServiceUnavailable, "request canceled", err))
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}

func (h FeedHandler) serveHomepage(w http.ResponseWriter, r *http.Request) {
	base := h.BaseURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}

	tags := h.Svc.Tags()
	links := make([]string, 0, len(tags))
	for _, tag := range tags {
		links = append(links, base+"/?service="+tag)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := homepage.Execute(w, links); err != nil {
		logging.FromContext(r.Context()).Error("render homepage", "error", err)
	}
}

// ServicesHandler serves GET /services as a JSON list of tags.
type ServicesHandler struct{ Svc FeedService }

func (h ServicesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string][]string{"services": h.Svc.Tags()})
}

// Register mounts the feed routes on mux.
func Register(mux *http.ServeMux, svc FeedService, baseURL string) {
	mux.Handle("GET /{$}", FeedHandler{Svc: svc, BaseURL: baseURL})
	mux.Handle("GET /services", ServicesHandler{Svc: svc})
}
