package http

import (
	"net/http"
)

const (
	maxPathBytes  = 2048
	maxQueryBytes = 2048
)

// InputValidation rejects oversized URLs and caps request bodies. The API is
// read-only, so bodies are limited to 1MB.
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.Path) > maxPathBytes || len(r.URL.RawQuery) > maxQueryBytes {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestURITooLong)
				_, _ = w.Write([]byte(`{"error":"URI too long"}`))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
			next.ServeHTTP(w, r)
		})
	}
}
