package http

import (
	"net/http"
	"time"
)

// Timeout cancels the request context after d and answers 503 with a JSON
// body if the handler has not written a response by then.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		th := http.TimeoutHandler(next, d, `{"error":"request timeout"}`)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// labels the timeout body; a handler's own Content-Type replaces it
			w.Header().Set("Content-Type", "application/json")
			th.ServeHTTP(w, r)
		})
	}
}
