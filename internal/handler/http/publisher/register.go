package publisher

import (
	"net/http"
)

// Register mounts the read-only publisher routes on mux.
func Register(mux *http.ServeMux, svc Reader) {
	mux.Handle("GET /publishers", ListHandler{Svc: svc})
	mux.Handle("GET /publishers/", GetHandler{Svc: svc})
}
