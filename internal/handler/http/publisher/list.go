package publisher

import (
	"context"
	"net/http"
	"strconv"

	"citygram-orlando/internal/domain/entity"
	"citygram-orlando/internal/handler/http/respond"
)

// Reader is the subset of the publisher use case the handlers need.
type Reader interface {
	Get(ctx context.Context, id int64) (*entity.Publisher, error)
	List(ctx context.Context) ([]*entity.Publisher, error)
	ListActive(ctx context.Context) ([]*entity.Publisher, error)
}

type ListHandler struct{ Svc Reader }

// ServeHTTP lists publishers in ID order. ?active=true limits the list to
// active publishers.
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if v := r.URL.Query().Get("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respond.SafeError(w, http.StatusBadRequest, errInvalidActive)
			return
		}
		activeOnly = b
	}

	var (
		list []*entity.Publisher
		err  error
	)
	if activeOnly {
		list, err = h.Svc.ListActive(r.Context())
	} else {
		list, err = h.Svc.List(r.Context())
	}
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]DTO, 0, len(list))
	for _, p := range list {
		out = append(out, toDTO(p))
	}
	respond.JSON(w, http.StatusOK, out)
}
