package publisher

import (
	"errors"
	"net/http"

	"citygram-orlando/internal/domain/entity"
	"citygram-orlando/internal/handler/http/pathutil"
	"citygram-orlando/internal/handler/http/respond"
	pubUC "citygram-orlando/internal/usecase/publisher"
)

var errInvalidActive = errors.New("active must be a boolean")

type GetHandler struct{ Svc Reader }

// ServeHTTP returns one publisher by ID.
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/publishers/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	p, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, entity.ErrValidationFailed):
			code = http.StatusBadRequest
		case errors.Is(err, pubUC.ErrPublisherNotFound):
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(p))
}
