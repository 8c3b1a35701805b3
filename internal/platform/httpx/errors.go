package httpx

import (
	"errors"
	"net/http"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

// RespondError maps domain errors to HTTP problem responses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, shared.ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrPermissionDenied):
		Problem(w, http.StatusForbidden, "Permission Denied", "you do not have access to this resource")
	case errors.Is(err, shared.ErrNotAuthenticated):
		Problem(w, http.StatusUnauthorized, "Unauthorized", "sign in to continue")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
