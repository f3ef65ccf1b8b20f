package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/procmap/pkg/cache"
	perrors "github.com/matzehuels/procmap/pkg/errors"
	"github.com/matzehuels/procmap/pkg/store"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "err", err)
	}
	writeJSON(w, status, body)
}

// classify maps err to a status and response body. Store and cache
// sentinels are translated to codes before the generic mapping.
func classify(err error) (int, errorBody) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, errorBody{
			Code:    string(perrors.ErrCodeInvalidInput),
			Message: "request body too large",
		}
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrExpired):
		return http.StatusNotFound, errorBody{
			Code:    string(perrors.ErrCodeNotFound),
			Message: err.Error(),
		}
	case errors.Is(err, cache.ErrUnavailable):
		return http.StatusServiceUnavailable, errorBody{
			Code:    string(perrors.ErrCodeCache),
			Message: err.Error(),
		}
	}

	code := perrors.GetCode(err)
	if code == "" {
		code = perrors.ErrCodeInternal
	}
	return perrors.HTTPStatus(err), errorBody{
		Code:    string(code),
		Message: perrors.UserMessage(err),
	}
}

func notFound(format string, args ...any) error {
	return perrors.New(perrors.ErrCodeNotFound, format, args...)
}
