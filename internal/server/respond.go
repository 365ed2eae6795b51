package server

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/matzehuels/biotree/pkg/errors"
)

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeRaw(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, err error) {
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errors.ErrCodeInternal
	}
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, statusFor(err), body)
}

// statusFor maps an error to an HTTP status. Causes are checked before the
// wrapping code so that a LOAD_FAILED caused by a network error reports 502.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeNetwork):
		return http.StatusBadGateway
	case errors.Is(err, errors.ErrCodeSessionNotFound),
		errors.Is(err, errors.ErrCodeNodeNotFound),
		errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeInvalidDocument):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrCodeInvalidInput),
		errors.Is(err, errors.ErrCodeInvalidPath),
		errors.Is(err, errors.ErrCodeInvalidFormat),
		errors.Is(err, errors.ErrCodeInvalidConfig),
		errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeForbidden):
		return http.StatusForbidden
	case errors.Is(err, errors.ErrCodeNotReady):
		return http.StatusConflict
	case errors.Is(err, errors.ErrCodeLoadFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
