package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/lorrc/coordination-backend/internal/core/errors"
)

// ErrorResponder writes err as the HTTP response for r. The router passes
// the API's ErrorHandler so that middleware rejections share its format.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

func responderOrDefault(respond ErrorResponder) ErrorResponder {
	if respond != nil {
		return respond
	}
	return writeAppError
}

// writeAppError is used when no responder is configured.
func writeAppError(w http.ResponseWriter, _ *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": appErr.Message,
		"code":  appErr.Code,
	})
}
