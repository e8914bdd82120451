// Package response writes JSON bodies and the API error envelope.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/emotion-log/internal/apierrors"
	"github.com/dtroode/emotion-log/internal/logger"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string            `json:"error"`
	Code    apierrors.Kind    `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes err as an error envelope. Errors outside the apierrors taxonomy become a 500
// whose message does not leak the cause.
func Error(w http.ResponseWriter, logger *logger.Logger, err error) {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind == apierrors.KindInternal {
		logger.Error("HTTP handler failed", "error", err.Error())
		apiErr = apierrors.NewErrInternal(apierrors.ErrInternal.Message)
	}

	if apiErr.Kind == apierrors.KindUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="emotion-log"`)
	}

	JSON(w, apiErr.HTTPStatus(), ErrorBody{
		Error:   apiErr.Message,
		Code:    apiErr.Kind,
		Details: apiErr.Details,
	})
}
