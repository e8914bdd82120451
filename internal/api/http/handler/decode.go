package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dtroode/emotion-log/internal/apierrors"
)

const maxBodyBytes = 1 << 20

// Validator checks decoded request bodies.
type Validator interface {
	Validate(s any) error
}

// decode reads a single JSON object from the body into dst and validates it.
func decode(w http.ResponseWriter, r *http.Request, v Validator, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apierrors.NewErrValidation("request body is too large", nil)
		case errors.Is(err, io.EOF):
			return apierrors.NewErrValidation("request body is empty", nil)
		default:
			return apierrors.NewErrValidation(fmt.Sprintf("malformed request body: %v", err), nil)
		}
	}
	if dec.More() {
		return apierrors.NewErrValidation("request body must contain a single JSON object", nil)
	}

	return v.Validate(dst)
}
