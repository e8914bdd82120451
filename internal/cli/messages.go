package cli

import (
	"errors"
	"sort"
	"strings"

	"github.com/dtroode/emotion-log/internal/apierrors"
)

// userMessage turns an error into the sentence shown to the user.
func userMessage(err error) string {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		return "Something went wrong: " + err.Error()
	}

	switch apiErr.Kind {
	case apierrors.KindConflict:
		return "This email address is already in use."
	case apierrors.KindInvalidCredentials:
		return "Invalid email or password."
	case apierrors.KindUnauthorized:
		return "Your session has expired. Please log in again."
	case apierrors.KindNetwork:
		return "Could not reach the server. Check your connection and try again."
	case apierrors.KindRateLimited:
		return "Too many attempts. Please wait a moment and try again."
	case apierrors.KindCanceled:
		return "Request canceled."
	case apierrors.KindValidation:
		return validationMessage(apiErr)
	case apierrors.KindNotFound:
		return capitalize(apiErr.Message) + "."
	default:
		return "Something went wrong on the server. Please try again later."
	}
}

func validationMessage(apiErr *apierrors.APIError) string {
	if len(apiErr.Details) == 0 {
		return capitalize(apiErr.Message) + "."
	}

	fields := make([]string, 0, len(apiErr.Details))
	for field := range apiErr.Details {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	lines := make([]string, 0, len(fields))
	for _, field := range fields {
		lines = append(lines, "  "+field+" "+apiErr.Details[field])
	}
	return "Please fix the following:\n" + strings.Join(lines, "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
