package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/slidesmith/slidesmith-api/internal/domain"
	"github.com/slidesmith/slidesmith-api/internal/generation"
	"github.com/slidesmith/slidesmith-api/internal/service/auth"
	"github.com/slidesmith/slidesmith-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	var extractionErr *generation.ExtractionError
	var schemaErr *generation.SchemaError

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, generation.ErrEmptyFields),
		errors.Is(err, generation.ErrInvalidKind),
		errors.Is(err, store.ErrInvalidEntity),
		isDomainValidationError(err),
		errors.As(err, &extractionErr),
		errors.As(err, &schemaErr):
		return http.StatusBadRequest

	// Transport failures, transient or permanent, stay opaque
	default:
		return http.StatusInternalServerError
	}
}

// domainValidationErrors are the entity-shape failures that can only come
// from a client payload; they map to 400 even when a store surfaces them.
var domainValidationErrors = []error{
	domain.ErrEmptySowTitle,
	domain.ErrEmptySowSlides,
	domain.ErrEmptyDocumentTitle,
	domain.ErrEmptySlideSequence,
	domain.ErrEmptySlideID,
	domain.ErrInvalidSlideTemplate,
	domain.ErrInvalidContentType,
	domain.ErrDuplicateSlideID,
	domain.ErrSlideCountMismatch,
}

func isDomainValidationError(err error) bool {
	for _, target := range domainValidationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. Extraction and schema failures surface their
// bounded excerpt so callers can see what the model produced; nothing else
// carries internal detail.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var extractionErr *generation.ExtractionError
	var schemaErr *generation.SchemaError
	var transportErr *generation.TransportError

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrSowNotFound):
		return "SOW not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, generation.ErrEmptyFields):
		return "At least one input field must be provided"

	case errors.Is(err, generation.ErrInvalidKind):
		return "Unsupported document kind"

	case isDomainValidationError(err):
		return "Invalid sow data: " + err.Error()

	case errors.As(err, &extractionErr):
		return fmt.Sprintf("Model output was not valid JSON: %q", extractionErr.Excerpt)

	case errors.As(err, &schemaErr):
		return fmt.Sprintf("Model output did not match the document schema: %s", schemaErr.Reason)

	case errors.As(err, &transportErr):
		return "The generation service is temporarily unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// RespondWithMappedError maps err to its status code and safe message,
// then writes the sanitized response while logging the underlying error.
func RespondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}
