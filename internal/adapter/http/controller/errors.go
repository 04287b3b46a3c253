package controller

import (
	"errors"
	"net/http"

	"github.com/corebank/transfer-engine/internal/domain"
)

// statusForError maps domain errors onto HTTP statuses. Anything unmapped is
// an internal failure unless the response message marks it as a validation
// problem.
func statusForError(err error, responseMessage string) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnknownRecipient),
		errors.Is(err, domain.ErrTransferNotFound),
		errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSelfTransfer):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case responseMessage == "validation failed" || responseMessage == "invalid amount":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
