// Package error defines the JSON error body returned by every endpoint
// and maps domain errors onto it.
package error

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/matt-dz/foodgram/internal/apperr"
	"github.com/matt-dz/foodgram/internal/json"
)

type Error struct {
	Status  int       `json:"status"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	ErrorID string    `json:"error_id"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// Encode writes e as the response body.
func (e *Error) Encode(w http.ResponseWriter) error {
	return json.WriteJSON(w, e.Status, e)
}

func EncodeError(w http.ResponseWriter, code ErrorCode, message, requestID string) error {
	return (&Error{
		Status:  code.StatusCode(),
		Code:    code,
		Message: message,
		ErrorID: requestID,
	}).Encode(w)
}

func EncodeFieldError(w http.ResponseWriter, code ErrorCode, field, message, requestID string) error {
	return (&Error{
		Status:  code.StatusCode(),
		Code:    code,
		Message: message,
		ErrorID: requestID,
		Field:   field,
	}).Encode(w)
}

func EncodeInternalError(w http.ResponseWriter, requestID string) error {
	return EncodeError(w, InternalServerError, "internal server error", requestID)
}

// FromDomain converts an apperr error into its API form. It returns nil
// when err is not a domain error.
func FromDomain(err error, requestID string) *Error {
	var (
		validationErr *apperr.ValidationError
		notFoundErr   *apperr.NotFoundError
		conflictErr   *apperr.ConflictError
		relationErr   *apperr.RelationNotFoundError
		authErr       *apperr.AuthorizationError
	)

	e := &Error{ErrorID: requestID, Message: err.Error()}
	switch {
	case errors.As(err, &validationErr):
		e.Code, e.Field, e.Message = ValidationFailed, validationErr.Field, validationErr.Message
	case errors.As(err, &notFoundErr):
		e.Code = ErrorCode(notFoundErr.Resource + "_not_found")
		e.Status = http.StatusNotFound
		return e
	case errors.As(err, &conflictErr):
		e.Code, e.Field, e.Message = AlreadyExists, conflictErr.Field, conflictErr.Message
	case errors.As(err, &relationErr):
		e.Code = RelationNotFound
	case errors.As(err, &authErr):
		e.Code = RecipeNotOwned
		if authErr.Anonymous {
			e.Code = NotAuthenticated
		}
	default:
		return nil
	}
	e.Status = e.Code.StatusCode()
	return e
}

// EncodeDomainError writes the API error matching err. When err is not a
// domain error an internal error is written and false is returned so the
// caller can log it.
func EncodeDomainError(w http.ResponseWriter, err error, requestID string) bool {
	if e := FromDomain(err, requestID); e != nil {
		_ = e.Encode(w)
		return true
	}
	_ = EncodeInternalError(w, requestID)
	return false
}
