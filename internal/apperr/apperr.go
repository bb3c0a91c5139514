// Package apperr defines the domain errors returned by the recipe,
// relation and projection services. Handlers map them onto API error
// codes with errors.As.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError is returned when a request field fails a domain rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError is returned when a referenced entity does not exist.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ConflictError is returned when a uniqueness rule would be violated.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// RelationNotFoundError is returned when removing a relation that was
// never created.
type RelationNotFoundError struct {
	Relation string
}

func (e *RelationNotFoundError) Error() string {
	return fmt.Sprintf("%s does not exist", e.Relation)
}

// AuthorizationError is returned when the caller is anonymous or is not
// permitted to act on the resource.
type AuthorizationError struct {
	Anonymous bool
	Message   string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

func Validation(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func NotFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func Conflict(field, msg string) error {
	return &ConflictError{Field: field, Message: msg}
}

func RelationNotFound(relation string) error {
	return &RelationNotFoundError{Relation: relation}
}

func Forbidden(msg string) error {
	return &AuthorizationError{Message: msg}
}

func Unauthenticated() error {
	return &AuthorizationError{Anonymous: true, Message: "authentication credentials were not provided"}
}

// IsDomain reports whether err wraps one of the errors above, meaning
// the caller rather than the server is at fault.
func IsDomain(err error) bool {
	var (
		v *ValidationError
		n *NotFoundError
		c *ConflictError
		r *RelationNotFoundError
		a *AuthorizationError
	)
	return errors.As(err, &v) || errors.As(err, &n) || errors.As(err, &c) ||
		errors.As(err, &r) || errors.As(err, &a)
}
