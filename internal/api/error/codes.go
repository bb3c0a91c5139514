package error

import "net/http"

type ErrorCode string

const (
	UnknownError            ErrorCode = "unknown_error"
	InternalServerError     ErrorCode = "internal_server_error"
	BadRequest              ErrorCode = "bad_request"
	NotFound                ErrorCode = "not_found"
	TooManyRequests         ErrorCode = "too_many_requests"
	ValidationFailed        ErrorCode = "validation_failed"
	AlreadyExists           ErrorCode = "already_exists"
	RelationNotFound        ErrorCode = "relation_not_found"
	NotAuthenticated        ErrorCode = "not_authenticated"
	InvalidCredentials      ErrorCode = "invalid_credentials"
	InvalidAccessToken      ErrorCode = "invalid_access_token"
	ExpiredAccessToken      ErrorCode = "expired_access_token"
	InsufficientPermissions ErrorCode = "insufficient_permissions"
	WeakPassword            ErrorCode = "weak_password"
	InvalidPassword         ErrorCode = "invalid_password"
	RecipeNotOwned          ErrorCode = "recipe_not_owned"
	RecipeNotFound          ErrorCode = "recipe_not_found"
	IngredientNotFound      ErrorCode = "ingredient_not_found"
	TagNotFound             ErrorCode = "tag_not_found"
	UserNotFound            ErrorCode = "user_not_found"
)

var errorCodeToStatusCode = map[ErrorCode]int{
	UnknownError:            0, // No error code - unknown
	InternalServerError:     http.StatusInternalServerError,
	BadRequest:              http.StatusBadRequest,
	NotFound:                http.StatusNotFound,
	TooManyRequests:         http.StatusTooManyRequests,
	ValidationFailed:        http.StatusBadRequest,
	AlreadyExists:           http.StatusBadRequest,
	RelationNotFound:        http.StatusBadRequest,
	NotAuthenticated:        http.StatusUnauthorized,
	InvalidCredentials:      http.StatusBadRequest,
	InvalidAccessToken:      http.StatusUnauthorized,
	ExpiredAccessToken:      http.StatusUnauthorized,
	InsufficientPermissions: http.StatusForbidden,
	WeakPassword:            http.StatusBadRequest,
	InvalidPassword:         http.StatusBadRequest,
	RecipeNotOwned:          http.StatusForbidden,
	RecipeNotFound:          http.StatusNotFound,
	IngredientNotFound:      http.StatusNotFound,
	TagNotFound:             http.StatusNotFound,
	UserNotFound:            http.StatusNotFound,
}

func (ec ErrorCode) StatusCode() int {
	return errorCodeToStatusCode[ec]
}

func (ec ErrorCode) String() string {
	return string(ec)
}
