// Package routes holds request parsing shared by the resource handlers.
package routes

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/apperr"
	mJson "github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/projection"
)

const (
	ParamID           = "id"
	QueryRecipesLimit = "recipes_limit"
)

var ErrInvalidID = errors.New("id must be a positive integer")

// PathID parses the URL parameter name as a positive id.
func PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

// Viewer returns the authenticated user of the request, or the anonymous
// viewer when the request carries no token.
func Viewer(r *http.Request) projection.Viewer {
	userID, err := token.UserIDFromCtx(r.Context())
	if err != nil {
		return projection.Viewer{}
	}
	return projection.UserViewer(userID)
}

// Flag reports whether the query parameter name is set to 1 or true.
func Flag(q url.Values, name string) bool {
	switch q.Get(name) {
	case "1", "true":
		return true
	}
	return false
}

// RecipesLimit parses the recipes_limit query parameter. A missing value
// means no limit.
func RecipesLimit(q url.Values) (*int32, error) {
	raw := q.Get(QueryRecipesLimit)
	if raw == "" {
		return nil, nil
	}
	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperr.Validation(QueryRecipesLimit, "must be an integer")
	}
	if limit < 0 {
		return nil, apperr.Validation(QueryRecipesLimit, "must not be negative")
	}
	limit = min(limit, math.MaxInt32)
	l := int32(limit)
	return &l, nil
}

// DecodeBody strictly decodes the JSON request body into dst.
func DecodeBody(r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	return mJson.DecodeJSON(dst, mJson.NewStrictDecoder(r.Body))
}
