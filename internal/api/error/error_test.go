package error

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/matt-dz/foodgram/internal/apperr"
)

func TestFromDomain(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantNil    bool
		wantCode   ErrorCode
		wantStatus int
		wantField  string
	}{
		{
			name:       "validation",
			err:        apperr.Validation("cooking_time", "must be at least 1"),
			wantCode:   ValidationFailed,
			wantStatus: http.StatusBadRequest,
			wantField:  "cooking_time",
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("loading: %w", apperr.NotFound("ingredient", 9)),
			wantCode:   IngredientNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "conflict",
			err:        apperr.Conflict("name", "recipe already exists"),
			wantCode:   AlreadyExists,
			wantStatus: http.StatusBadRequest,
			wantField:  "name",
		},
		{
			name:       "relation missing",
			err:        apperr.RelationNotFound("favorite"),
			wantCode:   RelationNotFound,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "anonymous",
			err:        apperr.Unauthenticated(),
			wantCode:   NotAuthenticated,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not the author",
			err:        apperr.Forbidden("only the author may edit this recipe"),
			wantCode:   RecipeNotOwned,
			wantStatus: http.StatusForbidden,
		},
		{
			name:    "unknown error",
			err:     errors.New("connection reset"),
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromDomain(tt.err, "42")
			if tt.wantNil {
				if got != nil {
					t.Fatalf("expected nil, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected an API error, got nil")
			}
			if got.Code != tt.wantCode || got.Status != tt.wantStatus || got.Field != tt.wantField {
				t.Errorf("got %+v", got)
			}
			if got.ErrorID != "42" {
				t.Errorf("expected error id 42, got %q", got.ErrorID)
			}
		})
	}
}

func TestEncodeDomainError(t *testing.T) {
	w := httptest.NewRecorder()
	if EncodeDomainError(w, errors.New("boom"), "7") {
		t.Error("expected unknown error to be reported as unhandled")
	}
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}

	var body Error
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Code != InternalServerError || body.ErrorID != "7" {
		t.Errorf("unexpected body %+v", body)
	}

	w = httptest.NewRecorder()
	if !EncodeDomainError(w, apperr.NotFound("recipe", 3), "8") {
		t.Error("expected domain error to be handled")
	}
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
