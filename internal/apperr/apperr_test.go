package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsDomain(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "validation", err: Validation("tags", "must not be empty"), want: true},
		{name: "wrapped not found", err: fmt.Errorf("creating recipe: %w", NotFound("tag", 3)), want: true},
		{name: "conflict", err: Conflict("name", "exists"), want: true},
		{name: "relation", err: RelationNotFound("subscription"), want: true},
		{name: "forbidden", err: Forbidden("not yours"), want: true},
		{name: "plain error", err: errors.New("connection refused"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDomain(tt.err); got != tt.want {
				t.Errorf("IsDomain(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: Validation("cooking_time", "must be at least 1"), want: "cooking_time: must be at least 1"},
		{err: Validation("", "subscribing to yourself is not allowed"), want: "subscribing to yourself is not allowed"},
		{err: NotFound("ingredient", 12), want: "ingredient 12 not found"},
		{err: RelationNotFound("favorite"), want: "favorite does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	var authErr *AuthorizationError
	if !errors.As(Unauthenticated(), &authErr) || !authErr.Anonymous {
		t.Error("expected Unauthenticated to be anonymous")
	}
}
