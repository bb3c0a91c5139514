package role

import (
	"testing"

	"github.com/matt-dz/foodgram/internal/database"
)

func TestToRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{in: "admin", want: RoleAdmin},
		{in: "user", want: RoleUser},
		{in: "ADMIN", want: RoleUnknown},
		{in: "", want: RoleUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ToRole(tt.in); got != tt.want {
				t.Errorf("ToRole(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if tt.want != RoleUnknown && ToRole(tt.want.String()) != tt.want {
				t.Errorf("String() of %v does not round trip", tt.want)
			}
		})
	}

	if DBToRole(database.RoleAdmin) != RoleAdmin {
		t.Error("expected database admin role to map to RoleAdmin")
	}
}

func TestAllows(t *testing.T) {
	tests := []struct {
		name string
		have Role
		min  Role
		want bool
	}{
		{name: "admin on user route", have: RoleAdmin, min: RoleUser, want: true},
		{name: "user on user route", have: RoleUser, min: RoleUser, want: true},
		{name: "user on admin route", have: RoleUser, min: RoleAdmin, want: false},
		{name: "unknown on user route", have: RoleUnknown, min: RoleUser, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.have.Allows(tt.min); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
