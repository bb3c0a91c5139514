// Package role maps user roles between the database, tokens and
// authorization checks.
package role

import (
	"math"

	"github.com/matt-dz/foodgram/internal/database"
)

// Role is ordered: a higher value grants everything a lower one does.
type Role int

const (
	RoleAdmin   Role = 200
	RoleUser    Role = 100
	RoleUnknown Role = math.MinInt
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return string(database.RoleAdmin)
	case RoleUser:
		return string(database.RoleUser)
	default:
		return "unknown"
	}
}

// Allows reports whether r satisfies a route that requires min.
func (r Role) Allows(min Role) bool {
	return r != RoleUnknown && r >= min
}

func DBToRole(role database.Role) Role {
	return ToRole(string(role))
}

func ToRole(role string) Role {
	switch database.Role(role) {
	case database.RoleAdmin:
		return RoleAdmin
	case database.RoleUser:
		return RoleUser
	default:
		return RoleUnknown
	}
}
