package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

// Principal is the caller identity attached to a request.
// The zero value is the anonymous principal.
type Principal struct {
	ID            primitive.ObjectID
	Role          Role
	Status        Status
	RecoveryEmail string
}

// Anonymous is the principal of a request without a resolvable session.
var Anonymous = Principal{}

func (p Principal) Authenticated() bool { return !p.ID.IsZero() }

func (p Principal) Online() bool { return p.Authenticated() && p.Status == StatusOnline }

func (p Principal) HasRole(roles ...Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
