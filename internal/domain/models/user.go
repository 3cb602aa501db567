// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a member of the platform, keyed by email.
//
// Registration is an upsert: the first POST /register for an email creates
// the record, later ones update it. There is no deletion path, so exactly
// one record exists per email (enforced by a unique index).
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email    string             `bson:"email" json:"email"` // unique key, stored lowercase
	FullName string             `bson:"full_name,omitempty" json:"full_name,omitempty"`
	PhotoURL string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`

	// Role gates admin-only operations. It is looked up fresh from the
	// directory on every privileged call, never trusted from a token.
	Role string `bson:"role,omitempty" json:"role,omitempty"`

	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// User roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// AllRoles returns all valid user roles.
func AllRoles() []string {
	return []string{
		RoleAdmin,
		RoleUser,
	}
}

// IsValidRole checks if a role is valid.
func IsValidRole(role string) bool {
	for _, r := range AllRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
