// internal/app/system/authz/authz.go

// Package authz decides whether a verified identity may perform an
// operation on a lesson or on the user directory.
//
// Roles are never trusted from the credential: every decision that
// depends on role re-reads it from the user directory, so a demotion
// takes effect on the next request even for tokens issued earlier. An
// identity with no directory record is treated as an ordinary non-admin
// user, not as an error.
package authz

import (
	"context"

	userstore "github.com/dalemusser/lessonlab/internal/app/store/users"
	"github.com/dalemusser/lessonlab/internal/app/system/auth"
	"github.com/dalemusser/lessonlab/internal/domain/models"
)

// Authorizer evaluates ownership and role rules against the directory.
type Authorizer struct {
	users *userstore.Store
}

func New(users *userstore.Store) *Authorizer {
	return &Authorizer{users: users}
}

// IsAdmin reports whether the identity currently holds the admin role,
// looked up fresh from the directory.
func (a *Authorizer) IsAdmin(ctx context.Context, ident *auth.Identity) (bool, error) {
	if ident == nil {
		return false, nil
	}
	role, err := a.users.Role(ctx, ident.Email)
	if err != nil {
		return false, err
	}
	return role == models.RoleAdmin, nil
}

// CanModifyLesson reports whether the identity may update or delete the
// lesson: allowed iff the identity is the lesson's author or currently
// an admin. Ownership is checked first so the common case (authors
// editing their own lessons) costs no directory read.
func (a *Authorizer) CanModifyLesson(ctx context.Context, ident *auth.Identity, lesson *models.Lesson) (bool, error) {
	if ident == nil || lesson == nil {
		return false, nil
	}
	if lesson.IsOwnedBy(ident.Email) {
		return true, nil
	}
	return a.IsAdmin(ctx, ident)
}
