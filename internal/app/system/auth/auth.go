// internal/app/system/auth/auth.go

// Package auth resolves bearer credentials into verified identities and
// attaches them to the request context.
//
// Credential format: "Authorization: Bearer <token>". A missing or
// malformed header is rejected before any verification attempt; a present
// but invalid token is rejected after exactly one verification attempt.
// Both cases are 401s, with distinct messages so clients can tell a
// missing credential from an expired one.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/lessonlab/internal/app/system/jsonutil"
	"go.uber.org/zap"
)

// Identity is the verified principal derived from a credential.
type Identity struct {
	Email string
	UID   string
}

// Verifier turns a raw bearer token into a verified Identity.
// Implementations must make exactly one verification attempt; the
// middleware never retries.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

var (
	// ErrNoCredential is returned when the Authorization header is missing
	// or not in "Bearer <token>" form.
	ErrNoCredential = errors.New("missing or malformed bearer credential")
	// ErrInvalidToken is returned when a present token fails verification.
	ErrInvalidToken = errors.New("invalid token")
)

// BearerToken extracts the token from the Authorization header.
// Returns ErrNoCredential if the header is absent or not Bearer-formed.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrNoCredential
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrNoCredential
	}
	return parts[1], nil
}

type contextKey string

const identityKey contextKey = "identity"

func withIdentity(r *http.Request, ident *Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityKey, ident))
}

// CurrentIdentity returns the verified identity & "found?" flag from the
// request context.
func CurrentIdentity(r *http.Request) (*Identity, bool) {
	ident, ok := r.Context().Value(identityKey).(*Identity)
	return ident, ok && ident != nil
}

// RequireIdentity returns middleware that rejects requests without a
// verified identity.
//
// Responses match the legacy surface: "Unauthorized Access" when no
// credential was presented, "Invalid Token" when verification failed.
func RequireIdentity(v Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				logger.Debug("request rejected: no bearer credential",
					zap.String("path", r.URL.Path),
				)
				jsonutil.Unauthorized(w, "Unauthorized Access")
				return
			}

			ident, err := v.Verify(r.Context(), token)
			if err != nil {
				logger.Debug("request rejected: token verification failed",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				jsonutil.Unauthorized(w, "Invalid Token")
				return
			}

			next.ServeHTTP(w, withIdentity(r, ident))
		})
	}
}

// OptionalIdentity returns middleware that attaches an identity when a
// valid bearer token is present and otherwise lets the request through
// anonymously. Used on public routes that behave better when they know
// who the caller is (e.g. stamping the author on lesson creation).
func OptionalIdentity(v Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ident, err := v.Verify(r.Context(), token)
			if err != nil {
				// A bad token on an optional route is not fatal, but worth a log line.
				logger.Debug("ignoring invalid bearer token on public route",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, withIdentity(r, ident))
		})
	}
}

// WithTestIdentity injects an Identity into the request context for testing.
func WithTestIdentity(r *http.Request, ident *Identity) *http.Request {
	return withIdentity(r, ident)
}
