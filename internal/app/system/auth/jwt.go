// internal/app/system/auth/jwt.go
package auth

import (
	"context"
	"fmt"

	"github.com/dalemusser/lessonlab/internal/app/system/normalize"
	"github.com/golang-jwt/jwt/v5"
)

// identityClaims are the claims this service reads from an access token.
// Email is required; UID falls back to the registered subject claim when
// the issuer does not set a dedicated uid claim.
type identityClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	UID   string `json:"uid"`
}

// JWTVerifier verifies HS256 access tokens issued by the identity
// provider. It holds no per-request state and is safe for concurrent use.
type JWTVerifier struct {
	secret []byte
	issuer string // when non-empty, the iss claim must match
}

// NewJWTVerifier creates a verifier for tokens signed with the given
// shared secret. Pass an empty issuer to skip issuer validation.
func NewJWTVerifier(secret []byte, issuer string) *JWTVerifier {
	return &JWTVerifier{secret: secret, issuer: issuer}
}

// Verify parses and validates token, returning the identity it carries.
// Any parse, signature, expiry, or claim failure wraps ErrInvalidToken.
func (v *JWTVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims identityClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email := normalize.Email(claims.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: token has no email claim", ErrInvalidToken)
	}

	uid := claims.UID
	if uid == "" {
		uid = claims.Subject
	}

	return &Identity{Email: email, UID: uid}, nil
}
