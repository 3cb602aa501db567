package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var testSecret = []byte("test-secret-0123456789")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString(secret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func validClaims(email string) jwt.MapClaims {
	return jwt.MapClaims{
		"email": email,
		"uid":   "uid-123",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"lowercase scheme", "bearer abc", "abc", false},
		{"missing header", "", "", true},
		{"wrong scheme", "Basic abc", "", true},
		{"no token", "Bearer ", "", true},
		{"scheme only", "Bearer", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}

			got, err := BearerToken(r)
			if tc.wantErr {
				if !errors.Is(err, ErrNoCredential) {
					t.Errorf("BearerToken() error = %v, want ErrNoCredential", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BearerToken() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("BearerToken() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestJWTVerifier_Verify(t *testing.T) {
	v := NewJWTVerifier(testSecret, "")
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, testSecret, validClaims("User@Example.com"))
		ident, err := v.Verify(ctx, token)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if ident.Email != "user@example.com" {
			t.Errorf("Email = %q, want normalized lowercase", ident.Email)
		}
		if ident.UID != "uid-123" {
			t.Errorf("UID = %q, want %q", ident.UID, "uid-123")
		}
	})

	t.Run("uid falls back to subject", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"email": "sub@test.com",
			"sub":   "subject-42",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})
		ident, err := v.Verify(ctx, token)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if ident.UID != "subject-42" {
			t.Errorf("UID = %q, want subject fallback", ident.UID)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, []byte("other-secret"), validClaims("u@test.com"))
		if _, err := v.Verify(ctx, token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"email": "u@test.com",
			"exp":   time.Now().Add(-time.Hour).Unix(),
		})
		if _, err := v.Verify(ctx, token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("missing expiry", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{"email": "u@test.com"})
		if _, err := v.Verify(ctx, token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("missing email claim", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"sub": "someone",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		if _, err := v.Verify(ctx, token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := v.Verify(ctx, "not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
		}
	})
}

func TestJWTVerifier_IssuerCheck(t *testing.T) {
	v := NewJWTVerifier(testSecret, "lessonlab-idp")
	ctx := context.Background()

	good := signToken(t, testSecret, jwt.MapClaims{
		"email": "u@test.com",
		"iss":   "lessonlab-idp",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	if _, err := v.Verify(ctx, good); err != nil {
		t.Errorf("Verify() with matching issuer error = %v", err)
	}

	bad := signToken(t, testSecret, jwt.MapClaims{
		"email": "u@test.com",
		"iss":   "someone-else",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	if _, err := v.Verify(ctx, bad); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() with wrong issuer error = %v, want ErrInvalidToken", err)
	}
}

func TestRequireIdentity(t *testing.T) {
	v := NewJWTVerifier(testSecret, "")
	logger := zap.NewNop()

	var gotIdent *Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdent, _ = CurrentIdentity(r)
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireIdentity(v, logger)(next)

	t.Run("no credential", func(t *testing.T) {
		gotIdent = nil
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		if body := rec.Body.String(); !contains(body, "Unauthorized Access") {
			t.Errorf("body = %q, want Unauthorized Access message", body)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		gotIdent = nil
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		if body := rec.Body.String(); !contains(body, "Invalid Token") {
			t.Errorf("body = %q, want Invalid Token message", body)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		gotIdent = nil
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims("caller@test.com")))
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if gotIdent == nil || gotIdent.Email != "caller@test.com" {
			t.Errorf("identity in context = %+v, want caller@test.com", gotIdent)
		}
	})
}

func TestOptionalIdentity(t *testing.T) {
	v := NewJWTVerifier(testSecret, "")
	logger := zap.NewNop()

	var gotIdent *Identity
	var gotFound bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdent, gotFound = CurrentIdentity(r)
		w.WriteHeader(http.StatusOK)
	})
	handler := OptionalIdentity(v, logger)(next)

	t.Run("anonymous passes through", func(t *testing.T) {
		gotIdent, gotFound = nil, false
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if gotFound {
			t.Errorf("anonymous request carried identity %+v", gotIdent)
		}
	})

	t.Run("invalid token passes through anonymously", func(t *testing.T) {
		gotIdent, gotFound = nil, false
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if gotFound {
			t.Errorf("invalid token carried identity %+v", gotIdent)
		}
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		gotIdent, gotFound = nil, false
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims("author@test.com")))
		handler.ServeHTTP(rec, req)
		if !gotFound || gotIdent.Email != "author@test.com" {
			t.Errorf("identity = %+v (found %v), want author@test.com", gotIdent, gotFound)
		}
	})
}

func contains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}
