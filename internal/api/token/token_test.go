package token

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/jwt"
)

func testEnv() *env.Env {
	e := env.Null()
	secret := config.AppSecretValue("test-secret-32-bytes-long-1234567890")
	e.Config.AppSecret = config.AppSecret{Value: &secret, Version: "1"}
	return e
}

func TestFromRequest(t *testing.T) {
	e := testEnv()

	tests := []struct {
		name    string
		method  string
		setup   func(*http.Request)
		want    string
		wantErr error
	}{
		{
			name:    "anonymous",
			method:  http.MethodGet,
			setup:   func(r *http.Request) {},
			wantErr: ErrNoToken,
		},
		{
			name:   "token scheme",
			method: http.MethodPost,
			setup: func(r *http.Request) {
				r.Header.Set(AuthorizationHeader, "Token abc")
			},
			want: "abc",
		},
		{
			name:   "bearer scheme",
			method: http.MethodDelete,
			setup: func(r *http.Request) {
				r.Header.Set(AuthorizationHeader, "Bearer abc")
			},
			want: "abc",
		},
		{
			name:   "missing scheme",
			method: http.MethodGet,
			setup: func(r *http.Request) {
				r.Header.Set(AuthorizationHeader, "abc")
			},
			wantErr: ErrMalformedAuthorization,
		},
		{
			name:   "cookie on safe method",
			method: http.MethodGet,
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: AccessTokenName(e), Value: "abc"})
			},
			want: "abc",
		},
		{
			name:   "cookie with matching csrf",
			method: http.MethodPost,
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: AccessTokenName(e), Value: "abc"})
				r.AddCookie(&http.Cookie{Name: CSRFTokenName(e), Value: "csrf"})
				r.Header.Set(CSRFTokenHeader, "csrf")
			},
			want: "abc",
		},
		{
			name:   "cookie without csrf header",
			method: http.MethodPost,
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: AccessTokenName(e), Value: "abc"})
				r.AddCookie(&http.Cookie{Name: CSRFTokenName(e), Value: "csrf"})
			},
			wantErr: ErrMissingCSRFHeader,
		},
		{
			name:   "cookie without csrf cookie",
			method: http.MethodPatch,
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: AccessTokenName(e), Value: "abc"})
				r.Header.Set(CSRFTokenHeader, "csrf")
			},
			wantErr: ErrMissingCSRFCookie,
		},
		{
			name:   "cookie with mismatched csrf",
			method: http.MethodDelete,
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: AccessTokenName(e), Value: "abc"})
				r.AddCookie(&http.Cookie{Name: CSRFTokenName(e), Value: "one"})
				r.Header.Set(CSRFTokenHeader, "two")
			},
			wantErr: ErrCSRFTokenMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, "/api/recipes", nil)
			tt.setup(r)

			got, err := FromRequest(r, e)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	e := testEnv()

	raw, err := NewAccessToken(jwt.JWTParams{Role: "user", UserID: 5}, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := ParseAccessToken(raw, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id, _ := claims.UserID(); id != 5 {
		t.Errorf("expected user id 5, got %d", id)
	}

	if _, err := NewAccessToken(jwt.JWTParams{}, env.Null()); !errors.Is(err, ErrNoSecret) {
		t.Errorf("expected ErrNoSecret, got %v", err)
	}
}

func TestCookieNames(t *testing.T) {
	e := testEnv()
	if AccessTokenName(e) != "access" {
		t.Errorf("unexpected dev cookie name %q", AccessTokenName(e))
	}
	e.Config.Env = config.EnvProd
	if AccessTokenName(e) != "__Host-Http-access" || !NewAccessTokenCookie("x", e).Secure {
		t.Error("expected secure host-prefixed cookie in production")
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if _, err := UserIDFromCtx(ctx); !errors.Is(err, ErrNoUserID) {
		t.Errorf("expected ErrNoUserID, got %v", err)
	}
	if _, err := ClaimsFromCtx(ctx); !errors.Is(err, ErrNoClaims) {
		t.Errorf("expected ErrNoClaims, got %v", err)
	}

	ctx = UserIDWithCtx(ctx, 9)
	if id, err := UserIDFromCtx(ctx); err != nil || id != 9 {
		t.Errorf("expected 9, got %d (%v)", id, err)
	}
}
