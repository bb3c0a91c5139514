// Package token issues access tokens and reads them back from requests,
// either from the Authorization header or from a cookie guarded by a
// double-submit CSRF token.
package token

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/jwt"
)

const (
	AuthorizationHeader = "Authorization"
	CSRFTokenHeader     = "X-CSRF-Token"

	csrfTokenBytes = 32
)

var authorizationSchemes = []string{"Token ", "Bearer "}

func isProd(env *env.Env) bool {
	return env.Config.Env == config.EnvProd
}

func AccessTokenName(env *env.Env) string {
	if isProd(env) {
		return "__Host-Http-access"
	}
	return "access"
}

func CSRFTokenName(env *env.Env) string {
	if isProd(env) {
		return "__Host-csrf"
	}
	return "csrf"
}

func secret(env *env.Env) ([]byte, error) {
	if env.Config.AppSecret.Value == nil || *env.Config.AppSecret.Value == "" {
		return nil, ErrNoSecret
	}
	return []byte(*env.Config.AppSecret.Value), nil
}

// NewAccessToken signs an access token with the configured app secret.
func NewAccessToken(params jwt.JWTParams, env *env.Env) (string, error) {
	key, err := secret(env)
	if err != nil {
		return "", err
	}
	tok, err := jwt.GenerateJWT(params, key, env.Config.AppSecret.Version)
	if err != nil {
		return "", fmt.Errorf("generating access token: %w", err)
	}
	return tok, nil
}

// ParseAccessToken validates raw against the configured app secret.
func ParseAccessToken(raw string, env *env.Env) (*jwt.Claims, error) {
	key, err := secret(env)
	if err != nil {
		return nil, err
	}
	return jwt.ValidateJWT(raw, env.Config.AppSecret.Version, key)
}

func NewCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("creating csrf token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func NewAccessTokenCookie(token string, env *env.Env) *http.Cookie {
	return &http.Cookie{
		Name:     AccessTokenName(env),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(jwt.JWTDuration.Seconds()),
		SameSite: http.SameSiteLaxMode,
		Secure:   isProd(env),
	}
}

// NewCSRFCookie is readable by scripts so the client can echo it in
// the CSRF header.
func NewCSRFCookie(token string, env *env.Env) *http.Cookie {
	return &http.Cookie{
		Name:     CSRFTokenName(env),
		Value:    token,
		Path:     "/",
		MaxAge:   int(jwt.JWTDuration.Seconds()),
		SameSite: http.SameSiteLaxMode,
		Secure:   isProd(env),
	}
}

// ExpireCookie returns a cookie that deletes name on the client.
func ExpireCookie(name string, env *env.Env) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isProd(env),
	}
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// FromRequest returns the raw access token carried by r. The
// Authorization header takes precedence over the cookie. Cookie
// credentials on unsafe methods need a CSRF header matching the CSRF
// cookie. ErrNoToken means the request is anonymous.
func FromRequest(r *http.Request, env *env.Env) (string, error) {
	if header := r.Header.Get(AuthorizationHeader); header != "" {
		for _, scheme := range authorizationSchemes {
			if raw, ok := strings.CutPrefix(header, scheme); ok && raw != "" {
				return raw, nil
			}
		}
		return "", ErrMalformedAuthorization
	}

	cookie, err := r.Cookie(AccessTokenName(env))
	if err != nil || cookie.Value == "" {
		return "", ErrNoToken
	}
	if safeMethod(r.Method) {
		return cookie.Value, nil
	}

	csrfHeader := r.Header.Get(CSRFTokenHeader)
	if csrfHeader == "" {
		return "", ErrMissingCSRFHeader
	}
	csrfCookie, err := r.Cookie(CSRFTokenName(env))
	if err != nil || csrfCookie.Value == "" {
		return "", ErrMissingCSRFCookie
	}
	if subtle.ConstantTimeCompare([]byte(csrfHeader), []byte(csrfCookie.Value)) != 1 {
		return "", ErrCSRFTokenMismatch
	}
	return cookie.Value, nil
}

type (
	userIDKeyType struct{}
	claimsKeyType struct{}
)

var (
	userIDKey userIDKeyType
	claimsKey claimsKeyType
)

func UserIDWithCtx(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromCtx returns the authenticated user id, or ErrNoUserID for
// anonymous requests.
func UserIDFromCtx(ctx context.Context) (int64, error) {
	if id, ok := ctx.Value(userIDKey).(int64); ok {
		return id, nil
	}
	return 0, ErrNoUserID
}

func ClaimsWithCtx(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromCtx(ctx context.Context) (*jwt.Claims, error) {
	if c, ok := ctx.Value(claimsKey).(*jwt.Claims); ok && c != nil {
		return c, nil
	}
	return nil, ErrNoClaims
}
