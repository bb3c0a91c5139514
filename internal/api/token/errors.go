package token

import "errors"

var (
	ErrNoToken                = errors.New("no access token provided")
	ErrMalformedAuthorization = errors.New(`authorization header must be "Token <token>" or "Bearer <token>"`)
	ErrMissingCSRFHeader      = errors.New("missing csrf header")
	ErrMissingCSRFCookie      = errors.New("missing csrf cookie")
	ErrCSRFTokenMismatch      = errors.New("csrf token mismatch")
	ErrNoSecret               = errors.New("app secret not configured")
	ErrNoUserID               = errors.New("no user id in context")
	ErrNoClaims               = errors.New("no access token claims in context")
)
