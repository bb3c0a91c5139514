// Package auth contains handlers for the token endpoints.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/routes"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	mJson "github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/jwt"
)

const invalidCredentialsMessage = "email or password is incorrect"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AuthToken string `json:"auth_token"`
}

// HandleLogin godoc
//
//	@Summary		Obtain an access token
//	@Description	Returns the token in the body and also sets it as a cookie together with a CSRF cookie.
//	@Description	Cookie authenticated requests must echo the CSRF cookie in the X-CSRF-Token header.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credentials"
//	@Success		200		{object}	LoginResponse
//	@Failure		400		{object}	apiError.Error	"Invalid credentials"
//	@Failure		500		{object}	apiError.Error	"Internal server error"
//	@Router			/api/auth/token/login [post]
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	// Decode JSON
	var request LoginRequest
	env.Logger.DebugContext(ctx, "reading request body")
	if err := routes.DecodeBody(r, &request); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}
	request.Email = strings.TrimSpace(request.Email)
	if request.Email == "" || request.Password == "" {
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, invalidCredentialsMessage, requestID)
		return
	}

	// Retrieve user information
	env.Logger.DebugContext(ctx, "retrieving user information")
	user, err := env.Database.GetUserByEmail(ctx, request.Email)
	if database.IsNoRows(err) {
		env.Logger.InfoContext(ctx, "login for unknown email")
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, invalidCredentialsMessage, requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to retrieve user information", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Compare passwords
	env.Logger.DebugContext(ctx, "comparing passwords")
	match, err := argon2id.Compare(request.Password, user.PasswordHash)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to compare passwords", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !match {
		env.Logger.InfoContext(ctx, "given password is incorrect", slog.Int64("user-id", user.ID))
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, invalidCredentialsMessage, requestID)
		return
	}

	// Create tokens
	env.Logger.DebugContext(ctx, "generating access token")
	accessToken, err := token.NewAccessToken(jwt.JWTParams{
		Role:   string(user.Role),
		UserID: user.ID,
	}, env)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create access token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	csrfToken, err := token.NewCSRFToken()
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to create csrf token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Write response
	env.Logger.DebugContext(ctx, "writing response")
	http.SetCookie(w, token.NewAccessTokenCookie(accessToken, env))
	http.SetCookie(w, token.NewCSRFCookie(csrfToken, env))
	if err := mJson.WriteJSON(w, http.StatusOK, LoginResponse{AuthToken: accessToken}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleLogout godoc
//
//	@Summary		Revoke the current access token
//	@Description	The token stays revoked until it would have expired. Auth cookies are cleared.
//	@Tags			Auth
//	@Success		204	"Logged out"
//	@Failure		401	{object}	apiError.Error	"Unauthorized"
//	@Failure		500	{object}	apiError.Error	"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/auth/token/logout [post]
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	claims, err := token.ClaimsFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract claims from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "revoking access token")
	params := database.RevokeTokenParams{Jti: claims.ID}
	if claims.ExpiresAt != nil {
		params.ExpiresAt = pgtype.Timestamptz{Time: claims.ExpiresAt.Time, Valid: true}
	}
	if err := env.Database.RevokeToken(ctx, params); err != nil {
		env.Logger.ErrorContext(ctx, "failed to revoke token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	http.SetCookie(w, token.ExpireCookie(token.AccessTokenName(env), env))
	http.SetCookie(w, token.ExpireCookie(token.CSRFTokenName(env), env))
	w.WriteHeader(http.StatusNoContent)
}
