// Package admin contains handlers for the admin endpoints
package admin

import (
	"log/slog"
	"net/http"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/env"
	mJson "github.com/matt-dz/foodgram/internal/json"
)

type PurgeRevokedTokensResponse struct {
	Purged int64 `json:"purged"`
}

// HandlePurgeRevokedTokens godoc
//
//	@Summary		Purge expired revoked tokens
//	@Description	Drops revocation entries for tokens that have expired anyway.
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	PurgeRevokedTokensResponse
//	@Failure		401	{object}	apiError.Error	"Unauthorized"
//	@Failure		403	{object}	apiError.Error	"Insufficient permissions"
//	@Failure		500	{object}	apiError.Error	"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/admin/revoked_tokens/purge [post]
func HandlePurgeRevokedTokens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	purged, err := env.Database.DeleteExpiredRevokedTokens(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to purge revoked tokens", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	env.Logger.InfoContext(ctx, "purged revoked tokens", slog.Int64("count", purged))

	if err := mJson.WriteJSON(w, http.StatusOK, PurgeRevokedTokensResponse{Purged: purged}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
