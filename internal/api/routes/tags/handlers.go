// Package tags contains handlers for recipe tags.
package tags

import (
	"log/slog"
	"net/http"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/routes"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	mJson "github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/projection"
)

// ListTags godoc
//
//	@Summary	List tags
//	@Tags		Tags
//	@Produce	json
//	@Success	200	{array}		projection.TagView
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/tags [get]
func ListTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	rows, err := env.Database.ListTags(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list tags", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	resp := make([]projection.TagView, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, projection.Tag(row))
	}
	if err := mJson.WriteJSON(w, http.StatusOK, resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// GetTag godoc
//
//	@Summary	Get a tag
//	@Tags		Tags
//	@Produce	json
//	@Param		id	path		int	true	"Tag id"
//	@Success	200	{object}	projection.TagView
//	@Failure	404	{object}	apiError.Error	"Tag not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/tags/{id} [get]
func GetTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	id, err := routes.PathID(r, routes.ParamID)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.TagNotFound, "tag not found", requestID)
		return
	}

	row, err := env.Database.GetTag(ctx, id)
	if database.IsNoRows(err) {
		_ = apiError.EncodeError(w, apiError.TagNotFound, "tag not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get tag", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := mJson.WriteJSON(w, http.StatusOK, projection.Tag(row)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
