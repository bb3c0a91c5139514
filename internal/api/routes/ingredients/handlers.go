// Package ingredients contains handlers for the ingredient catalogue.
package ingredients

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/routes"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	mJson "github.com/matt-dz/foodgram/internal/json"
)

const queryName = "name"

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

type Ingredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func fromRow(i database.Ingredient) Ingredient {
	return Ingredient{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

// namePrefix returns the name filter with LIKE wildcards escaped.
func namePrefix(r *http.Request) pgtype.Text {
	name := strings.TrimSpace(r.URL.Query().Get(queryName))
	if name == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: likeEscaper.Replace(name), Valid: true}
}

// ListIngredients godoc
//
//	@Summary		List ingredients
//	@Description	Optionally filtered by a case-insensitive name prefix.
//	@Tags			Ingredients
//	@Produce		json
//	@Param			name	query		string	false	"Name prefix"
//	@Success		200		{array}		Ingredient
//	@Failure		500		{object}	apiError.Error	"Internal server error"
//	@Router			/api/ingredients [get]
func ListIngredients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	env.Logger.DebugContext(ctx, "listing ingredients")
	rows, err := env.Database.ListIngredients(ctx, namePrefix(r))
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list ingredients", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	resp := make([]Ingredient, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, fromRow(row))
	}
	if err := mJson.WriteJSON(w, http.StatusOK, resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// GetIngredient godoc
//
//	@Summary	Get an ingredient
//	@Tags		Ingredients
//	@Produce	json
//	@Param		id	path		int	true	"Ingredient id"
//	@Success	200	{object}	Ingredient
//	@Failure	404	{object}	apiError.Error	"Ingredient not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/ingredients/{id} [get]
func GetIngredient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	id, err := routes.PathID(r, routes.ParamID)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.IngredientNotFound, "ingredient not found", requestID)
		return
	}

	row, err := env.Database.GetIngredient(ctx, id)
	if database.IsNoRows(err) {
		_ = apiError.EncodeError(w, apiError.IngredientNotFound, "ingredient not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get ingredient", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := mJson.WriteJSON(w, http.StatusOK, fromRow(row)); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
