// Package recipes contains handlers for the recipes endpoint.
package recipes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/routes"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/apperr"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	mJson "github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/projection"
	"github.com/matt-dz/foodgram/internal/recipe"
	"github.com/matt-dz/foodgram/internal/relation"
	"github.com/matt-dz/foodgram/internal/shoppinglist"
)

const (
	queryAuthor           = "author"
	queryTags             = "tags"
	queryIsFavorited      = "is_favorited"
	queryIsInShoppingCart = "is_in_shopping_cart"
)

// listParams turns the query string into recipe filters. Favorite and
// cart filters only apply to an authenticated viewer.
func listParams(r *http.Request, viewer projection.Viewer) (database.ListRecipesParams, error) {
	q := r.URL.Query()
	params := database.ListRecipesParams{TagSlugs: []string{}}

	if raw := q.Get(queryAuthor); raw != "" {
		author, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return params, apperr.Validation(queryAuthor, "must be an integer")
		}
		params.AuthorID = pgtype.Int8{Int64: author, Valid: true}
	}
	for _, slug := range q[queryTags] {
		if slug != "" {
			params.TagSlugs = append(params.TagSlugs, slug)
		}
	}
	if viewer.Anonymous() {
		return params, nil
	}
	if routes.Flag(q, queryIsFavorited) {
		params.FavoritedBy = pgtype.Int8{Int64: viewer.UserID, Valid: true}
	}
	if routes.Flag(q, queryIsInShoppingCart) {
		params.InCartOf = pgtype.Int8{Int64: viewer.UserID, Valid: true}
	}
	return params, nil
}

// ListRecipes godoc
//
//	@Summary		List recipes
//	@Description	Newest first. is_favorited and is_in_shopping_cart are ignored for anonymous requests.
//	@Tags			Recipes
//	@Produce		json
//	@Param			author				query		int			false	"Author id"
//	@Param			tags				query		[]string	false	"Tag slugs"	collectionFormat(multi)
//	@Param			is_favorited		query		int			false	"Only favorites (1)"
//	@Param			is_in_shopping_cart	query		int			false	"Only cart recipes (1)"
//	@Success		200					{array}		projection.RecipeView
//	@Failure		400					{object}	apiError.Error	"Invalid filter"
//	@Failure		500					{object}	apiError.Error	"Internal server error"
//	@Router			/api/recipes [get]
func ListRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	viewer := routes.Viewer(r)

	params, err := listParams(r, viewer)
	if err != nil {
		_ = apiError.EncodeDomainError(w, err, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "listing recipes")
	rows, err := env.Database.ListRecipes(ctx, params)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	views, err := projection.Recipes(ctx, env, rows, viewer)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to project recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := mJson.WriteJSON(w, http.StatusOK, views); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// CreateRecipe godoc
//
//	@Summary		Create a recipe
//	@Description	The image is a base64 data URI. Ingredients and tags must exist.
//	@Tags			Recipes
//	@Accept			json
//	@Produce		json
//	@Param			request	body		recipe.CreateRequest	true	"Recipe"
//	@Success		201		{object}	projection.RecipeView
//	@Failure		400		{object}	apiError.Error	"Validation error or duplicate name"
//	@Failure		401		{object}	apiError.Error	"Unauthorized"
//	@Failure		404		{object}	apiError.Error	"Unknown ingredient or tag"
//	@Failure		500		{object}	apiError.Error	"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/recipes [post]
func CreateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Decode JSON
	var request recipe.CreateRequest
	env.Logger.DebugContext(ctx, "reading request body")
	if err := routes.DecodeBody(r, &request); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}

	view, err := recipe.Create(ctx, env, userID, request)
	if err != nil {
		if !apiError.EncodeDomainError(w, err, requestID) {
			env.Logger.ErrorContext(ctx, "failed to create recipe", slog.Any("error", err))
		}
		return
	}

	if err := mJson.WriteJSON(w, http.StatusCreated, view); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// GetRecipe godoc
//
//	@Summary	Get a recipe
//	@Tags		Recipes
//	@Produce	json
//	@Param		id	path		int	true	"Recipe id"
//	@Success	200	{object}	projection.RecipeView
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/recipes/{id} [get]
func GetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	recipeID, err := routes.PathID(r, routes.ParamID)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "getting recipe", slog.Int64("recipe-id", recipeID))
	row, err := env.Database.GetRecipe(ctx, recipeID)
	if database.IsNoRows(err) {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	view, err := projection.Recipe(ctx, env, row, routes.Viewer(r))
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to project recipe", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := mJson.WriteJSON(w, http.StatusOK, view); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// UpdateRecipe godoc
//
//	@Summary		Update a recipe
//	@Description	Absent fields are left unchanged. A tag or ingredient list replaces the stored one.
//	@Tags			Recipes
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"Recipe id"
//	@Param			request	body		recipe.UpdateRequest	true	"Changes"
//	@Success		200		{object}	projection.RecipeView
//	@Failure		400		{object}	apiError.Error	"Validation error"
//	@Failure		401		{object}	apiError.Error	"Unauthorized"
//	@Failure		403		{object}	apiError.Error	"Not the author"
//	@Failure		404		{object}	apiError.Error	"Recipe, ingredient or tag not found"
//	@Failure		500		{object}	apiError.Error	"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/recipes/{id} [patch]
func UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	recipeID, err := routes.PathID(r, routes.ParamID)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	}

	// Decode JSON
	var request recipe.UpdateRequest
	env.Logger.DebugContext(ctx, "reading request body")
	if err := routes.DecodeBody(r, &request); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}

	view, err := recipe.Update(ctx, env, recipeID, userID, request)
	if err != nil {
		if !apiError.EncodeDomainError(w, err, requestID) {
			env.Logger.ErrorContext(ctx, "failed to update recipe", slog.Any("error", err))
		}
		return
	}

	if err := mJson.WriteJSON(w, http.StatusOK, view); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// DeleteRecipe godoc
//
//	@Summary	Delete a recipe
//	@Tags		Recipes
//	@Param		id	path	int	true	"Recipe id"
//	@Success	204	"Recipe deleted"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	403	{object}	apiError.Error	"Not the author"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Security	BearerAuth
//	@Router		/api/recipes/{id} [delete]
func DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	recipeID, err := routes.PathID(r, routes.ParamID)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	}

	if err := recipe.Delete(ctx, env, recipeID, userID); err != nil {
		if !apiError.EncodeDomainError(w, err, requestID) {
			env.Logger.ErrorContext(ctx, "failed to delete recipe", slog.Any("error", err))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type (
	addFunc    func(ctx context.Context, env *env.Env, userID, recipeID int64) (projection.RecipeSummary, error)
	removeFunc func(ctx context.Context, env *env.Env, userID, recipeID int64) error
)

func addRelation(w http.ResponseWriter, r *http.Request, name string, add addFunc) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	recipeID, err := routes.PathID(r, routes.ParamID)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	}

	summary, err := add(ctx, env, userID, recipeID)
	if err != nil {
		if !apiError.EncodeDomainError(w, err, requestID) {
			env.Logger.ErrorContext(ctx, "failed to add "+name, slog.Any("error", err))
		}
		return
	}
	if err := mJson.WriteJSON(w, http.StatusCreated, summary); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

func removeRelation(w http.ResponseWriter, r *http.Request, name string, remove removeFunc) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	recipeID, err := routes.PathID(r, routes.ParamID)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
		return
	}

	if err := remove(ctx, env, userID, recipeID); err != nil {
		if !apiError.EncodeDomainError(w, err, requestID) {
			env.Logger.ErrorContext(ctx, "failed to remove "+name, slog.Any("error", err))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddFavorite godoc
//
//	@Summary	Add a recipe to favorites
//	@Tags		Recipes
//	@Produce	json
//	@Param		id	path		int	true	"Recipe id"
//	@Success	201	{object}	projection.RecipeSummary
//	@Failure	400	{object}	apiError.Error	"Already a favorite"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Security	BearerAuth
//	@Router		/api/recipes/{id}/favorite [post]
func AddFavorite(w http.ResponseWriter, r *http.Request) {
	addRelation(w, r, "favorite", relation.AddFavorite)
}

// RemoveFavorite godoc
//
//	@Summary	Remove a recipe from favorites
//	@Tags		Recipes
//	@Param		id	path	int	true	"Recipe id"
//	@Success	204	"Favorite removed"
//	@Failure	400	{object}	apiError.Error	"Not a favorite"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Security	BearerAuth
//	@Router		/api/recipes/{id}/favorite [delete]
func RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	removeRelation(w, r, "favorite", relation.RemoveFavorite)
}

// AddToShoppingCart godoc
//
//	@Summary	Add a recipe to the shopping cart
//	@Tags		Recipes
//	@Produce	json
//	@Param		id	path		int	true	"Recipe id"
//	@Success	201	{object}	projection.RecipeSummary
//	@Failure	400	{object}	apiError.Error	"Already in the cart"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Security	BearerAuth
//	@Router		/api/recipes/{id}/shopping_cart [post]
func AddToShoppingCart(w http.ResponseWriter, r *http.Request) {
	addRelation(w, r, "shopping cart item", relation.AddToShoppingCart)
}

// RemoveFromShoppingCart godoc
//
//	@Summary	Remove a recipe from the shopping cart
//	@Tags		Recipes
//	@Param		id	path	int	true	"Recipe id"
//	@Success	204	"Removed from the cart"
//	@Failure	400	{object}	apiError.Error	"Not in the cart"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"Recipe not found"
//	@Security	BearerAuth
//	@Router		/api/recipes/{id}/shopping_cart [delete]
func RemoveFromShoppingCart(w http.ResponseWriter, r *http.Request) {
	removeRelation(w, r, "shopping cart item", relation.RemoveFromShoppingCart)
}

// DownloadShoppingCart godoc
//
//	@Summary		Download the shopping list
//	@Description	Ingredient totals over every recipe in the cart, one line per name and unit.
//	@Tags			Recipes
//	@Produce		plain
//	@Success		200	{string}	string	"Shopping list"
//	@Failure		401	{object}	apiError.Error	"Unauthorized"
//	@Failure		500	{object}	apiError.Error	"Internal server error"
//	@Security		BearerAuth
//	@Router			/api/recipes/download_shopping_cart [get]
func DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	lines, err := shoppinglist.Build(ctx, env, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to build shopping list", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.Header().Set("Content-Type", shoppinglist.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", shoppinglist.Filename))
	if err := shoppinglist.Render(w, lines); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write shopping list", slog.Any("error", err))
	}
}
