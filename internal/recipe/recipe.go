// Package recipe creates, updates and deletes recipes together with
// their tag and ingredient rows. Every write runs in one transaction and
// the stored image is released when the transaction does not commit.
package recipe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/matt-dz/foodgram/internal/apperr"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/image"
	"github.com/matt-dz/foodgram/internal/metrics"
	"github.com/matt-dz/foodgram/internal/projection"
)

const (
	resourceRecipe     = "recipe"
	resourceIngredient = "ingredient"
	resourceTag        = "tag"

	authorNameConstraint = "recipes_author_name_key"
)

var errDuplicateName = apperr.Conflict(fieldName, "you already have a recipe with this name")

func record(operation string, err error) {
	metrics.RecordRecipeWrite(operation, metrics.Outcome(err, apperr.IsDomain))
}

// Create validates req, stores its image and inserts the recipe with its
// tags and ingredients.
func Create(ctx context.Context, env *env.Env, authorID int64, req CreateRequest) (view projection.RecipeView, err error) {
	defer func() { record("create", err) }()

	env.Logger.DebugContext(ctx, "validating recipe")
	file, err := req.Validate()
	if err != nil {
		return projection.RecipeView{}, err
	}
	if err := checkReferences(ctx, env.Database, req.Ingredients, req.Tags); err != nil {
		return projection.RecipeView{}, err
	}

	env.Logger.DebugContext(ctx, "storing recipe image")
	key, err := storeImage(ctx, env, file)
	if err != nil {
		return projection.RecipeView{}, err
	}

	env.Logger.DebugContext(ctx, "inserting recipe")
	var recipe database.Recipe
	err = env.Database.WithTx(ctx, func(q database.Querier) error {
		recipe, err = q.CreateRecipe(ctx, database.CreateRecipeParams{
			AuthorID:    authorID,
			Name:        req.Name,
			Image:       key,
			Text:        req.Text,
			CookingTime: req.CookingTime,
		})
		if err != nil {
			return mapWriteError("creating recipe", err)
		}
		if err := replaceTags(ctx, q, recipe.ID, req.Tags, false); err != nil {
			return err
		}
		return replaceIngredients(ctx, q, recipe.ID, req.Ingredients, false)
	})
	if err != nil {
		releaseImage(ctx, env, key)
		return projection.RecipeView{}, err
	}

	return render(ctx, env, recipe, projection.UserViewer(authorID)), nil
}

// Update applies req to the recipe. Only the author may update it.
func Update(
	ctx context.Context, env *env.Env, recipeID, editorID int64, req UpdateRequest,
) (view projection.RecipeView, err error) {
	defer func() { record("update", err) }()

	if _, err := loadOwned(ctx, env, recipeID, editorID); err != nil {
		return projection.RecipeView{}, err
	}

	env.Logger.DebugContext(ctx, "validating recipe update")
	file, err := req.Validate()
	if err != nil {
		return projection.RecipeView{}, err
	}
	var ingredients []IngredientAmount
	if req.Ingredients != nil {
		ingredients = *req.Ingredients
	}
	var tags []int64
	if req.Tags != nil {
		tags = *req.Tags
	}
	if err := checkReferences(ctx, env.Database, ingredients, tags); err != nil {
		return projection.RecipeView{}, err
	}

	var newKey string
	if file != nil {
		env.Logger.DebugContext(ctx, "storing new recipe image")
		if newKey, err = storeImage(ctx, env, file); err != nil {
			return projection.RecipeView{}, err
		}
	}

	env.Logger.DebugContext(ctx, "updating recipe")
	var oldKey string
	var recipe database.Recipe
	err = env.Database.WithTx(ctx, func(q database.Querier) error {
		locked, err := q.GetRecipeForUpdate(ctx, recipeID)
		if database.IsNoRows(err) {
			return apperr.NotFound(resourceRecipe, recipeID)
		} else if err != nil {
			return fmt.Errorf("locking recipe: %w", err)
		}
		if locked.AuthorID != editorID {
			return apperr.Forbidden("only the author may change this recipe")
		}
		oldKey = locked.Image

		params := database.UpdateRecipeParams{ID: recipeID}
		if req.Name != nil {
			params.Name = pgtype.Text{String: *req.Name, Valid: true}
		}
		if req.Text != nil {
			params.Text = pgtype.Text{String: *req.Text, Valid: true}
		}
		if req.CookingTime != nil {
			params.CookingTime = pgtype.Int4{Int32: *req.CookingTime, Valid: true}
		}
		if newKey != "" {
			params.Image = pgtype.Text{String: newKey, Valid: true}
		}
		if recipe, err = q.UpdateRecipe(ctx, params); err != nil {
			return mapWriteError("updating recipe", err)
		}

		if req.Tags != nil {
			if err := replaceTags(ctx, q, recipeID, tags, true); err != nil {
				return err
			}
		}
		if req.Ingredients != nil {
			return replaceIngredients(ctx, q, recipeID, ingredients, true)
		}
		return nil
	})
	if err != nil {
		if newKey != "" {
			releaseImage(ctx, env, newKey)
		}
		return projection.RecipeView{}, err
	}
	if newKey != "" && oldKey != newKey {
		releaseImage(ctx, env, oldKey)
	}

	return render(ctx, env, recipe, projection.UserViewer(editorID)), nil
}

// Delete removes the recipe. Join rows, favorites and cart entries go
// with it through the foreign keys.
func Delete(ctx context.Context, env *env.Env, recipeID, editorID int64) (err error) {
	defer func() { record("delete", err) }()

	recipe, err := loadOwned(ctx, env, recipeID, editorID)
	if err != nil {
		return err
	}

	env.Logger.DebugContext(ctx, "deleting recipe")
	rows, err := env.Database.DeleteRecipe(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	if rows == 0 {
		return apperr.NotFound(resourceRecipe, recipeID)
	}

	releaseImage(ctx, env, recipe.Image)
	return nil
}

func loadOwned(ctx context.Context, env *env.Env, recipeID, editorID int64) (database.Recipe, error) {
	env.Logger.DebugContext(ctx, "getting recipe")
	recipe, err := env.Database.GetRecipe(ctx, recipeID)
	if database.IsNoRows(err) {
		return database.Recipe{}, apperr.NotFound(resourceRecipe, recipeID)
	} else if err != nil {
		return database.Recipe{}, fmt.Errorf("getting recipe: %w", err)
	}
	if recipe.AuthorID != editorID {
		return database.Recipe{}, apperr.Forbidden("only the author may change this recipe")
	}
	return recipe, nil
}

// checkReferences reports the first ingredient, then the first tag, in
// payload order that does not exist.
func checkReferences(ctx context.Context, q database.Querier, ingredients []IngredientAmount, tags []int64) error {
	if len(ingredients) > 0 {
		ids := make([]int64, 0, len(ingredients))
		for _, item := range ingredients {
			ids = append(ids, item.ID)
		}
		existing, err := q.ListExistingIngredientIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("checking ingredients: %w", err)
		}
		if id, ok := firstMissing(ids, existing); ok {
			return apperr.NotFound(resourceIngredient, id)
		}
	}

	if len(tags) > 0 {
		existing, err := q.ListExistingTagIDs(ctx, tags)
		if err != nil {
			return fmt.Errorf("checking tags: %w", err)
		}
		if id, ok := firstMissing(tags, existing); ok {
			return apperr.NotFound(resourceTag, id)
		}
	}
	return nil
}

func firstMissing(want, have []int64) (int64, bool) {
	found := make(map[int64]struct{}, len(have))
	for _, id := range have {
		found[id] = struct{}{}
	}
	for _, id := range want {
		if _, ok := found[id]; !ok {
			return id, true
		}
	}
	return 0, false
}

func replaceTags(ctx context.Context, q database.Querier, recipeID int64, tags []int64, replace bool) error {
	if replace {
		if err := q.DeleteRecipeTags(ctx, recipeID); err != nil {
			return fmt.Errorf("clearing recipe tags: %w", err)
		}
	}
	if err := q.AddRecipeTags(ctx, database.AddRecipeTagsParams{RecipeID: recipeID, TagIds: tags}); err != nil {
		return mapWriteError("adding recipe tags", err)
	}
	return nil
}

func replaceIngredients(
	ctx context.Context, q database.Querier, recipeID int64, items []IngredientAmount, replace bool,
) error {
	if replace {
		if err := q.DeleteRecipeIngredients(ctx, recipeID); err != nil {
			return fmt.Errorf("clearing recipe ingredients: %w", err)
		}
	}
	params := database.AddRecipeIngredientsParams{
		RecipeID:      recipeID,
		IngredientIds: make([]int64, 0, len(items)),
		Amounts:       make([]int32, 0, len(items)),
	}
	for _, item := range items {
		params.IngredientIds = append(params.IngredientIds, item.ID)
		params.Amounts = append(params.Amounts, item.Amount)
	}
	if err := q.AddRecipeIngredients(ctx, params); err != nil {
		return mapWriteError("adding recipe ingredients", err)
	}
	return nil
}

// mapWriteError translates constraint violations raced past validation.
func mapWriteError(action string, err error) error {
	switch {
	case database.IsUniqueViolation(err, authorNameConstraint):
		return errDuplicateName
	case database.IsForeignKeyViolation(err):
		return errors.Join(apperr.Validation(fieldIngredients, "references an ingredient or tag that no longer exists"), err)
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}

func storeImage(ctx context.Context, env *env.Env, file *image.File) (string, error) {
	key, err := env.Images.WriteRecipeImage(ctx, file.Suffix, file.Data)
	metrics.RecordImageOperation("write", err)
	if err != nil {
		return "", fmt.Errorf("storing recipe image: %w", err)
	}
	return key, nil
}

// releaseImage deletes key. Failures are logged and otherwise ignored.
func releaseImage(ctx context.Context, env *env.Env, key string) {
	if key == "" {
		return
	}
	err := env.Images.DeleteKey(ctx, key)
	metrics.RecordImageOperation("delete", err)
	if err != nil {
		env.Logger.WarnContext(ctx, "failed to release recipe image",
			slog.String("key", key), slog.Any("error", err))
	}
}

// render projects a recipe whose write has already committed. A failed
// read falls back to the bare row so the caller still learns the id.
func render(ctx context.Context, env *env.Env, recipe database.Recipe, viewer projection.Viewer) projection.RecipeView {
	view, err := projection.Recipe(ctx, env, recipe, viewer)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to project committed recipe",
			slog.Int64("recipe_id", recipe.ID), slog.Any("error", err))
		return projection.Bare(env, recipe)
	}
	return view
}
