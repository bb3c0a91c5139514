// Package relation adds and removes the per-user relations: favorites,
// shopping cart entries and subscriptions. Adding an existing relation
// and removing a missing one are both rejected.
package relation

import (
	"context"
	"fmt"

	"github.com/matt-dz/foodgram/internal/apperr"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/metrics"
	"github.com/matt-dz/foodgram/internal/projection"
)

const (
	actionAdd    = "add"
	actionRemove = "remove"
)

// recipeRelation is a (user, recipe) join table.
type recipeRelation struct {
	name    string
	present string
	exists  func(ctx context.Context, q database.Querier, userID, recipeID int64) (bool, error)
	create  func(ctx context.Context, q database.Querier, userID, recipeID int64) error
	remove  func(ctx context.Context, q database.Querier, userID, recipeID int64) (int64, error)
}

var favorites = recipeRelation{
	name:    "favorite",
	present: "recipe is already in favorites",
	exists: func(ctx context.Context, q database.Querier, userID, recipeID int64) (bool, error) {
		return q.CheckFavoriteExists(ctx, database.CheckFavoriteExistsParams{UserID: userID, RecipeID: recipeID})
	},
	create: func(ctx context.Context, q database.Querier, userID, recipeID int64) error {
		return q.CreateFavorite(ctx, database.CreateFavoriteParams{UserID: userID, RecipeID: recipeID})
	},
	remove: func(ctx context.Context, q database.Querier, userID, recipeID int64) (int64, error) {
		return q.DeleteFavorite(ctx, database.DeleteFavoriteParams{UserID: userID, RecipeID: recipeID})
	},
}

var shoppingCart = recipeRelation{
	name:    "shopping_cart",
	present: "recipe is already in the shopping cart",
	exists: func(ctx context.Context, q database.Querier, userID, recipeID int64) (bool, error) {
		return q.CheckShoppingCartItemExists(ctx, database.CheckShoppingCartItemExistsParams{
			UserID: userID, RecipeID: recipeID,
		})
	},
	create: func(ctx context.Context, q database.Querier, userID, recipeID int64) error {
		return q.CreateShoppingCartItem(ctx, database.CreateShoppingCartItemParams{UserID: userID, RecipeID: recipeID})
	},
	remove: func(ctx context.Context, q database.Querier, userID, recipeID int64) (int64, error) {
		return q.DeleteShoppingCartItem(ctx, database.DeleteShoppingCartItemParams{UserID: userID, RecipeID: recipeID})
	},
}

func record(relation, action string, err error) {
	metrics.RecordRelationToggle(relation, action, metrics.Outcome(err, apperr.IsDomain))
}

func getRecipe(ctx context.Context, env *env.Env, recipeID int64) (database.Recipe, error) {
	recipe, err := env.Database.GetRecipe(ctx, recipeID)
	if database.IsNoRows(err) {
		return database.Recipe{}, apperr.NotFound("recipe", recipeID)
	} else if err != nil {
		return database.Recipe{}, fmt.Errorf("getting recipe: %w", err)
	}
	return recipe, nil
}

func (r recipeRelation) add(
	ctx context.Context, env *env.Env, userID, recipeID int64,
) (summary projection.RecipeSummary, err error) {
	defer func() { record(r.name, actionAdd, err) }()

	env.Logger.DebugContext(ctx, "getting recipe")
	recipe, err := getRecipe(ctx, env, recipeID)
	if err != nil {
		return projection.RecipeSummary{}, err
	}

	env.Logger.DebugContext(ctx, "adding relation")
	err = env.Database.WithTx(ctx, func(q database.Querier) error {
		exists, err := r.exists(ctx, q, userID, recipeID)
		if err != nil {
			return fmt.Errorf("checking %s: %w", r.name, err)
		}
		if exists {
			return apperr.Conflict("", r.present)
		}
		return translateInsert(r.name, r.present, r.create(ctx, q, userID, recipeID), func() error {
			return apperr.NotFound("recipe", recipeID)
		})
	})
	if err != nil {
		return projection.RecipeSummary{}, err
	}
	return projection.Summary(env, recipe), nil
}

func (r recipeRelation) delete(ctx context.Context, env *env.Env, userID, recipeID int64) (err error) {
	defer func() { record(r.name, actionRemove, err) }()

	env.Logger.DebugContext(ctx, "getting recipe")
	if _, err := getRecipe(ctx, env, recipeID); err != nil {
		return err
	}

	env.Logger.DebugContext(ctx, "removing relation")
	rows, err := r.remove(ctx, env.Database, userID, recipeID)
	if err != nil {
		return fmt.Errorf("removing %s: %w", r.name, err)
	}
	if rows == 0 {
		return apperr.RelationNotFound(r.name)
	}
	return nil
}

// translateInsert maps a unique violation raced past the existence check
// to a conflict and a foreign key violation to the missing target.
func translateInsert(name, present string, err error, missing func() error) error {
	switch {
	case err == nil:
		return nil
	case database.IsUniqueViolation(err, ""):
		return apperr.Conflict("", present)
	case database.IsForeignKeyViolation(err):
		return missing()
	default:
		return fmt.Errorf("creating %s: %w", name, err)
	}
}

func AddFavorite(ctx context.Context, env *env.Env, userID, recipeID int64) (projection.RecipeSummary, error) {
	return favorites.add(ctx, env, userID, recipeID)
}

func RemoveFavorite(ctx context.Context, env *env.Env, userID, recipeID int64) error {
	return favorites.delete(ctx, env, userID, recipeID)
}

func AddToShoppingCart(ctx context.Context, env *env.Env, userID, recipeID int64) (projection.RecipeSummary, error) {
	return shoppingCart.add(ctx, env, userID, recipeID)
}

func RemoveFromShoppingCart(ctx context.Context, env *env.Env, userID, recipeID int64) error {
	return shoppingCart.delete(ctx, env, userID, recipeID)
}
