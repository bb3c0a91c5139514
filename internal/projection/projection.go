// Package projection builds the response shapes for recipes, users and
// subscriptions from stored rows, resolving the viewer-dependent flags.
// Anonymous viewers never trigger a lookup.
package projection

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
)

// Viewer is the user a projection is rendered for. The zero value is
// anonymous.
type Viewer struct {
	UserID int64
}

func UserViewer(id int64) Viewer {
	return Viewer{UserID: id}
}

func (v Viewer) Anonymous() bool {
	return v.UserID == 0
}

type TagView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type IngredientView struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int32  `json:"amount"`
}

type UserView struct {
	Email        string `json:"email"`
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type RecipeView struct {
	ID               int64            `json:"id"`
	Tags             []TagView        `json:"tags"`
	Author           UserView         `json:"author"`
	Ingredients      []IngredientView `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
	Name             string           `json:"name"`
	Image            string           `json:"image"`
	Text             string           `json:"text"`
	CookingTime      int32            `json:"cooking_time"`
}

// RecipeSummary is the short form returned by favorite and cart adds and
// embedded in subscriptions.
type RecipeSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int32  `json:"cooking_time"`
}

type SubscriptionView struct {
	UserView
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

func imageURL(env *env.Env, key string) string {
	if env.Images == nil || key == "" {
		return key
	}
	return env.Images.FileURL(key)
}

func Tag(t database.Tag) TagView {
	return TagView{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

// User renders u for viewer. A user is never subscribed to themselves.
func User(ctx context.Context, env *env.Env, u database.User, viewer Viewer) (UserView, error) {
	view := UserView{
		Email:     u.Email,
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
	if viewer.Anonymous() || viewer.UserID == u.ID {
		return view, nil
	}

	subscribed, err := env.Database.CheckSubscriptionExists(ctx, database.CheckSubscriptionExistsParams{
		SubscriberID: viewer.UserID,
		AuthorID:     u.ID,
	})
	if err != nil {
		return UserView{}, fmt.Errorf("checking subscription to user %d: %w", u.ID, err)
	}
	view.IsSubscribed = subscribed
	return view, nil
}

func Users(ctx context.Context, env *env.Env, users []database.User, viewer Viewer) ([]UserView, error) {
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		view, err := User(ctx, env, u, viewer)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Recipe renders r with its tags ordered by color, its ingredients with
// amounts, its author and the viewer's favorite and cart flags.
func Recipe(ctx context.Context, env *env.Env, r database.Recipe, viewer Viewer) (RecipeView, error) {
	q := env.Database

	tags, err := q.GetRecipeTags(ctx, r.ID)
	if err != nil {
		return RecipeView{}, fmt.Errorf("getting tags of recipe %d: %w", r.ID, err)
	}
	rows, err := q.GetRecipeIngredients(ctx, r.ID)
	if err != nil {
		return RecipeView{}, fmt.Errorf("getting ingredients of recipe %d: %w", r.ID, err)
	}
	author, err := q.GetUser(ctx, r.AuthorID)
	if err != nil {
		return RecipeView{}, fmt.Errorf("getting author of recipe %d: %w", r.ID, err)
	}
	authorView, err := User(ctx, env, author, viewer)
	if err != nil {
		return RecipeView{}, err
	}

	view := RecipeView{
		ID:          r.ID,
		Tags:        make([]TagView, 0, len(tags)),
		Author:      authorView,
		Ingredients: make([]IngredientView, 0, len(rows)),
		Name:        r.Name,
		Image:       imageURL(env, r.Image),
		Text:        r.Text,
		CookingTime: r.CookingTime,
	}
	for _, t := range tags {
		view.Tags = append(view.Tags, Tag(t))
	}
	for _, row := range rows {
		view.Ingredients = append(view.Ingredients, IngredientView{
			ID:              row.ID,
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
			Amount:          row.Amount,
		})
	}

	if viewer.Anonymous() {
		return view, nil
	}
	state, err := q.GetRecipeViewerState(ctx, database.GetRecipeViewerStateParams{
		RecipeID: r.ID,
		ViewerID: viewer.UserID,
	})
	if err != nil {
		return RecipeView{}, fmt.Errorf("getting viewer state of recipe %d: %w", r.ID, err)
	}
	view.IsFavorited = state.IsFavorited
	view.IsInShoppingCart = state.IsInShoppingCart
	return view, nil
}

// Bare renders only the recipe's own columns, with empty tag and
// ingredient lists and the author reduced to its id.
func Bare(env *env.Env, r database.Recipe) RecipeView {
	return RecipeView{
		ID:          r.ID,
		Tags:        []TagView{},
		Author:      UserView{ID: r.AuthorID},
		Ingredients: []IngredientView{},
		Name:        r.Name,
		Image:       imageURL(env, r.Image),
		Text:        r.Text,
		CookingTime: r.CookingTime,
	}
}

func Recipes(ctx context.Context, env *env.Env, recipes []database.Recipe, viewer Viewer) ([]RecipeView, error) {
	views := make([]RecipeView, 0, len(recipes))
	for _, r := range recipes {
		view, err := Recipe(ctx, env, r, viewer)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func Summary(env *env.Env, r database.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Image:       imageURL(env, r.Image),
		CookingTime: r.CookingTime,
	}
}

// Subscription renders author as seen by one of its subscribers. A nil
// recipesLimit lists every recipe; recipes_count is always the total.
func Subscription(ctx context.Context, env *env.Env, author database.User, recipesLimit *int32) (SubscriptionView, error) {
	limit := pgtype.Int4{}
	if recipesLimit != nil {
		limit = pgtype.Int4{Int32: *recipesLimit, Valid: true}
	}

	recipes, err := env.Database.ListRecipesByAuthor(ctx, database.ListRecipesByAuthorParams{
		AuthorID: author.ID,
		Limit:    limit,
	})
	if err != nil {
		return SubscriptionView{}, fmt.Errorf("listing recipes of user %d: %w", author.ID, err)
	}
	count, err := env.Database.CountRecipesByAuthor(ctx, author.ID)
	if err != nil {
		return SubscriptionView{}, fmt.Errorf("counting recipes of user %d: %w", author.ID, err)
	}

	view := SubscriptionView{
		UserView: UserView{
			Email:        author.Email,
			ID:           author.ID,
			Username:     author.Username,
			FirstName:    author.FirstName,
			LastName:     author.LastName,
			IsSubscribed: true,
		},
		Recipes:      make([]RecipeSummary, 0, len(recipes)),
		RecipesCount: count,
	}
	for _, r := range recipes {
		view.Recipes = append(view.Recipes, Summary(env, r))
	}
	return view, nil
}
