package projection

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/mock/gomock"

	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/database/databasetest"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/image/imagetest"
)

var (
	author = database.User{ID: 10, Email: "chef@example.com", Username: "chef", FirstName: "Ann", LastName: "Chef"}
	recipe = database.Recipe{ID: 1, AuthorID: 10, Name: "Soup", Image: "recipes/images/1.png", Text: "Boil.", CookingTime: 15}
)

func newTestEnv(t *testing.T) (*env.Env, *database.MockQuerier) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockQuerier(ctrl)

	e := env.Null()
	e.Database, _ = databasetest.New(mockDB)
	e.Images = imagetest.New()
	return e, mockDB
}

func expectRecipeRows(mockDB *database.MockQuerier) {
	mockDB.EXPECT().GetRecipeTags(gomock.Any(), recipe.ID).Return([]database.Tag{
		{ID: 2, Name: "Lunch", Color: "#00AA00", Slug: "lunch"},
		{ID: 1, Name: "Breakfast", Color: "#FF0000", Slug: "breakfast"},
	}, nil)
	mockDB.EXPECT().GetRecipeIngredients(gomock.Any(), recipe.ID).Return([]database.GetRecipeIngredientsRow{
		{ID: 5, Name: "Salt", MeasurementUnit: "g", Amount: 3},
		{ID: 4, Name: "Water", MeasurementUnit: "ml", Amount: 500},
	}, nil)
	mockDB.EXPECT().GetUser(gomock.Any(), author.ID).Return(author, nil)
}

func TestRecipe(t *testing.T) {
	tests := []struct {
		name          string
		viewer        Viewer
		setup         func(*database.MockQuerier)
		wantFavorited bool
		wantInCart    bool
		wantSubscribe bool
		wantErr       bool
	}{
		{
			name:   "anonymous viewer issues no viewer queries",
			viewer: Viewer{},
			setup:  expectRecipeRows,
		},
		{
			name:   "author viewing own recipe",
			viewer: UserViewer(author.ID),
			setup: func(mockDB *database.MockQuerier) {
				expectRecipeRows(mockDB)
				mockDB.EXPECT().GetRecipeViewerState(gomock.Any(), database.GetRecipeViewerStateParams{
					RecipeID: recipe.ID, ViewerID: author.ID,
				}).Return(database.GetRecipeViewerStateRow{IsFavorited: true}, nil)
			},
			wantFavorited: true,
		},
		{
			name:   "subscriber with recipe in cart",
			viewer: UserViewer(20),
			setup: func(mockDB *database.MockQuerier) {
				expectRecipeRows(mockDB)
				mockDB.EXPECT().CheckSubscriptionExists(gomock.Any(), database.CheckSubscriptionExistsParams{
					SubscriberID: 20, AuthorID: author.ID,
				}).Return(true, nil)
				mockDB.EXPECT().GetRecipeViewerState(gomock.Any(), database.GetRecipeViewerStateParams{
					RecipeID: recipe.ID, ViewerID: 20,
				}).Return(database.GetRecipeViewerStateRow{IsInShoppingCart: true}, nil)
			},
			wantInCart:    true,
			wantSubscribe: true,
		},
		{
			name:   "tag lookup fails",
			viewer: Viewer{},
			setup: func(mockDB *database.MockQuerier) {
				mockDB.EXPECT().GetRecipeTags(gomock.Any(), recipe.ID).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, mockDB := newTestEnv(t)
			tt.setup(mockDB)

			view, err := Recipe(context.Background(), e, recipe, tt.viewer)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if view.IsFavorited != tt.wantFavorited || view.IsInShoppingCart != tt.wantInCart {
				t.Errorf("unexpected flags favorited=%v cart=%v", view.IsFavorited, view.IsInShoppingCart)
			}
			if view.Author.IsSubscribed != tt.wantSubscribe {
				t.Errorf("expected is_subscribed %v, got %v", tt.wantSubscribe, view.Author.IsSubscribed)
			}
			if len(view.Tags) != 2 || view.Tags[0].Slug != "lunch" || view.Tags[1].Slug != "breakfast" {
				t.Errorf("expected tags in query order, got %+v", view.Tags)
			}
			if len(view.Ingredients) != 2 || view.Ingredients[0].Amount != 3 || view.Ingredients[1].MeasurementUnit != "ml" {
				t.Errorf("unexpected ingredients %+v", view.Ingredients)
			}
			if view.Image != "http://images.test/recipes/images/1.png" {
				t.Errorf("expected image url, got %q", view.Image)
			}
		})
	}
}

func TestUser(t *testing.T) {
	tests := []struct {
		name   string
		viewer Viewer
		setup  func(*database.MockQuerier)
		want   bool
	}{
		{name: "anonymous", viewer: Viewer{}, setup: func(*database.MockQuerier) {}},
		{name: "self", viewer: UserViewer(author.ID), setup: func(*database.MockQuerier) {}},
		{
			name:   "not subscribed",
			viewer: UserViewer(30),
			setup: func(mockDB *database.MockQuerier) {
				mockDB.EXPECT().CheckSubscriptionExists(gomock.Any(), gomock.Any()).Return(false, nil)
			},
		},
		{
			name:   "subscribed",
			viewer: UserViewer(30),
			setup: func(mockDB *database.MockQuerier) {
				mockDB.EXPECT().CheckSubscriptionExists(gomock.Any(), database.CheckSubscriptionExistsParams{
					SubscriberID: 30, AuthorID: author.ID,
				}).Return(true, nil)
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, mockDB := newTestEnv(t)
			tt.setup(mockDB)

			view, err := User(context.Background(), e, author, tt.viewer)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if view.IsSubscribed != tt.want {
				t.Errorf("expected is_subscribed %v, got %v", tt.want, view.IsSubscribed)
			}
			if view.Username != author.Username || view.Email != author.Email {
				t.Errorf("unexpected view %+v", view)
			}
		})
	}
}

func TestSubscription(t *testing.T) {
	two := int32(2)

	tests := []struct {
		name      string
		limit     *int32
		wantLimit pgtype.Int4
	}{
		{name: "no limit", limit: nil, wantLimit: pgtype.Int4{}},
		{name: "limited", limit: &two, wantLimit: pgtype.Int4{Int32: 2, Valid: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, mockDB := newTestEnv(t)
			mockDB.EXPECT().ListRecipesByAuthor(gomock.Any(), database.ListRecipesByAuthorParams{
				AuthorID: author.ID,
				Limit:    tt.wantLimit,
			}).Return([]database.Recipe{recipe, {ID: 2, Name: "Bread", CookingTime: 60}}, nil)
			mockDB.EXPECT().CountRecipesByAuthor(gomock.Any(), author.ID).Return(int64(5), nil)

			view, err := Subscription(context.Background(), e, author, tt.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !view.IsSubscribed {
				t.Error("expected is_subscribed to be true")
			}
			if view.RecipesCount != 5 || len(view.Recipes) != 2 {
				t.Errorf("unexpected recipes %d/%d", len(view.Recipes), view.RecipesCount)
			}
			if view.Recipes[1].Image != "" {
				t.Errorf("expected empty image to stay empty, got %q", view.Recipes[1].Image)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	e := env.Null()
	got := Summary(e, recipe)
	want := RecipeSummary{ID: 1, Name: "Soup", Image: "recipes/images/1.png", CookingTime: 15}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
