package relation

import (
	"context"
	"fmt"

	"github.com/matt-dz/foodgram/internal/apperr"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/projection"
)

const subscription = "subscription"

var errSelfSubscription = apperr.Validation("", "you cannot subscribe to yourself")

func getAuthor(ctx context.Context, env *env.Env, authorID int64) (database.User, error) {
	author, err := env.Database.GetUser(ctx, authorID)
	if database.IsNoRows(err) {
		return database.User{}, apperr.NotFound("user", authorID)
	} else if err != nil {
		return database.User{}, fmt.Errorf("getting user: %w", err)
	}
	return author, nil
}

// Subscribe makes subscriberID follow authorID and returns the author
// with up to recipesLimit of their recipes.
func Subscribe(
	ctx context.Context, env *env.Env, subscriberID, authorID int64, recipesLimit *int32,
) (view projection.SubscriptionView, err error) {
	defer func() { record(subscription, actionAdd, err) }()

	if subscriberID == authorID {
		return projection.SubscriptionView{}, errSelfSubscription
	}

	env.Logger.DebugContext(ctx, "getting author")
	author, err := getAuthor(ctx, env, authorID)
	if err != nil {
		return projection.SubscriptionView{}, err
	}

	const present = "you are already subscribed to this user"
	env.Logger.DebugContext(ctx, "creating subscription")
	err = env.Database.WithTx(ctx, func(q database.Querier) error {
		exists, err := q.CheckSubscriptionExists(ctx, database.CheckSubscriptionExistsParams{
			SubscriberID: subscriberID,
			AuthorID:     authorID,
		})
		if err != nil {
			return fmt.Errorf("checking subscription: %w", err)
		}
		if exists {
			return apperr.Conflict("", present)
		}
		err = q.CreateSubscription(ctx, database.CreateSubscriptionParams{
			SubscriberID: subscriberID,
			AuthorID:     authorID,
		})
		return translateInsert(subscription, present, err, func() error {
			return apperr.NotFound("user", authorID)
		})
	})
	if err != nil {
		return projection.SubscriptionView{}, err
	}

	return projection.Subscription(ctx, env, author, recipesLimit)
}

func Unsubscribe(ctx context.Context, env *env.Env, subscriberID, authorID int64) (err error) {
	defer func() { record(subscription, actionRemove, err) }()

	if subscriberID == authorID {
		return errSelfSubscription
	}

	env.Logger.DebugContext(ctx, "getting author")
	if _, err := getAuthor(ctx, env, authorID); err != nil {
		return err
	}

	env.Logger.DebugContext(ctx, "deleting subscription")
	rows, err := env.Database.DeleteSubscription(ctx, database.DeleteSubscriptionParams{
		SubscriberID: subscriberID,
		AuthorID:     authorID,
	})
	if err != nil {
		return fmt.Errorf("deleting subscription: %w", err)
	}
	if rows == 0 {
		return apperr.RelationNotFound(subscription)
	}
	return nil
}

// Subscriptions lists the authors subscriberID follows.
func Subscriptions(
	ctx context.Context, env *env.Env, subscriberID int64, recipesLimit *int32,
) ([]projection.SubscriptionView, error) {
	authors, err := env.Database.ListSubscribedAuthors(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}

	views := make([]projection.SubscriptionView, 0, len(authors))
	for _, author := range authors {
		view, err := projection.Subscription(ctx, env, author, recipesLimit)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}
