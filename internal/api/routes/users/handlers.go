// Package users contains handlers for the user resource.
package users

import (
	"log/slog"
	"net/http"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/routes"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/apperr"
	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	mJson "github.com/matt-dz/foodgram/internal/json"
	"github.com/matt-dz/foodgram/internal/password"
	"github.com/matt-dz/foodgram/internal/projection"
	"github.com/matt-dz/foodgram/internal/relation"
)

const (
	emailConstraint    = "users_email_lower_key"
	usernameConstraint = "users_username_key"
)

// ListUsers godoc
//
//	@Summary	List users
//	@Tags		Users
//	@Produce	json
//	@Success	200	{array}		projection.UserView
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/users [get]
func ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	env.Logger.DebugContext(ctx, "listing users")
	rows, err := env.Database.ListUsers(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list users", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	views, err := projection.Users(ctx, env, rows, routes.Viewer(r))
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to project users", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := mJson.WriteJSON(w, http.StatusOK, views); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleCreateUser godoc
//
//	@Summary	Register a user
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Param		request	body		CreateUserRequest	true	"Create User Request"
//	@Success	201		{object}	CreateUserResponse
//	@Failure	400		{object}	apiError.Error	"Validation error, weak password or email/username taken"
//	@Failure	500		{object}	apiError.Error	"Internal server error"
//	@Router		/api/users [post]
func HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	// Decode JSON
	var request CreateUserRequest
	env.Logger.DebugContext(ctx, "reading request body")
	if err := routes.DecodeBody(r, &request); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}
	request.trim()
	if err := validateRequest(request); err != nil {
		if !apiError.EncodeDomainError(w, err, requestID) {
			env.Logger.ErrorContext(ctx, "failed to validate request body", slog.Any("error", err))
		}
		return
	}

	// Ensure password strength
	env.Logger.DebugContext(ctx, "validating password")
	if err := password.ValidatePassword(request.Password); err != nil {
		_ = apiError.EncodeFieldError(w, apiError.WeakPassword, "password", err.Error(), requestID)
		return
	}

	// Hash password
	env.Logger.DebugContext(ctx, "hashing password")
	hash, err := argon2id.EncodeHash(request.Password, argon2id.DefaultParams)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Create user
	env.Logger.DebugContext(ctx, "creating user")
	userID, err := env.Database.CreateUser(ctx, database.CreateUserParams{
		Email:        request.Email,
		Username:     request.Username,
		FirstName:    request.FirstName,
		LastName:     request.LastName,
		PasswordHash: hash,
		Role:         database.RoleUser,
	})
	switch {
	case database.IsUniqueViolation(err, emailConstraint):
		_ = apiError.EncodeDomainError(w, apperr.Conflict("email", "a user with this email already exists"), requestID)
		return
	case database.IsUniqueViolation(err, usernameConstraint):
		_ = apiError.EncodeDomainError(w,
			apperr.Conflict("username", "a user with this username already exists"), requestID)
		return
	case err != nil:
		env.Logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Write response
	env.Logger.DebugContext(ctx, "writing response")
	if err := mJson.WriteJSON(w, http.StatusCreated, CreateUserResponse{
		Email:     request.Email,
		ID:        userID,
		Username:  request.Username,
		FirstName: request.FirstName,
		LastName:  request.LastName,
	}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

func writeUser(w http.ResponseWriter, r *http.Request, userID int64, viewer projection.Viewer) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)

	user, err := env.Database.GetUser(ctx, userID)
	if database.IsNoRows(err) {
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	view, err := projection.User(ctx, env, user, viewer)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to project user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if err := mJson.WriteJSON(w, http.StatusOK, view); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// GetUser godoc
//
//	@Summary	Get a user
//	@Tags		Users
//	@Produce	json
//	@Param		id	path		int	true	"User id"
//	@Success	200	{object}	projection.UserView
//	@Failure	404	{object}	apiError.Error	"User not found"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/users/{id} [get]
func GetUser(w http.ResponseWriter, r *http.Request) {
	requestID := requestid.ExtractRequestID(r.Context())
	userID, err := routes.PathID(r, routes.ParamID)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	}
	writeUser(w, r, userID, routes.Viewer(r))
}

// Me godoc
//
//	@Summary	Get the current user
//	@Tags		Users
//	@Produce	json
//	@Success	200	{object}	projection.UserView
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Security	BearerAuth
//	@Router		/api/users/me [get]
func Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestid.ExtractRequestID(ctx))
		return
	}
	writeUser(w, r, userID, projection.UserViewer(userID))
}

// SetPassword godoc
//
//	@Summary	Change the current user's password
//	@Tags		Users
//	@Accept		json
//	@Param		request	body	SetPasswordRequest	true	"Passwords"
//	@Success	204		"Password changed"
//	@Failure	400		{object}	apiError.Error	"Wrong current password or weak new password"
//	@Failure	401		{object}	apiError.Error	"Unauthorized"
//	@Failure	500		{object}	apiError.Error	"Internal server error"
//	@Security	BearerAuth
//	@Router		/api/users/set_password [post]
func SetPassword(w http.ResponseWriter, r *http.Request) {
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
	var request SetPasswordRequest
	if err := routes.DecodeBody(r, &request); err != nil {
		env.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}
	if err := validateRequest(request); err != nil {
		if !apiError.EncodeDomainError(w, err, requestID) {
			env.Logger.ErrorContext(ctx, "failed to validate request body", slog.Any("error", err))
		}
		return
	}

	// Check current password
	env.Logger.DebugContext(ctx, "checking current password")
	user, err := env.Database.GetUser(ctx, userID)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	match, err := argon2id.Compare(request.CurrentPassword, user.PasswordHash)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to compare passwords", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !match {
		_ = apiError.EncodeFieldError(w, apiError.InvalidPassword, "current_password",
			"current password is incorrect", requestID)
		return
	}

	// Ensure password strength
	if err := password.ValidatePassword(request.NewPassword); err != nil {
		_ = apiError.EncodeFieldError(w, apiError.WeakPassword, "new_password", err.Error(), requestID)
		return
	}

	hash, err := argon2id.EncodeHash(request.NewPassword, argon2id.DefaultParams)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if err := env.Database.UpdateUserPassword(ctx, database.UpdateUserPasswordParams{
		ID:           userID,
		PasswordHash: hash,
	}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to update password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Subscribe godoc
//
//	@Summary	Subscribe to an author
//	@Tags		Users
//	@Produce	json
//	@Param		id				path		int	true	"Author id"
//	@Param		recipes_limit	query		int	false	"Recipes to include"
//	@Success	201				{object}	projection.SubscriptionView
//	@Failure	400				{object}	apiError.Error	"Self subscription or already subscribed"
//	@Failure	401				{object}	apiError.Error	"Unauthorized"
//	@Failure	404				{object}	apiError.Error	"User not found"
//	@Security	BearerAuth
//	@Router		/api/users/{id}/subscribe [post]
func Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	authorID, err := routes.PathID(r, routes.ParamID)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	}
	limit, err := routes.RecipesLimit(r.URL.Query())
	if err != nil {
		_ = apiError.EncodeDomainError(w, err, requestID)
		return
	}

	view, err := relation.Subscribe(ctx, env, userID, authorID, limit)
	if err != nil {
		if !apiError.EncodeDomainError(w, err, requestID) {
			env.Logger.ErrorContext(ctx, "failed to subscribe", slog.Any("error", err))
		}
		return
	}
	if err := mJson.WriteJSON(w, http.StatusCreated, view); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// Unsubscribe godoc
//
//	@Summary	Unsubscribe from an author
//	@Tags		Users
//	@Param		id	path	int	true	"Author id"
//	@Success	204	"Unsubscribed"
//	@Failure	400	{object}	apiError.Error	"Not subscribed"
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	404	{object}	apiError.Error	"User not found"
//	@Security	BearerAuth
//	@Router		/api/users/{id}/subscribe [delete]
func Unsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	authorID, err := routes.PathID(r, routes.ParamID)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	}

	if err := relation.Unsubscribe(ctx, env, userID, authorID); err != nil {
		if !apiError.EncodeDomainError(w, err, requestID) {
			env.Logger.ErrorContext(ctx, "failed to unsubscribe", slog.Any("error", err))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Subscriptions godoc
//
//	@Summary	List the authors the current user follows
//	@Tags		Users
//	@Produce	json
//	@Param		recipes_limit	query		int	false	"Recipes to include per author"
//	@Success	200				{array}		projection.SubscriptionView
//	@Failure	400				{object}	apiError.Error	"Invalid recipes_limit"
//	@Failure	401				{object}	apiError.Error	"Unauthorized"
//	@Security	BearerAuth
//	@Router		/api/users/subscriptions [get]
func Subscriptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := requestid.ExtractRequestID(ctx)
	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	limit, err := routes.RecipesLimit(r.URL.Query())
	if err != nil {
		_ = apiError.EncodeDomainError(w, err, requestID)
		return
	}

	views, err := relation.Subscriptions(ctx, env, userID, limit)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list subscriptions", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if err := mJson.WriteJSON(w, http.StatusOK, views); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
