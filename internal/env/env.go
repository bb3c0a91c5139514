// Package env provides a structure for managing application-wide dependencies.
package env

import (
	"context"
	"log/slog"

	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/http"
	"github.com/matt-dz/foodgram/internal/image"
	"github.com/matt-dz/foodgram/internal/log"
)

type envKeyType struct{}

var envKey envKeyType

type Env struct {
	Logger   *slog.Logger
	Database *database.Database
	Images   image.Store
	HTTP     *http.HTTP
	Config   config.Config
}

func New(lg *slog.Logger) *Env {
	if lg == nil {
		lg = log.NullLogger()
	}

	return &Env{
		Logger: lg,
	}
}

func Null() *Env {
	return New(nil)
}

// WithCtx stores env in ctx.
func WithCtx(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey, env)
}

// EnvFromCtx returns the Env stored in ctx, or a Null env when none is
// present.
func EnvFromCtx(ctx context.Context) *Env {
	if e, ok := ctx.Value(envKey).(*Env); ok && e != nil {
		return e
	}
	return Null()
}
