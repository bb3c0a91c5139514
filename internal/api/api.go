// Package api sets up and starts the API
// server with routing, middleware, and Swagger documentation.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/matt-dz/foodgram/docs"
	"github.com/matt-dz/foodgram/internal/api/middleware"
	"github.com/matt-dz/foodgram/internal/api/routes/admin"
	"github.com/matt-dz/foodgram/internal/api/routes/auth"
	"github.com/matt-dz/foodgram/internal/api/routes/ingredients"
	"github.com/matt-dz/foodgram/internal/api/routes/ping"
	"github.com/matt-dz/foodgram/internal/api/routes/recipes"
	"github.com/matt-dz/foodgram/internal/api/routes/tags"
	"github.com/matt-dz/foodgram/internal/api/routes/users"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/role"
)

const (
	serverPort        = 8080
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

func addDocs(r chi.Router, hostOrigin string) {
	swagger := httpSwagger.Handler(
		httpSwagger.URL(strings.TrimRight(hostOrigin, "/")+"/api/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	)

	r.Mount("/api/swagger", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		// Handle preflight
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		// Allow GET to serve Swagger
		if req.Method == http.MethodGet {
			swagger.ServeHTTP(w, req)
			return
		}

		// Block anything else
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}))
}

// addMedia serves locally stored recipe images under the key prefix.
func addMedia(r chi.Router, images config.Images) {
	if images.Driver != config.ImageDriverLocal {
		return
	}
	prefix := "/" + strings.Trim(images.KeyPrefix, "/")
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(images.Volume)))
	r.Get(prefix+"/*", files.ServeHTTP)
}

func addRoutes(router chi.Router) {
	authenticated := middleware.AuthorizeRequest(role.RoleUser)

	router.Route("/api", func(r chi.Router) {
		r.Get("/ping", ping.HandlePing)
		r.With(middleware.AuthorizeRequest(role.RoleAdmin)).Handle("/metrics", promhttp.Handler())

		r.Route("/auth/token", func(r chi.Router) {
			r.Post("/login", auth.HandleLogin)
			r.With(authenticated).Post("/logout", auth.HandleLogout)
		})

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", recipes.ListRecipes)
			r.Get("/{id}", recipes.GetRecipe)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Post("/", recipes.CreateRecipe)
				r.Get("/download_shopping_cart", recipes.DownloadShoppingCart)
				r.Patch("/{id}", recipes.UpdateRecipe)
				r.Delete("/{id}", recipes.DeleteRecipe)
				r.Post("/{id}/favorite", recipes.AddFavorite)
				r.Delete("/{id}/favorite", recipes.RemoveFavorite)
				r.Post("/{id}/shopping_cart", recipes.AddToShoppingCart)
				r.Delete("/{id}/shopping_cart", recipes.RemoveFromShoppingCart)
			})
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", ingredients.ListIngredients)
			r.Get("/{id}", ingredients.GetIngredient)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", tags.ListTags)
			r.Get("/{id}", tags.GetTag)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", users.ListUsers)
			r.Post("/", users.HandleCreateUser)
			r.Get("/{id}", users.GetUser)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Get("/me", users.Me)
				r.Post("/set_password", users.SetPassword)
				r.Get("/subscriptions", users.Subscriptions)
				r.Post("/{id}/subscribe", users.Subscribe)
				r.Delete("/{id}/subscribe", users.Unsubscribe)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AuthorizeRequest(role.RoleAdmin))

			r.Post("/revoked_tokens/purge", admin.HandlePurgeRevokedTokens)
		})
	})
}

// Handler builds the router with every middleware and route mounted.
func Handler(env *env.Env) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.AddRequestID)
	router.Use(middleware.LogRequest(env.Logger))
	router.Use(middleware.InjectEnv(env))
	router.Use(middleware.CORS(env.Config))
	router.Use(middleware.RateLimit(env.Config.RateLimit))
	router.Use(middleware.PrometheusMetrics)
	router.Use(middleware.Identify)

	addRoutes(router)
	addDocs(router, env.Config.HostOrigin)
	addMedia(router, env.Config.Images)
	return router
}

// Start godoc
//
//	@title						Foodgram API
//	@version					1.0
//	@description				API Server for the Foodgram recipe sharing application.
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//
//	@host						localhost:8080
//	@BasePath					/api
func Start(ctx context.Context, env *env.Env) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", serverPort),
		Handler:           Handler(env),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		env.Logger.Info(fmt.Sprintf("Listening at 0.0.0.0:%d", serverPort))
		env.Logger.Info(fmt.Sprintf("Swagger UI available at http://0.0.0.0:%d/api/swagger/index.html", serverPort))
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	env.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
