// Package middleware contains middleware functions for the API
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/golang-jwt/jwt/v5"
	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/log"
	"github.com/matt-dz/foodgram/internal/metrics"
	"github.com/matt-dz/foodgram/internal/role"
)

const corsMaxAge = 86400

// InjectEnv injects an environment struct into the request context.
func InjectEnv(environment *env.Env) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(env.WithCtx(r.Context(), environment)))
		})
	}
}

func LogRequest(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		Level:         slog.LevelInfo,
		RecoverPanics: true,
		LogExtraAttrs: func(r *http.Request, reqBody string, respStatus int) []slog.Attr {
			return []slog.Attr{slog.String("log_id", requestid.ExtractRequestID(r.Context()))}
		},
	})
}

// AddRequestID adds a request ID to the request context and the response
// headers.
func AddRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := requestid.New()
		w.Header().Set(requestid.Header, id)
		ctx := log.AppendCtx(r.Context(), slog.String("log_id", id))
		next.ServeHTTP(w, r.WithContext(requestid.InjectRequestID(ctx, id)))
	})
}

// CORS allows the configured host origin in production and any origin
// during development.
func CORS(conf config.Config) func(http.Handler) http.Handler {
	origins := []string{"http://*", "https://*"}
	if conf.Env == config.EnvProd {
		origins = []string{conf.HostOrigin}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", token.AuthorizationHeader, token.CSRFTokenHeader},
		ExposedHeaders:   []string{requestid.Header, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	})
}

// RateLimit limits each client IP to conf.Requests per conf.Window. It is
// a no-op when rate limiting is disabled.
func RateLimit(conf config.RateLimit) func(http.Handler) http.Handler {
	if !conf.Enabled() {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		conf.Requests,
		conf.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			requestID := requestid.ExtractRequestID(r.Context())
			_ = apiError.EncodeError(w, apiError.TooManyRequests, "too many requests", requestID)
		}),
	)
}

// PrometheusMetrics records request counts and latencies labelled by the
// matched route pattern.
func PrometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.TrackActiveRequest(true)
		defer metrics.TrackActiveRequest(false)

		start := time.Now()
		wrapper := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.RecordAPIRequest(r.Method, route, strconv.Itoa(wrapper.statusCode), time.Since(start))
	})
}

type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Identify authenticates the request when it carries an access token.
// Requests without credentials continue anonymously; invalid, expired or
// revoked tokens are rejected.
func Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		env := env.EnvFromCtx(ctx)
		requestID := requestid.ExtractRequestID(ctx)

		raw, err := token.FromRequest(r, env)
		if errors.Is(err, token.ErrNoToken) {
			next.ServeHTTP(w, r)
			return
		} else if err != nil {
			env.Logger.DebugContext(ctx, "unable to read access token", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, err.Error(), requestID)
			return
		}

		claims, err := token.ParseAccessToken(raw, env)
		if errors.Is(err, jwt.ErrTokenExpired) {
			env.Logger.DebugContext(ctx, "access token expired", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.ExpiredAccessToken, "access token expired", requestID)
			return
		} else if errors.Is(err, token.ErrNoSecret) {
			env.Logger.ErrorContext(ctx, "app secret not configured")
			_ = apiError.EncodeInternalError(w, requestID)
			return
		} else if err != nil {
			env.Logger.DebugContext(ctx, "invalid access token", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			env.Logger.DebugContext(ctx, "invalid token subject", slog.Any("error", err))
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "invalid access token", requestID)
			return
		}

		env.Logger.DebugContext(ctx, "checking token revocation")
		revoked, err := env.Database.CheckTokenRevoked(ctx, claims.ID)
		if err != nil {
			env.Logger.ErrorContext(ctx, "failed to check token revocation", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		if revoked {
			_ = apiError.EncodeError(w, apiError.InvalidAccessToken, "access token revoked", requestID)
			return
		}

		ctx = log.AppendCtx(ctx, slog.Int64("user-id", userID))
		ctx = token.UserIDWithCtx(ctx, userID)
		ctx = token.ClaimsWithCtx(ctx, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthorizeRequest rejects requests that Identify did not authenticate or
// whose role is below requiredRole.
func AuthorizeRequest(requiredRole role.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			env := env.EnvFromCtx(ctx)
			requestID := requestid.ExtractRequestID(ctx)

			claims, err := token.ClaimsFromCtx(ctx)
			if err != nil {
				_ = apiError.EncodeError(w, apiError.NotAuthenticated,
					"authentication credentials were not provided", requestID)
				return
			}

			env.Logger.DebugContext(ctx, "validating user role")
			if userRole := role.ToRole(claims.Role); !userRole.Allows(requiredRole) {
				env.Logger.DebugContext(ctx, "user does not have required role",
					slog.String("user-role", userRole.String()),
					slog.String("required-role", requiredRole.String()))
				_ = apiError.EncodeError(w, apiError.InsufficientPermissions, "insufficient permissions", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
