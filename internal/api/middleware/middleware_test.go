package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/mock/gomock"

	apiError "github.com/matt-dz/foodgram/internal/api/error"
	"github.com/matt-dz/foodgram/internal/api/requestid"
	"github.com/matt-dz/foodgram/internal/api/token"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/database/databasetest"
	"github.com/matt-dz/foodgram/internal/env"
	mJwt "github.com/matt-dz/foodgram/internal/jwt"
	"github.com/matt-dz/foodgram/internal/role"
)

const appSecret = "test-secret-32-bytes-long-1234567890"

func newTestEnv(t *testing.T) (*env.Env, *database.MockQuerier) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockQuerier(ctrl)

	e := env.Null()
	secret := config.AppSecretValue(appSecret)
	e.Config.AppSecret = config.AppSecret{Value: &secret, Version: "1"}
	e.Database, _ = databasetest.New(mockDB)
	return e, mockDB
}

func createAccessToken(t *testing.T, e *env.Env, userRole role.Role, userID int64) string {
	t.Helper()
	raw, err := token.NewAccessToken(mJwt.JWTParams{Role: userRole.String(), UserID: userID}, e)
	if err != nil {
		t.Fatalf("failed to create access token: %v", err)
	}
	return raw
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiError.Error {
	t.Helper()
	var body apiError.Error
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error body %q: %v", rec.Body.String(), err)
	}
	return body
}

// serve runs handler behind InjectEnv and AddRequestID.
func serve(e *env.Env, handler http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	InjectEnv(e)(AddRequestID(handler)).ServeHTTP(rec, r)
	return rec
}

func TestIdentify(t *testing.T) {
	expiredToken := func(t *testing.T) string {
		t.Helper()
		tok := jwt.NewWithClaims(jwt.SigningMethodHS256, mJwt.Claims{
			Role: "user",
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "expired",
				Issuer:    "foodgram",
				Subject:   "1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})
		tok.Header["kid"] = "1"
		raw, err := tok.SignedString([]byte(appSecret))
		if err != nil {
			t.Fatalf("signing: %v", err)
		}
		return raw
	}

	tests := []struct {
		name       string
		setup      func(*testing.T, *env.Env, *database.MockQuerier, *http.Request)
		wantStatus int
		wantCode   apiError.ErrorCode
		wantUserID int64
	}{
		{
			name:       "anonymous request passes through",
			setup:      func(*testing.T, *env.Env, *database.MockQuerier, *http.Request) {},
			wantStatus: http.StatusOK,
		},
		{
			name: "valid bearer token",
			setup: func(t *testing.T, e *env.Env, mockDB *database.MockQuerier, r *http.Request) {
				r.Header.Set(token.AuthorizationHeader, "Bearer "+createAccessToken(t, e, role.RoleUser, 123))
				mockDB.EXPECT().CheckTokenRevoked(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantStatus: http.StatusOK,
			wantUserID: 123,
		},
		{
			name: "valid token scheme",
			setup: func(t *testing.T, e *env.Env, mockDB *database.MockQuerier, r *http.Request) {
				r.Header.Set(token.AuthorizationHeader, "Token "+createAccessToken(t, e, role.RoleAdmin, 7))
				mockDB.EXPECT().CheckTokenRevoked(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantStatus: http.StatusOK,
			wantUserID: 7,
		},
		{
			name: "revoked token",
			setup: func(t *testing.T, e *env.Env, mockDB *database.MockQuerier, r *http.Request) {
				r.Header.Set(token.AuthorizationHeader, "Bearer "+createAccessToken(t, e, role.RoleUser, 123))
				mockDB.EXPECT().CheckTokenRevoked(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiError.InvalidAccessToken,
		},
		{
			name: "revocation lookup fails",
			setup: func(t *testing.T, e *env.Env, mockDB *database.MockQuerier, r *http.Request) {
				r.Header.Set(token.AuthorizationHeader, "Bearer "+createAccessToken(t, e, role.RoleUser, 123))
				mockDB.EXPECT().CheckTokenRevoked(gomock.Any(), gomock.Any()).Return(false, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   apiError.InternalServerError,
		},
		{
			name: "expired token",
			setup: func(t *testing.T, e *env.Env, mockDB *database.MockQuerier, r *http.Request) {
				r.Header.Set(token.AuthorizationHeader, "Bearer "+expiredToken(t))
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiError.ExpiredAccessToken,
		},
		{
			name: "garbage token",
			setup: func(t *testing.T, e *env.Env, mockDB *database.MockQuerier, r *http.Request) {
				r.Header.Set(token.AuthorizationHeader, "Bearer invalid-token-12345")
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiError.InvalidAccessToken,
		},
		{
			name: "malformed authorization header",
			setup: func(t *testing.T, e *env.Env, mockDB *database.MockQuerier, r *http.Request) {
				r.Header.Set(token.AuthorizationHeader, createAccessToken(t, e, role.RoleUser, 123))
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiError.InvalidAccessToken,
		},
		{
			name: "cookie without csrf on unsafe method",
			setup: func(t *testing.T, e *env.Env, mockDB *database.MockQuerier, r *http.Request) {
				r.Method = http.MethodPost
				r.AddCookie(&http.Cookie{Name: token.AccessTokenName(e), Value: createAccessToken(t, e, role.RoleUser, 1)})
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   apiError.InvalidAccessToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, mockDB := newTestEnv(t)
			req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
			tt.setup(t, e, mockDB, req)

			var gotUserID int64
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = token.UserIDFromCtx(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			rec := serve(e, Identify(next), req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantCode != "" {
				if body := decodeError(t, rec); body.Code != tt.wantCode {
					t.Errorf("expected error code %s, got %s", tt.wantCode, body.Code)
				}
				return
			}
			if gotUserID != tt.wantUserID {
				t.Errorf("expected user id %d, got %d", tt.wantUserID, gotUserID)
			}
		})
	}
}

func TestAuthorizeRequest(t *testing.T) {
	tests := []struct {
		name         string
		requiredRole role.Role
		tokenRole    role.Role
		anonymous    bool
		wantStatus   int
		wantCode     apiError.ErrorCode
	}{
		{
			name:         "anonymous on user route",
			requiredRole: role.RoleUser,
			anonymous:    true,
			wantStatus:   http.StatusUnauthorized,
			wantCode:     apiError.NotAuthenticated,
		},
		{
			name:         "user role accessing user endpoint",
			requiredRole: role.RoleUser,
			tokenRole:    role.RoleUser,
			wantStatus:   http.StatusOK,
		},
		{
			name:         "admin role accessing admin endpoint",
			requiredRole: role.RoleAdmin,
			tokenRole:    role.RoleAdmin,
			wantStatus:   http.StatusOK,
		},
		{
			name:         "user role accessing admin endpoint - insufficient permissions",
			requiredRole: role.RoleAdmin,
			tokenRole:    role.RoleUser,
			wantStatus:   http.StatusForbidden,
			wantCode:     apiError.InsufficientPermissions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, mockDB := newTestEnv(t)
			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if !tt.anonymous {
				req.Header.Set(token.AuthorizationHeader, "Bearer "+createAccessToken(t, e, tt.tokenRole, 1))
				mockDB.EXPECT().CheckTokenRevoked(gomock.Any(), gomock.Any()).Return(false, nil)
			}

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			rec := serve(e, Identify(AuthorizeRequest(tt.requiredRole)(next)), req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantCode != "" {
				if body := decodeError(t, rec); body.Code != tt.wantCode {
					t.Errorf("expected error code %s, got %s", tt.wantCode, body.Code)
				}
			}
		})
	}
}

func TestAddRequestID(t *testing.T) {
	var ctxID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = requestid.ExtractRequestID(r.Context())
	})

	rec := httptest.NewRecorder()
	AddRequestID(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	header := rec.Header().Get(requestid.Header)
	if header == "" || header != ctxID {
		t.Errorf("expected header %q to match context id %q", header, ctxID)
	}
}

func TestRateLimit(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("disabled", func(t *testing.T) {
		h := RateLimit(config.RateLimit{})(next)
		for range 5 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tags", nil))
			if rec.Code != http.StatusNoContent {
				t.Fatalf("expected 204, got %d", rec.Code)
			}
		}
	})

	t.Run("enabled", func(t *testing.T) {
		h := RateLimit(config.RateLimit{Requests: 1, Window: time.Minute})(next)

		first := httptest.NewRecorder()
		h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/tags", nil))
		if first.Code != http.StatusNoContent {
			t.Fatalf("expected first request to pass, got %d", first.Code)
		}

		second := httptest.NewRecorder()
		h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/tags", nil))
		if second.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", second.Code)
		}
		if body := decodeError(t, second); body.Code != apiError.TooManyRequests {
			t.Errorf("expected %s, got %s", apiError.TooManyRequests, body.Code)
		}
	})
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		name       string
		conf       config.Config
		origin     string
		wantOrigin string
	}{
		{
			name:       "development allows any origin",
			conf:       config.Config{Env: config.EnvDev},
			origin:     "http://localhost:3000",
			wantOrigin: "http://localhost:3000",
		},
		{
			name:       "production allows host origin",
			conf:       config.Config{Env: config.EnvProd, HostOrigin: "https://foodgram.example.com"},
			origin:     "https://foodgram.example.com",
			wantOrigin: "https://foodgram.example.com",
		},
		{
			name:       "production rejects other origins",
			conf:       config.Config{Env: config.EnvProd, HostOrigin: "https://foodgram.example.com"},
			origin:     "https://evil.example.com",
			wantOrigin: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			CORS(tt.conf)(next).ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("expected allow origin %q, got %q", tt.wantOrigin, got)
			}
		})
	}
}

func TestPrometheusMetrics(t *testing.T) {
	router := chi.NewRouter()
	router.Use(PrometheusMetrics)
	router.Get("/api/recipes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recipes/4", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("expected status to pass through, got %d", rec.Code)
	}
}
