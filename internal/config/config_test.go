package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "this-is-a-very-long-secret-key-with-more-than-32-bytes"

func setDatabaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_USER", "foodgram")
	t.Setenv("DATABASE_PASSWORD", "foodgram")
	t.Setenv("DATABASE", "foodgram")
}

func TestLoadConfigFromEnv(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(*testing.T)
		wantError string
		validate  func(*testing.T, *Config)
	}{
		{
			name:  "all defaults",
			setup: setDatabaseEnv,
			validate: func(t *testing.T, c *Config) {
				if c.Env != EnvDev {
					t.Errorf("expected Env %q, got %q", EnvDev, c.Env)
				}
				if c.HostOrigin != "http://localhost:8080" {
					t.Errorf("expected HostOrigin %q, got %q", "http://localhost:8080", c.HostOrigin)
				}
				if c.Database.Port != 5432 || c.Database.Host != "localhost" {
					t.Errorf("expected localhost:5432, got %s:%d", c.Database.Host, c.Database.Port)
				}
				if c.Images.Driver != ImageDriverLocal {
					t.Errorf("expected Images.Driver %q, got %q", ImageDriverLocal, c.Images.Driver)
				}
				if c.Images.Volume != "/data/media" {
					t.Errorf("expected Images.Volume %q, got %q", "/data/media", c.Images.Volume)
				}
				if c.Images.KeyPrefix != "/media" {
					t.Errorf("expected Images.KeyPrefix %q, got %q", "/media", c.Images.KeyPrefix)
				}
				if c.RateLimit.Enabled() {
					t.Error("expected rate limiting to be disabled by default")
				}
				if c.Garage.Enabled() {
					t.Error("expected garage to be disabled by default")
				}
				if c.AppSecret.Value == nil {
					t.Error("expected AppSecret.Value to be generated, got nil")
				}
			},
		},
		{
			name: "custom environment values",
			setup: func(t *testing.T) {
				setDatabaseEnv(t)
				t.Setenv("ENV", "PROD")
				t.Setenv("HOST_ORIGIN", "https://foodgram.example.com")
				t.Setenv("APP_SECRET", testSecret)
				t.Setenv("APP_SECRET_VERSION", "2")
				t.Setenv("DATABASE_HOST", "db.example.com")
				t.Setenv("DATABASE_PORT", "5433")
				t.Setenv("IMAGES_DRIVER", "minio")
				t.Setenv("IMAGES_ENDPOINT", "minio:9000")
				t.Setenv("IMAGES_BUCKET", "recipes")
				t.Setenv("IMAGES_ACCESS_KEY", "access")
				t.Setenv("IMAGES_SECRET_KEY", "secret")
				t.Setenv("IMAGES_PUBLIC_URL", "https://cdn.example.com/recipes")
				t.Setenv("IMAGES_SECURE", "true")
				t.Setenv("GARAGE_ADMIN_HOST", "garage:3903")
				t.Setenv("GARAGE_ADMIN_TOKEN", "token")
				t.Setenv("RATE_LIMIT_REQUESTS", "100")
				t.Setenv("RATE_LIMIT_WINDOW", "30s")
				t.Setenv("ADMIN_EMAIL", "admin@example.com")
				t.Setenv("ADMIN_USERNAME", "admin")
				t.Setenv("ADMIN_FIRST_NAME", "Jane")
				t.Setenv("ADMIN_LAST_NAME", "Doe")
				t.Setenv("ADMIN_PASSWORD", "SecureP@ss123!")
			},
			validate: func(t *testing.T, c *Config) {
				if c.Env != EnvProd {
					t.Errorf("expected Env %q, got %q", EnvProd, c.Env)
				}
				if c.AppSecret.Value == nil || string(*c.AppSecret.Value) != testSecret {
					t.Error("expected AppSecret.Value to match provided value")
				}
				if c.AppSecret.Version != "2" {
					t.Errorf("expected AppSecret.Version %q, got %q", "2", c.AppSecret.Version)
				}
				if c.Database.Port != 5433 {
					t.Errorf("expected Database.Port 5433, got %d", c.Database.Port)
				}
				if c.Images.Driver != ImageDriverMinio || !c.Images.Secure || c.Images.Bucket != "recipes" {
					t.Errorf("unexpected images config %+v", c.Images)
				}
				if !c.Garage.Enabled() {
					t.Error("expected garage to be enabled")
				}
				if !c.RateLimit.Enabled() || c.RateLimit.Requests != 100 || c.RateLimit.Window != 30*time.Second {
					t.Errorf("unexpected rate limit %+v", c.RateLimit)
				}
				if c.Admin.Username != "admin" {
					t.Errorf("expected Admin.Username %q, got %q", "admin", c.Admin.Username)
				}
			},
		},
		{
			name: "invalid database port",
			setup: func(t *testing.T) {
				setDatabaseEnv(t)
				t.Setenv("DATABASE_PORT", "invalid")
			},
			wantError: "DATABASE_PORT",
		},
		{
			name: "invalid rate limit window",
			setup: func(t *testing.T) {
				setDatabaseEnv(t)
				t.Setenv("RATE_LIMIT_WINDOW", "soon")
			},
			wantError: "RATE_LIMIT_WINDOW",
		},
		{
			name: "database partially configured",
			setup: func(t *testing.T) {
				t.Setenv("DATABASE_USER", "foodgram")
			},
			wantError: "Database configuration is incomplete",
		},
		{
			name: "unknown image driver",
			setup: func(t *testing.T) {
				setDatabaseEnv(t)
				t.Setenv("IMAGES_DRIVER", "ftp")
			},
			wantError: "Driver",
		},
		{
			name: "s3 driver without bucket",
			setup: func(t *testing.T) {
				setDatabaseEnv(t)
				t.Setenv("IMAGES_DRIVER", "s3")
				t.Setenv("IMAGES_ACCESS_KEY", "access")
				t.Setenv("IMAGES_SECRET_KEY", "secret")
			},
			wantError: "Bucket",
		},
		{
			name: "garage partially configured",
			setup: func(t *testing.T) {
				setDatabaseEnv(t)
				t.Setenv("GARAGE_ADMIN_HOST", "garage:3903")
			},
			wantError: "Garage configuration is incomplete",
		},
		{
			name: "admin without username",
			setup: func(t *testing.T) {
				setDatabaseEnv(t)
				t.Setenv("ADMIN_EMAIL", "admin@example.com")
				t.Setenv("ADMIN_FIRST_NAME", "Jane")
				t.Setenv("ADMIN_LAST_NAME", "Doe")
				t.Setenv("ADMIN_PASSWORD", "SecureP@ss123!")
			},
			wantError: "Admin configuration is incomplete",
		},
		{
			name: "admin with weak password",
			setup: func(t *testing.T) {
				setDatabaseEnv(t)
				t.Setenv("ADMIN_EMAIL", "admin@example.com")
				t.Setenv("ADMIN_USERNAME", "admin")
				t.Setenv("ADMIN_FIRST_NAME", "Jane")
				t.Setenv("ADMIN_LAST_NAME", "Doe")
				t.Setenv("ADMIN_PASSWORD", "password")
			},
			wantError: "Password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_SECRET_PATH", filepath.Join(t.TempDir(), "secret"))
			tt.setup(t)

			config, err := loadConfigFromEnv()

			if tt.wantError != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.wantError) {
					t.Errorf("error %q should mention %q", err, tt.wantError)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, &config)
			}
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantError bool
		validate  func(*testing.T, *Config)
	}{
		{
			name: "complete config",
			yaml: `
env: PROD
host_origin: https://foodgram.example.com
app_secret:
  value: ` + testSecret + `
database:
  host: db.example.com
  port: 5433
  database: foodgram
  user: foodgram
  password: foodgram
images:
  driver: s3
  endpoint: http://garage:3900
  region: garage
  bucket: foodgram-images
  access_key: GK123
  secret_key: abc
  public_url: http://localhost:3902
garage:
  admin_host: garage:3903
  admin_token: admin
rate_limit:
  requests: 60
  window: 1m
`,
			validate: func(t *testing.T, c *Config) {
				if c.Images.Driver != ImageDriverS3 || c.Images.Region != "garage" {
					t.Errorf("unexpected images config %+v", c.Images)
				}
				if c.Images.KeyPrefix != "/media" {
					t.Errorf("expected default key prefix, got %q", c.Images.KeyPrefix)
				}
				if c.RateLimit.Window != time.Minute || c.RateLimit.Requests != 60 {
					t.Errorf("unexpected rate limit %+v", c.RateLimit)
				}
				if c.Database.Port != 5433 {
					t.Errorf("expected Database.Port 5433, got %d", c.Database.Port)
				}
			},
		},
		{
			name: "minimal config uses defaults",
			yaml: `
app_secret:
  value: ` + testSecret + `
database:
  database: foodgram
  user: foodgram
  password: foodgram
`,
			validate: func(t *testing.T, c *Config) {
				if c.Env != EnvDev {
					t.Errorf("expected Env %q, got %q", EnvDev, c.Env)
				}
				if c.Images.Driver != ImageDriverLocal || c.Images.Volume != "/data/media" {
					t.Errorf("unexpected images config %+v", c.Images)
				}
			},
		},
		{
			name:      "invalid yaml",
			yaml:      "database: [",
			wantError: true,
		},
		{
			name: "invalid env",
			yaml: `
env: STAGING
app_secret:
  value: ` + testSecret + `
`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "foodgram.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o600); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			config, err := loadConfigFromFile(path)
			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, &config)
			}
		})
	}
}

func TestLoadConfigFromFile_FileNotFound(t *testing.T) {
	if _, err := loadConfigFromFile("/nonexistent/foodgram.yaml"); err == nil {
		t.Error("expected error for nonexistent file, got nil")
	}
}

func TestLoadAppSecret(t *testing.T) {
	t.Run("generates and persists a secret", func(t *testing.T) {
		c := &Config{AppSecret: AppSecret{Path: filepath.Join(t.TempDir(), "secret")}}
		if err := loadAppSecret(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.AppSecret.Value == nil || len(*c.AppSecret.Value) < appSecretBytes {
			t.Fatal("expected a generated secret of at least 32 bytes")
		}
		contents, err := os.ReadFile(c.AppSecret.Path)
		if err != nil {
			t.Fatalf("failed to read secret file: %v", err)
		}
		if string(contents) != string(*c.AppSecret.Value) {
			t.Error("secret file contents don't match config value")
		}

		// A second load reads the same secret back.
		again := &Config{AppSecret: AppSecret{Path: c.AppSecret.Path}}
		if err := loadAppSecret(again); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *again.AppSecret.Value != *c.AppSecret.Value {
			t.Error("reloaded secret differs")
		}
	})

	t.Run("keeps an explicit secret", func(t *testing.T) {
		secret := AppSecretValue(testSecret)
		c := &Config{AppSecret: AppSecret{Value: &secret, Path: "/should/not/be/accessed"}}
		if err := loadAppSecret(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(*c.AppSecret.Value) != testSecret {
			t.Error("AppSecret.Value should not have changed")
		}
	})

	t.Run("path is a directory", func(t *testing.T) {
		c := &Config{AppSecret: AppSecret{Path: t.TempDir()}}
		if err := loadAppSecret(c); err == nil {
			t.Error("expected error, got nil")
		}
	})
}
