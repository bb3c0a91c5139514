// Package setup is responsible for setting up components.
package setup

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matt-dz/foodgram/internal/argon2id"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/database"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/filestore"
	"github.com/matt-dz/foodgram/internal/garage"
	mHttp "github.com/matt-dz/foodgram/internal/http"
	"github.com/matt-dz/foodgram/internal/image"
	"github.com/matt-dz/foodgram/internal/objectstore"
)

func connString(conf config.Database) string {
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(conf.User, conf.Password),
		Host:   net.JoinHostPort(conf.Host, strconv.Itoa(int(conf.Port))),
		Path:   "/" + conf.Database,
	}
	return u.String()
}

// Database opens the connection pool and applies the schema when the
// database is empty.
func Database(ctx context.Context, conf config.Config) (*database.Database, error) {
	if conf.Database.Database == "" {
		return nil, ErrDatabaseNotConfigured
	}

	pool, err := pgxpool.New(ctx, connString(conf.Database))
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db := database.NewDatabase(pool)
	if err := database.EnsureSchema(ctx, db); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	return db, nil
}

// ImageStore builds the recipe image store selected by the config. When a
// garage admin endpoint is configured the cluster layout and bucket are
// provisioned through it first.
func ImageStore(ctx context.Context, conf config.Config, client mHttp.HTTPDoer) (image.Store, error) {
	images := conf.Images
	switch images.Driver {
	case config.ImageDriverLocal:
		return filestore.New(images.Volume, images.KeyPrefix, conf.HostOrigin), nil

	case config.ImageDriverMinio:
		store, err := objectstore.NewMinio(objectstore.MinioConfig{
			Endpoint:  images.Endpoint,
			AccessKey: images.AccessKey,
			SecretKey: images.SecretKey,
			Bucket:    images.Bucket,
			Region:    images.Region,
			PublicURL: images.PublicURL,
			Secure:    images.Secure,
		})
		if err != nil {
			return nil, err
		}
		if conf.Garage.Enabled() {
			if err := Garage(ctx, conf, client); err != nil {
				return nil, err
			}
			return store, nil
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil

	case config.ImageDriverS3:
		if conf.Garage.Enabled() {
			if err := Garage(ctx, conf, client); err != nil {
				return nil, err
			}
		}
		return objectstore.NewS3(objectstore.S3Config{
			Endpoint:  images.Endpoint,
			Region:    images.Region,
			AccessKey: images.AccessKey,
			SecretKey: images.SecretKey,
			Bucket:    images.Bucket,
			PublicURL: images.PublicURL,
		}), nil
	}
	return nil, &UnsupportedDriverError{Driver: string(images.Driver)}
}

// Garage applies the initial cluster layout and creates the image bucket.
func Garage(ctx context.Context, conf config.Config, client mHttp.HTTPDoer) error {
	g := garage.NewClient(conf.Garage.AdminHost, conf.Garage.AdminToken, client)
	if err := g.InitializeLayout(ctx); err != nil {
		return fmt.Errorf("initializing garage layout: %w", err)
	}
	if err := g.EnsureBucket(ctx, conf.Images.Bucket); err != nil {
		return fmt.Errorf("ensuring garage bucket: %w", err)
	}
	return nil
}

// Admin creates the admin account from the config unless an admin
// already exists. Requires env.Database.
func Admin(ctx context.Context, env *env.Env) error {
	admin := env.Config.Admin
	if admin.Email == "" || admin.Password == "" {
		env.Logger.InfoContext(ctx, "admin account not configured, skipping admin setup")
		return nil
	}

	// Check admin count
	count, err := env.Database.GetAdminCount(ctx)
	if err != nil {
		return fmt.Errorf("getting admin count: %w", err)
	}
	if count > 0 {
		env.Logger.InfoContext(ctx, "admin already setup, skipping setup")
		return nil
	}

	hashedPassword, err := argon2id.EncodeHash(string(admin.Password), argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	// Create admin
	_, err = env.Database.CreateUser(ctx, database.CreateUserParams{
		Email:        admin.Email,
		Username:     admin.Username,
		FirstName:    admin.FirstName,
		LastName:     admin.LastName,
		PasswordHash: hashedPassword,
		Role:         database.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	env.Logger.InfoContext(ctx, "successfully setup admin!")

	return nil
}
