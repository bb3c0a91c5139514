// Package filestore stores recipe images on local disk through the
// fileserver package and serves them under a URL key prefix.
package filestore

import (
	"context"
	"crypto/rand"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/matt-dz/foodgram/internal/fileserver"
	"github.com/matt-dz/foodgram/internal/image"
	"github.com/oklog/ulid/v2"
)

const (
	imagesDir = "images"
)

const (
	KeyPrefix = "/media"
)

type FileStore struct {
	keyPrefix string
	host      string
	fs        *fileserver.FileServer
}

var _ image.Store = FileStore{}

func New(baseDirectory, keyPrefix, host string) FileStore {
	return FileStore{
		keyPrefix: keyPrefix,
		host:      strings.TrimRight(host, "/"),
		fs:        fileserver.New(baseDirectory),
	}
}

// WriteRecipeImage writes data under a fresh key and returns the key.
func (f FileStore) WriteRecipeImage(_ context.Context, suffix string, data []byte) (string, error) {
	id, err := generateKeyID()
	if err != nil {
		return "", err
	}
	key := recipeImageKey(f.keyPrefix, id, suffix)
	if _, err := f.fs.Write(extractKeyPrefix(key, f.keyPrefix), data); err != nil {
		return "", fmt.Errorf("writing recipe image: %w", err)
	}
	return key, nil
}

func (f FileStore) FileURL(key string) string {
	return f.host + "/" + strings.TrimLeft(key, "/")
}

func (f FileStore) DeleteKey(_ context.Context, key string) error {
	return f.fs.Delete(extractKeyPrefix(key, f.keyPrefix))
}

func recipeImageKey(prefix, id, suffix string) string {
	return filepath.Join("/", strings.Trim(prefix, "/"), fileserver.RecipesDir, imagesDir, id+suffix)
}

func generateKeyID() (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generating key id: %w", err)
	}
	return strings.ToLower(id.String()), nil
}

func extractKeyPrefix(key, prefix string) string {
	k := strings.Trim(key, "/")
	p := strings.Trim(prefix, "/")
	k = strings.TrimPrefix(k, p)
	return strings.TrimLeft(k, "/")
}
