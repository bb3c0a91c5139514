// Package objectstore stores recipe images in an S3 compatible bucket,
// either through the MinIO client or the AWS SDK.
package objectstore

import (
	"crypto/rand"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	imagesPrefix = "recipes/images"
	cacheControl = "public, max-age=31536000"
)

func newKey(suffix string) (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generating object key: %w", err)
	}
	return path.Join(imagesPrefix, strings.ToLower(id.String())+suffix), nil
}

func objectURL(publicURL, key string) string {
	return strings.TrimRight(publicURL, "/") + "/" + strings.TrimLeft(key, "/")
}

func contentType(suffix string) string {
	switch suffix {
	case ".jpg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	}
	return "application/octet-stream"
}
