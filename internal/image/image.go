// Package image decodes recipe images sent as base64 data URIs and
// defines the storage interface the drivers implement.
package image

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	magicNumberSeek = 512
	dataURIScheme   = "data:"
	base64Marker    = ";base64,"

	// MaxSize bounds a decoded image.
	MaxSize = 10 << 20
)

// allowedImageTypes lists the simple MIME types we accept.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var mimeTypeSuffix = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var (
	ErrUnsupportedMimeType = errors.New("unsupported mime type")
	ErrMalformedDataURI    = errors.New("malformed data uri")
	ErrEmptyImage          = errors.New("image is empty")
	ErrTooLarge            = errors.New("image too large")
)

// Store persists recipe images. Keys returned by WriteRecipeImage are
// what gets saved on the recipe row.
type Store interface {
	WriteRecipeImage(ctx context.Context, suffix string, data []byte) (key string, err error)
	DeleteKey(ctx context.Context, key string) error
	FileURL(key string) string
}

type File struct {
	Size     int64
	Data     []byte
	Suffix   string
	MimeType string
}

// DecodeDataURI parses "data:image/<type>;base64,<payload>". The
// declared type is ignored in favour of the sniffed content type.
func DecodeDataURI(uri string) (*File, error) {
	uri = strings.TrimSpace(uri)
	if !strings.HasPrefix(uri, dataURIScheme) {
		return nil, ErrMalformedDataURI
	}
	header, payload, ok := strings.Cut(uri[len(dataURIScheme):], base64Marker)
	if !ok || !strings.HasPrefix(header, "image/") {
		return nil, ErrMalformedDataURI
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxSize {
		return nil, ErrTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.Join(ErrMalformedDataURI, err)
	}

	return sniff(data)
}

func sniff(data []byte) (*File, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	contentType := http.DetectContentType(data[:min(len(data), magicNumberSeek)])
	if !allowedImageTypes[contentType] {
		return nil, fmt.Errorf("mime type %q: %w", contentType, ErrUnsupportedMimeType)
	}

	return &File{
		Size:     int64(len(data)),
		MimeType: contentType,
		Suffix:   mimeTypeSuffix[contentType],
		Data:     data,
	}, nil
}
