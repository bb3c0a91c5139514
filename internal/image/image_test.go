package image

import (
	"encoding/base64"
	"errors"
	"testing"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestDecodeDataURI(t *testing.T) {
	pngPayload := base64.StdEncoding.EncodeToString(pngHeader)
	gifPayload := base64.StdEncoding.EncodeToString([]byte("GIF89a......"))
	textPayload := base64.StdEncoding.EncodeToString([]byte("hello world"))

	tests := []struct {
		name       string
		uri        string
		wantErr    error
		wantSuffix string
		wantMime   string
	}{
		{
			name:       "png",
			uri:        "data:image/png;base64," + pngPayload,
			wantSuffix: ".png",
			wantMime:   "image/png",
		},
		{
			name:       "declared type is not trusted",
			uri:        "data:image/jpeg;base64," + gifPayload,
			wantSuffix: ".gif",
			wantMime:   "image/gif",
		},
		{
			name:    "missing scheme",
			uri:     "image/png;base64," + pngPayload,
			wantErr: ErrMalformedDataURI,
		},
		{
			name:    "not base64 encoded",
			uri:     "data:image/png," + pngPayload,
			wantErr: ErrMalformedDataURI,
		},
		{
			name:    "non image declared type",
			uri:     "data:text/plain;base64," + textPayload,
			wantErr: ErrMalformedDataURI,
		},
		{
			name:    "bad base64",
			uri:     "data:image/png;base64,%%%",
			wantErr: ErrMalformedDataURI,
		},
		{
			name:    "empty payload",
			uri:     "data:image/png;base64,",
			wantErr: ErrEmptyImage,
		},
		{
			name:    "content is not an image",
			uri:     "data:image/png;base64," + textPayload,
			wantErr: ErrUnsupportedMimeType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := DecodeDataURI(tt.uri)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeDataURI() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeDataURI() unexpected error: %v", err)
			}
			if f.Suffix != tt.wantSuffix {
				t.Errorf("suffix = %q, want %q", f.Suffix, tt.wantSuffix)
			}
			if f.MimeType != tt.wantMime {
				t.Errorf("mime = %q, want %q", f.MimeType, tt.wantMime)
			}
			if f.Size != int64(len(f.Data)) {
				t.Errorf("size = %d, data len = %d", f.Size, len(f.Data))
			}
		})
	}
}
