// Package requestid carries the per-request identifier that is logged
// as log_id and echoed back as error_id.
package requestid

import (
	"context"
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// Header is set on every response.
const Header = "X-Request-Id"

type requestIDKeyType struct{}

var requestIDKey requestIDKeyType

func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// InjectRequestID injects a given requestID into a context.
func InjectRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ExtractRequestID extracts a requestID from a context if it exists.
// If none is found, then "N/A" is returned.
func ExtractRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return "N/A"
}
