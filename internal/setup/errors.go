package setup

import (
	"errors"
	"fmt"
)

var ErrDatabaseNotConfigured = errors.New("database connection is not configured")

type UnsupportedDriverError struct {
	Driver string
}

func (e *UnsupportedDriverError) Error() string {
	return fmt.Sprintf("unsupported image driver %q", e.Driver)
}
