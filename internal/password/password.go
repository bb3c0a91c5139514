// Package password checks password strength for registration,
// password changes and the bootstrap admin account.
package password

import (
	"errors"
	"regexp"

	passwordvalidator "github.com/wagslane/go-password-validator"
)

const (
	minimumLength      = 10
	maximumLength      = 128
	minimumEntropyBits = 60
)

var (
	ErrTooShort    = errors.New("password must be at least 10 characters long")
	ErrTooLong     = errors.New("password must be at most 128 characters long")
	ErrNoUppercase = errors.New("password must contain at least one uppercase letter")
	ErrNoLowercase = errors.New("password must contain at least one lowercase letter")
	ErrNoDigit     = errors.New("password must contain at least one digit")
	ErrNoSpecial   = errors.New("password must contain at least one special character")
	ErrTooWeak     = errors.New("password is too weak")
)

var classes = []struct {
	re  *regexp.Regexp
	err error
}{
	{regexp.MustCompile(`[A-Z]`), ErrNoUppercase},
	{regexp.MustCompile(`[a-z]`), ErrNoLowercase},
	{regexp.MustCompile(`[0-9]`), ErrNoDigit},
	{regexp.MustCompile(`[!@#$%^&*()\-_=+{};:,.<>/?\\|"'\[\]~]`), ErrNoSpecial},
}

// ValidatePassword returns the first rule password breaks, or nil.
func ValidatePassword(password string) error {
	switch {
	case len(password) < minimumLength:
		return ErrTooShort
	case len(password) > maximumLength:
		return ErrTooLong
	}

	for _, c := range classes {
		if !c.re.MatchString(password) {
			return c.err
		}
	}

	if err := passwordvalidator.Validate(password, minimumEntropyBits); err != nil {
		return errors.Join(ErrTooWeak, err)
	}
	return nil
}
