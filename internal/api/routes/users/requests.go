package users

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/matt-dz/foodgram/internal/apperr"
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{M}\p{N}_.@+-]+$`)

type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required"`
}

func (c *CreateUserRequest) trim() {
	c.Email = strings.TrimSpace(c.Email)
	c.Username = strings.TrimSpace(c.Username)
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
}

type CreateUserResponse struct {
	Email     string `json:"email"`
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// validateRequest reports the first failing field as a ValidationError.
func validateRequest(request any) error {
	err := validate.Struct(request)
	if err == nil {
		return nil
	}
	validationErrs, ok := err.(validator.ValidationErrors) //nolint:errorlint
	if !ok || len(validationErrs) == 0 {
		return err
	}
	first := validationErrs[0]
	var msg string
	switch first.Tag() {
	case "required":
		msg = "this field is required"
	case "email":
		msg = "enter a valid email address"
	case "max":
		msg = "ensure this field has no more than " + first.Param() + " characters"
	case "username":
		msg = "letters, digits and @/./+/-/_ only"
	default:
		msg = "invalid value"
	}
	return apperr.Validation(first.Field(), msg)
}
