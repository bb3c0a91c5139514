package recipe

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/matt-dz/foodgram/internal/apperr"
	"github.com/matt-dz/foodgram/internal/image"
)

const (
	fieldCookingTime = "cooking_time"
	fieldTags        = "tags"
	fieldIngredients = "ingredients"
	fieldImage       = "image"
	fieldName        = "name"
)

// IngredientAmount references an existing ingredient and the amount of
// it a recipe uses.
type IngredientAmount struct {
	ID     int64 `json:"id"`
	Amount int32 `json:"amount"`
}

type CreateRequest struct {
	Ingredients []IngredientAmount `json:"ingredients"`
	Tags        []int64            `json:"tags"`
	Image       string             `json:"image"`
	Name        string             `json:"name" validate:"required,max=200"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int32              `json:"cooking_time"`
}

// UpdateRequest has PATCH semantics: nil fields are left unchanged and
// a present tag or ingredient list replaces the stored one.
type UpdateRequest struct {
	Ingredients *[]IngredientAmount `json:"ingredients"`
	Tags        *[]int64            `json:"tags"`
	Image       *string             `json:"image"`
	Name        *string             `json:"name" validate:"omitnil,required,max=200"`
	Text        *string             `json:"text" validate:"omitnil,required"`
	CookingTime *int32              `json:"cooking_time"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

// fieldError turns the first validator failure into a ValidationError.
func fieldError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return apperr.Validation(fe.Field(), "this field is required")
	case "max":
		return apperr.Validation(fe.Field(), fmt.Sprintf("ensure this field has no more than %s characters", fe.Param()))
	default:
		return apperr.Validation(fe.Field(), "invalid value")
	}
}

func validateCookingTime(minutes int32) error {
	if minutes < 1 {
		return apperr.Validation(fieldCookingTime, "must be at least 1")
	}
	return nil
}

func validateTags(ids []int64) error {
	if len(ids) == 0 {
		return apperr.Validation(fieldTags, "at least one tag is required")
	}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return apperr.Validation(fieldTags, fmt.Sprintf("tag %d is listed more than once", id))
		}
		seen[id] = struct{}{}
	}
	return nil
}

func validateIngredients(items []IngredientAmount) error {
	if len(items) == 0 {
		return apperr.Validation(fieldIngredients, "at least one ingredient is required")
	}
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			return apperr.Validation(fieldIngredients, fmt.Sprintf("ingredient %d is listed more than once", item.ID))
		}
		seen[item.ID] = struct{}{}
		if item.Amount < 1 {
			return apperr.Validation(fieldIngredients, fmt.Sprintf("amount of ingredient %d must be at least 1", item.ID))
		}
	}
	return nil
}

func decodeImage(uri string) (*image.File, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, apperr.Validation(fieldImage, "this field is required")
	}
	file, err := image.DecodeDataURI(uri)
	switch {
	case errors.Is(err, image.ErrUnsupportedMimeType):
		return nil, apperr.Validation(fieldImage, "unsupported image type")
	case errors.Is(err, image.ErrTooLarge):
		return nil, apperr.Validation(fieldImage, "image is too large")
	case err != nil:
		return nil, apperr.Validation(fieldImage, "image must be a base64 data uri")
	}
	return file, nil
}

// Validate checks the request in the order cooking time, tags,
// ingredients, then the remaining scalar fields and the image.
func (r *CreateRequest) Validate() (*image.File, error) {
	r.Name, r.Text = strings.TrimSpace(r.Name), strings.TrimSpace(r.Text)

	if err := validateCookingTime(r.CookingTime); err != nil {
		return nil, err
	}
	if err := validateTags(r.Tags); err != nil {
		return nil, err
	}
	if err := validateIngredients(r.Ingredients); err != nil {
		return nil, err
	}
	if err := validate.Struct(r); err != nil {
		return nil, fieldError(err)
	}
	return decodeImage(r.Image)
}

// Validate checks the fields that are present. The returned file is nil
// when the image is unchanged.
func (r *UpdateRequest) Validate() (*image.File, error) {
	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
	}
	if r.Text != nil {
		*r.Text = strings.TrimSpace(*r.Text)
	}

	if r.CookingTime != nil {
		if err := validateCookingTime(*r.CookingTime); err != nil {
			return nil, err
		}
	}
	if r.Tags != nil {
		if err := validateTags(*r.Tags); err != nil {
			return nil, err
		}
	}
	if r.Ingredients != nil {
		if err := validateIngredients(*r.Ingredients); err != nil {
			return nil, err
		}
	}
	if err := validate.Struct(r); err != nil {
		return nil, fieldError(err)
	}
	if r.Image == nil {
		return nil, nil
	}
	return decodeImage(*r.Image)
}
