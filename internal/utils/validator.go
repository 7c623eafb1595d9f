// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var skuPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("sku", validateSKU)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// SKUs are catalog codes: letters, digits, dots, dashes and underscores,
// starting with an alphanumeric character.
func validateSKU(fl validator.FieldLevel) bool {
	sku := fl.Field().String()

	if len(sku) == 0 || len(sku) > 100 {
		return false
	}

	return skuPattern.MatchString(sku)
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "sku":
		return "SKU may contain only letters, digits, dots, dashes and underscores (max 100 characters)"
	default:
		return e.Field() + " is invalid"
	}
}
