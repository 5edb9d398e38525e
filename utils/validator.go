package utils

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report json names so local and backend field errors share keys.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// ValidateStruct validates a struct and returns formatted errors
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// FieldErrors turns a validation failure into the field -> message map used
// by every form. Non-validation errors yield nil.
func FieldErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Field()] = formatValidationError(e)
	}
	return fields
}

// ValidationErrorResponse sends a formatted validation error response
func ValidationErrorResponse(c *gin.Context, err error) {
	if fields := FieldErrors(err); fields != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"errors":       fields,
			"notification": gin.H{"message": "Please fix the highlighted fields", "severity": "warning"},
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func formatValidationError(e validator.FieldError) string {
	if e.Field() == "rating" {
		return "Please select a rating between 1 and 10"
	}
	switch e.Tag() {
	case "required", "required_with":
		return fieldLabel(e.Field()) + " is required"
	case "email":
		return "Please enter a valid email address"
	case "min":
		if e.Kind() == reflect.Slice {
			return fieldLabel(e.Field()) + " must have at least " + e.Param() + " item(s)"
		}
		return fieldLabel(e.Field()) + " must be at least " + e.Param() + " characters"
	case "max":
		return fieldLabel(e.Field()) + " must be at most " + e.Param() + " characters"
	case "gte":
		if e.Param() == "0" {
			return fieldLabel(e.Field()) + " must be non-negative"
		}
		return fieldLabel(e.Field()) + " must be at least " + e.Param()
	case "lte":
		if e.Field() == "price" {
			return "Max price is $250"
		}
		return fieldLabel(e.Field()) + " must be at most " + e.Param()
	case "nefield":
		return "New password must be different from current password"
	default:
		return fieldLabel(e.Field()) + " is invalid"
	}
}

var fieldLabels = map[string]string{
	"title":           "Title",
	"description":     "Description",
	"genreId":         "Genre",
	"price":           "Price",
	"platformIds":     "Platforms",
	"rating":          "Rating",
	"review":          "Review",
	"firstName":       "First name",
	"lastName":        "Last name",
	"email":           "Email",
	"password":        "Password",
	"currentPassword": "Current password",
}

func fieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}
