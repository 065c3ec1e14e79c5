package utils

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// UseJSONFieldNames makes validation errors report the json tag of a field
// (product_id) instead of its Go name (ProductID).
func UseJSONFieldNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// SanitizeValidationError takes a validator error and returns a user-friendly message
// without leaking internal Go struct names.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Invalid request body"
	}

	var messages []string
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "uuid":
			messages = append(messages, fmt.Sprintf("%s must be a valid UUID", field))
		case "min":
			if isNumeric(fe.Kind()) {
				messages = append(messages, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
			} else {
				messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
			}
		case "max":
			if isNumeric(fe.Kind()) {
				messages = append(messages, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
			} else {
				messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
			}
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}

	if len(messages) == 0 {
		return "Invalid request body"
	}

	return strings.Join(messages, "; ")
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
