package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validationError turns the first validator failure into a short client
// facing message like "name is required".
func validationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		field := strings.ToLower(ve[0].Field())
		if ve[0].Tag() == "required" {
			return field + " is required"
		}
		return field + " is invalid"
	}
	return "invalid input"
}
