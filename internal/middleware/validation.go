package middleware

import (
	"errors"
	"io"

	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindJSON decodes the request body into obj and answers 400 on failure.
// It returns false when the handler must stop.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleAPIError(c, bindingError(err))
		return false
	}
	return true
}

// BindOptionalJSON is BindJSON for endpoints where an absent body keeps obj
// at its zero value. Chunked requests carry no length, so the decoder decides.
func BindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		HandleAPIError(c, bindingError(err))
		return false
	}
	return true
}

func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		messages := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			messages = append(messages, formatValidationError(fe))
		}
		return apperrors.NewValidationError(messages...)
	}
	if errors.Is(err, io.EOF) {
		return apperrors.NewBadRequestError("Request body is required.")
	}
	return apperrors.NewBadRequestError("Invalid request format.")
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required."
	case "min":
		return e.Field() + " must be at least " + e.Param() + "."
	case "max":
		return e.Field() + " must be at most " + e.Param() + "."
	case "email":
		return e.Field() + " must be a valid email address."
	case "oneof":
		return e.Field() + " must be one of: " + e.Param() + "."
	default:
		return e.Field() + " is not valid."
	}
}
