package serverutils

import (
	"github.com/changzhiho/mini-chatgpt/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks struct tags and converts failures into a
// client-visible validation error before any side effect occurs.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return apperror.Validation(err.Error())
	}
	return nil
}
