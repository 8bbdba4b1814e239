package serverutils

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRequest runs struct-tag validation on a decoded request body.
// The returned error is a validator.ValidationErrors, which the error
// middleware turns into a 400 with per-field messages.
func ValidateRequest(req any) error {
	return validate.Struct(req)
}
