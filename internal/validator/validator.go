// internal/validator/validator.go
package validator

import (
	"savings-tracker/internal/domain"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New()

	// decimal string strictly greater than zero: "5000", "12.50"
	_ = Validate.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseAmount(fl.Field().String())
		return err == nil
	})
}
