package model

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidations installs the booking_status rule on gin's binding
// engine so request DTOs can reject unknown statuses at bind time.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("booking_status", func(fl validator.FieldLevel) bool {
		return BookingStatus(fl.Field().String()).Valid()
	})
}
