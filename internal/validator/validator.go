package validator

import (
	"fmt"

	"github.com/bkarakus/cinema-booking-system/internal/domain"
	"github.com/go-playground/validator/v10"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("payment_method", validatePaymentMethod)

	return validator
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	method := domain.PaymentMethod(fl.Field().String())

	return method == domain.PaymentMethodCard ||
		method == domain.PaymentMethodCash ||
		method == domain.PaymentMethodOnline
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "dive":
		return "contains an invalid element"
	case "payment_method":
		return "must be one of: card, cash, online"
	default:
		return "is invalid"
	}
}
