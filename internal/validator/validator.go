package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/cinex-booking/api"
)

const (
	ErrRequired       = "is required"
	ErrInvalidEmail   = "must be a valid email address"
	ErrMinLength      = "must be at least %s"
	ErrMaxLength      = "must be at most %s"
	ErrSeatRow        = "must be a single uppercase letter"
	ErrPaymentMethod  = "must be one of card, momo, zalopay, vnpay"
	ErrDefaultInvalid = "is invalid"
)

var seatRowRgx = regexp.MustCompile(`^[A-Z]$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their JSON names
	validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	validator.RegisterValidation("seat_row", validateSeatRow)
	validator.RegisterValidation("payment_method", validatePaymentMethod)

	return validator
}

func validateSeatRow(fl validator.FieldLevel) bool {
	return seatRowRgx.MatchString(fl.Field().String())
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	method, ok := fl.Field().Interface().(api.PaymentMethod)
	if !ok {
		return false
	}

	switch method {
	case api.Card, api.Momo, api.ZaloPay, api.VNPay:
		return true
	default:
		return false
	}
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "email":
		return ErrInvalidEmail
	case "min":
		return fmt.Sprintf(ErrMinLength, err.Param())
	case "max":
		return fmt.Sprintf(ErrMaxLength, err.Param())
	case "seat_row":
		return ErrSeatRow
	case "payment_method":
		return ErrPaymentMethod
	default:
		return ErrDefaultInvalid
	}
}
