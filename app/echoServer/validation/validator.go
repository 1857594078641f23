package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// EfiPay's decimal string form: integer part up to 10 digits, cents
// always present.
var amountRe = regexp.MustCompile(`^\d{1,10}\.\d{2}$`)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("pixamount", func(fl validator.FieldLevel) bool {
		return amountRe.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}

// Core exposes the underlying instance for controllers that run field
// validation themselves.
func (v *Validator) Core() *validator.Validate { return v.v }
