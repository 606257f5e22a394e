package utils

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators installs the `msisdn` tag: an optional leading +
// followed by 10 to 15 digits.
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("msisdn", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if len(value) > 0 && value[0] == '+' {
			value = value[1:]
		}
		if len(value) < 10 || len(value) > 15 {
			return false
		}
		for _, r := range value {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})
}
