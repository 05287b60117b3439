package handler

import (
	"errors"
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"gstdesk/internal/gst"
)

// RegisterValidators adds the GST-specific tags used in request DTOs to gin's
// validator: gstrate, statecode and period.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("handler: gin validator engine is not validator/v10")
	}
	return registerOn(v)
}

func registerOn(v *validator.Validate) error {
	validations := map[string]validator.Func{
		"gstrate":   validGSTRate,
		"statecode": validStateCode,
		"period":    validPeriod,
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func validGSTRate(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return gst.Rate(f.Int()).Valid()
	}
	return false
}

func validStateCode(fl validator.FieldLevel) bool {
	return fl.Field().Kind() == reflect.String && gst.ValidStateCode(fl.Field().String())
}

func validPeriod(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	_, err := gst.ParsePeriod(fl.Field().String())
	return err == nil
}
