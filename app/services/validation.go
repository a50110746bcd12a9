package services

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/Rakhulsr/afronectar/app/helpers"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	maxBarcodeDigits = 13
	moneyScale       = 2
)

// NewValidator returns the validator used at the service boundary. Decimal
// fields are compared as float64 so the stock gte/lte tags apply to them, and
// field names are reported by their json names.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("barcode", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Uint, reflect.Uint32, reflect.Uint64:
			return validBarcode(fl.Field().Uint())
		case reflect.Int, reflect.Int32, reflect.Int64:
			n := fl.Field().Int()
			return n > 0 && validBarcode(uint64(n))
		}
		return false
	})

	return v
}

func validBarcode(barcode uint64) bool {
	return barcode > 0 && len(strconv.FormatUint(barcode, 10)) <= maxBarcodeDigits
}

// withinScale reports whether d has no more than places fractional digits.
func withinScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

func validateStruct(v *validator.Validate, input interface{}) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fields := helpers.FormatValidationErrors(verrs)
	field := strings.ToLower(verrs[0].Field())
	return &ValidationError{Field: field, Reason: fields[field], Fields: fields}
}
