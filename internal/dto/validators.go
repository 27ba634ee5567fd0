package dto

import (
	"reflect"
	"regexp"
	"sync"

	"github.com/SscSPs/customer_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	registerOnce sync.Once
	ifscPattern  = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
)

// RegisterValidators adds the custom binding tags used by request DTOs to gin's validator:
//
//	decimal_gt0     decimal.Decimal strictly greater than zero
//	payment_method  cash, bank, upi or the canonical method names
//	ifsc            Indian Financial System Code
//	tax_pan         PAN number, empty allowed
//	tax_gst         GST number, empty allowed
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})

		_ = v.RegisterValidation("decimal_gt0", func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(fl.Field().String())
			return err == nil && d.IsPositive()
		})
		_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
			_, ok := domain.ParsePaymentMethod(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("ifsc", func(fl validator.FieldLevel) bool {
			return ifscPattern.MatchString(domain.NormalizeTaxID(fl.Field().String()))
		})
		_ = v.RegisterValidation("tax_pan", func(fl validator.FieldLevel) bool {
			s := domain.NormalizeTaxID(fl.Field().String())
			return s == "" || domain.IsValidPAN(s)
		})
		_ = v.RegisterValidation("tax_gst", func(fl validator.FieldLevel) bool {
			s := domain.NormalizeTaxID(fl.Field().String())
			return s == "" || domain.IsValidGST(s)
		})
	})
}
