package ledgerdelivery

import (
	"github.com/go-playground/validator/v10"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/currencies"
)

// ValidCurrency validates whether the currency is registered in the catalog.
func ValidCurrency(catalog *currencies.Catalog) validator.Func {
	return func(fl validator.FieldLevel) bool {
		if c, ok := fl.Field().Interface().(string); ok {
			return catalog.Has(c)
		}

		return false
	}
}
