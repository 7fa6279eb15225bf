package payment

import (
	"fmt"
	"strings"
)

type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// MinimumAmount returns the smallest chargeable amount for a supported currency.
func MinimumAmount(currency string) (int64, bool) {
	f, ok := currencyFormats[strings.ToUpper(currency)]
	return f.minimum, ok
}

// ValidatePaymentAmount accepts amount >= the currency minimum
// (KRW 100, USD 1, JPY 100). It reports problems in the result, never panics.
func ValidatePaymentAmount(amount int64, currency string) ValidationResult {
	code := strings.ToUpper(currency)
	minimum, ok := MinimumAmount(code)
	if !ok {
		return ValidationResult{Error: fmt.Sprintf("unsupported currency: %s", currency)}
	}
	if amount < minimum {
		return ValidationResult{
			Error: fmt.Sprintf("minimum payment amount is %s", FormatPrice(minimum, code)),
		}
	}
	return ValidationResult{Valid: true}
}
