package payment

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Amounts are whole units of the currency (won, dollars, yen), the integer
// the gateway confirms against. Fraction digits only matter for display.
type currencyFormat struct {
	locale         language.Tag
	symbol         string
	fractionDigits int
	minimum        int64
}

var currencyFormats = map[string]currencyFormat{
	"KRW": {locale: language.Korean, symbol: "₩", fractionDigits: 0, minimum: 100},
	"USD": {locale: language.AmericanEnglish, symbol: "$", fractionDigits: 2, minimum: 1},
	"JPY": {locale: language.Japanese, symbol: "¥", fractionDigits: 0, minimum: 100},
}

var ErrInvalidAmount = errors.New("invalid amount")

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// SupportedCurrency reports whether the checkout accepts the currency code.
func SupportedCurrency(currency string) bool {
	_, ok := currencyFormats[strings.ToUpper(currency)]
	return ok
}

// FormatPrice renders an amount with the currency's home locale, e.g.
// ₩50,000, $1,234.00, ¥3,000.
func FormatPrice(amount int64, currency string) string {
	code := strings.ToUpper(currency)
	f, ok := currencyFormats[code]
	if !ok {
		return message.NewPrinter(language.English).Sprintf("%v %s", number.Decimal(amount), code)
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	p := message.NewPrinter(f.locale)
	return sign + f.symbol + p.Sprintf("%v", number.Decimal(amount, number.Scale(f.fractionDigits)))
}

// ParseAmount normalizes an amount received as text ("50000", " 50000 ", "1e3")
// into the integer the gateway expects. Fractional amounts are rejected.
func ParseAmount(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: %s is not a whole amount", ErrInvalidAmount, value)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("%w: %s must be positive", ErrInvalidAmount, value)
	}
	// IntPart wraps silently past int64.
	if d.GreaterThan(maxAmount) {
		return 0, fmt.Errorf("%w: %s is too large", ErrInvalidAmount, value)
	}
	return d.IntPart(), nil
}
