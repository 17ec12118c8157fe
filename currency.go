package bookkeeping

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// IsCurrency reports whether code is a known ISO 4217 currency code.
func IsCurrency(code string) bool { return money.GetCurrency(code) != nil }

// ValidateCurrency returns an error if code is not a known ISO 4217 code.
func ValidateCurrency(code string) error {
	if len(code) != 3 || !IsCurrency(code) {
		return fmt.Errorf("invalid currency code %q", code)
	}
	return nil
}

// FormatMoney formats amount with the symbol and separators of currency.
// The amount is rounded half-even to the currency minor unit. Unknown
// currencies are printed as a plain number followed by the code.
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixedBank(DefaultScale) + " " + currency
	}
	minor := amount.RoundBank(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}
