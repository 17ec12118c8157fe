package bookkeeping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCurrency(t *testing.T) {
	for _, code := range []string{"EUR", "USD", "JPY", "CHF"} {
		assert.NoError(t, ValidateCurrency(code), code)
		assert.True(t, IsCurrency(code), code)
	}
	for _, code := range []string{"", "EU", "EURO", "ZZZ", "AAPL"} {
		assert.Error(t, ValidateCurrency(code), code)
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Contains(t, FormatMoney(D("1234.565"), "USD"), "1,234.56")
	assert.Contains(t, FormatMoney(D("1234.575"), "USD"), "1,234.58")
	assert.Contains(t, FormatMoney(D("12.5"), "JPY"), "12")
	assert.NotContains(t, FormatMoney(D("12.5"), "JPY"), "12.")
	assert.Equal(t, "12.34 ZZZ", FormatMoney(D("12.345"), "ZZZ"))
}
