package bookkeeping

import (
	"time"

	"github.com/shopspring/decimal"
)

// D is a helper for test to create decimals from const strings.
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// day is a helper for test to create trade dates.
func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// lotsOf renders lots as "remaining@price" strings for compact assertions.
func lotsOf(lots []Lot) []string {
	out := make([]string, len(lots))
	for i, l := range lots {
		out[i] = l.Remaining.String() + "@" + l.Price.String()
	}
	return out
}
