package bookkeeping

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Lot is a quantity of units still held from purchases at a given unit price.
type Lot struct {
	Price     decimal.Decimal
	Remaining decimal.Decimal
}

// Supply is the ordered collection of open lots of a position.
//
// It behaves like a map from price to remaining quantity that keeps the
// order of first insertion. Lots consumed down to zero stay in place.
type Supply struct {
	lots []Lot
}

// Open records the purchase of quantity units at price. Purchases at a price
// already present are merged into the existing lot.
func (s *Supply) Open(price, quantity decimal.Decimal) {
	for i := range s.lots {
		if s.lots[i].Price.Equal(price) {
			s.lots[i].Remaining = s.lots[i].Remaining.Add(quantity)
			return
		}
	}
	s.lots = append(s.lots, Lot{Price: price, Remaining: quantity})
}

// Consume removes quantity units from the supply.
//
// FIFO walks the lots from the last inserted to the first, LIFO from the
// first to the last. Each visited lot absorbs what it can; the scan stops at
// the first lot left with a non-negative remainder. Consuming more than the
// supply holds zeroes every lot.
func (s *Supply) Consume(quantity decimal.Decimal, valuation InventoryValuation) {
	order := func(yield func(int) bool) {
		for i := len(s.lots) - 1; i >= 0; i-- {
			if !yield(i) {
				return
			}
		}
	}
	if valuation == LIFO {
		order = func(yield func(int) bool) {
			for i := range s.lots {
				if !yield(i) {
					return
				}
			}
		}
	}

	for i := range order {
		rest := s.lots[i].Remaining.Sub(quantity)
		if !rest.IsNegative() {
			s.lots[i].Remaining = rest
			return
		}
		s.lots[i].Remaining = decimal.Zero
		quantity = rest.Abs()
	}
}

// AveragePrice returns the weighted average price of the remaining units.
// It is absent when nothing remains.
func (s *Supply) AveragePrice() decimal.NullDecimal {
	invested, remaining := decimal.Zero, decimal.Zero
	for _, l := range s.lots {
		invested = invested.Add(l.Price.Mul(l.Remaining))
		remaining = remaining.Add(l.Remaining)
	}
	if remaining.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(invested.Div(remaining))
}

// Remaining returns the total remaining quantity.
func (s *Supply) Remaining() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lots {
		total = total.Add(l.Remaining)
	}
	return total
}

// Lots returns a copy of the lots in insertion order.
func (s *Supply) Lots() []Lot { return slices.Clone(s.lots) }
