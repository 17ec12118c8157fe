package bookkeeping

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultScale is the number of decimal places monetary values are rounded
// to when no scale is configured.
const DefaultScale = 2

var hundred = decimal.NewFromInt(100)

// rule is the behaviour of one transaction type on a position.
type rule struct {
	input  bool // may appear in source records
	priced bool // requires a price in source records

	// delta is the signed change of the position quantity.
	delta func(tx Transaction) decimal.Decimal
	// lots applies the transaction to the supply; unit is the price of an
	// opening transaction that has none.
	lots func(s *Supply, tx Transaction, unit decimal.Decimal)
	// cash is the value of the transaction in the cash ledger of ticker.
	cash func(tx Transaction, ticker string) decimal.Decimal
}

func plus(tx Transaction) decimal.Decimal  { return tx.Quantity }
func minus(tx Transaction) decimal.Decimal { return tx.Quantity.Neg() }

func open(s *Supply, tx Transaction, unit decimal.Decimal) {
	price := unit
	if tx.Price.Valid {
		price = tx.Price.Decimal
	}
	s.Open(price, tx.Quantity)
}

func consume(s *Supply, tx Transaction, _ decimal.Decimal) { s.Consume(tx.Quantity, tx.Valuation) }

// cash values count a missing price as one cash unit, see Transaction.Amount.
func inflow(tx Transaction, _ string) decimal.Decimal  { return tx.Amount() }
func outflow(tx Transaction, _ string) decimal.Decimal { return tx.Amount().Neg() }

var rules = map[TransactionType]rule{
	Buy:        {input: true, priced: true, delta: plus, lots: open, cash: outflow},
	Deposit:    {input: true, delta: plus, lots: open, cash: inflow},
	Sell:       {input: true, priced: true, delta: minus, lots: consume, cash: inflow},
	Withdrawal: {input: true, delta: minus, lots: consume, cash: outflow},
	Fee:        {input: true, delta: minus, cash: outflow},
	Dividend:   {input: true, priced: true, cash: inflow},
	Debit: {
		delta: func(tx Transaction) decimal.Decimal { return tx.Amount().Neg() },
		cash:  outflow,
	},
	Credit: {
		delta: func(tx Transaction) decimal.Decimal { return tx.Amount() },
		lots:  open,
		cash:  inflow,
	},
	Exchange: {
		input:  true,
		priced: true,
		cash: func(tx Transaction, ticker string) decimal.Decimal {
			if tx.Ticker == ticker {
				return tx.Quantity.Neg()
			}
			return tx.Amount()
		},
	},
	Unknown: {},
}

// ruleFor returns the rule of t, types without one leave positions untouched.
func ruleFor(t TransactionType) rule {
	r := rules[t]
	if r.delta == nil {
		r.delta = func(Transaction) decimal.Decimal { return decimal.Zero }
	}
	if r.cash == nil {
		r.cash = func(Transaction, string) decimal.Decimal { return decimal.Zero }
	}
	return r
}

// MarketPrice is the latest known unit price of a ticker.
type MarketPrice struct {
	UnitPrice decimal.Decimal
	Currency  string
	Date      time.Time
}

// Position is the aggregated state of one product or currency within one
// portfolio.
//
// Every Add recomputes the supply, the average price and the accumulators
// from the full transaction lists; nothing is patched incrementally.
type Position struct {
	key   PositionKey
	cash  bool
	scale int32

	quantity     decimal.Decimal
	averagePrice decimal.NullDecimal
	deposits     decimal.Decimal
	withdrawals  decimal.Decimal
	costs        decimal.Decimal
	marketPrice  *MarketPrice

	supply       Supply
	transactions []Transaction // since the quantity last returned to zero
	history      []Transaction // everything, never cleared
}

// NewPosition returns an empty position. cash marks a currency position,
// scale is the rounding scale of its monetary values.
func NewPosition(key PositionKey, cash bool, scale int32) *Position {
	return &Position{key: key, cash: cash, scale: scale}
}

// Replay returns a new position built by adding txs in order.
func Replay(key PositionKey, cash bool, scale int32, txs []Transaction) *Position {
	p := NewPosition(key, cash, scale)
	for _, tx := range txs {
		p.Add(tx)
	}
	return p
}

// Add appends tx to the position and recomputes every derived value.
func (p *Position) Add(tx Transaction) {
	p.history = append(p.history, tx)
	p.transactions = append(p.transactions, tx)

	p.quantity = p.quantity.Add(ruleFor(tx.Type).delta(tx))
	if p.quantity.IsZero() {
		// a new holding period starts with an empty basis.
		p.transactions = nil
	}

	unit := decimal.Zero
	if p.cash {
		unit = decimal.NewFromInt(1)
	}
	p.supply = Supply{}
	for _, t := range p.transactions {
		if r := ruleFor(t.Type); r.lots != nil {
			r.lots(&p.supply, t, unit)
		}
	}

	if p.cash {
		p.averagePrice = p.cashAveragePrice()
	} else {
		p.averagePrice = p.supply.AveragePrice()
	}

	p.costs, p.deposits, p.withdrawals = decimal.Zero, decimal.Zero, decimal.Zero
	for _, t := range p.history {
		if t.Fee.Valid {
			p.costs = p.costs.Add(t.Fee.Decimal)
		}
		switch t.Type {
		case Deposit:
			p.deposits = p.deposits.Add(t.Quantity)
		case Withdrawal:
			p.withdrawals = p.withdrawals.Add(t.Quantity)
		}
	}
}

// cashAveragePrice values the active transactions with the cash ledger
// mapping and spreads the value over the held quantity.
func (p *Position) cashAveragePrice() decimal.NullDecimal {
	value := decimal.Zero
	for _, t := range p.transactions {
		value = value.Add(ruleFor(t.Type).cash(t, p.key.Ticker))
	}
	if p.quantity.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(value.Div(p.quantity))
}

// Key returns the position key.
func (p *Position) Key() PositionKey { return p.key }

// Portfolio returns the name of the portfolio holding the position.
func (p *Position) Portfolio() string { return p.key.Portfolio }

// Ticker returns the product symbol, or the currency code of a cash position.
func (p *Position) Ticker() string { return p.key.Ticker }

// IsCash reports whether the position is a currency position.
func (p *Position) IsCash() bool { return p.cash }

// Scale returns the rounding scale of monetary values.
func (p *Position) Scale() int32 { return p.scale }

// Currency returns the settlement currency of the position.
func (p *Position) Currency() string {
	if p.cash {
		return p.key.Ticker
	}
	if len(p.history) == 0 {
		return ""
	}
	return p.history[0].Currency
}

// Quantity returns the signed running quantity.
func (p *Position) Quantity() decimal.Decimal { return p.quantity }

// AveragePrice returns the average price of the held units. It is absent
// when the position holds nothing since its last zero crossing.
func (p *Position) AveragePrice() decimal.NullDecimal { return p.averagePrice }

// Deposits returns the lifetime sum of deposited quantities.
func (p *Position) Deposits() decimal.Decimal { return p.deposits }

// Withdrawals returns the lifetime sum of withdrawn quantities.
func (p *Position) Withdrawals() decimal.Decimal { return p.withdrawals }

// Costs returns the lifetime sum of fees.
func (p *Position) Costs() decimal.Decimal { return p.costs }

// Lots returns the open lots of the current holding period.
func (p *Position) Lots() []Lot { return p.supply.Lots() }

// Transactions returns the transactions since the quantity last returned to
// zero.
func (p *Position) Transactions() []Transaction { return slices.Clone(p.transactions) }

// TransactionHistory returns every transaction added to the position.
func (p *Position) TransactionHistory() []Transaction { return slices.Clone(p.history) }

// SetMarketPrice sets the price used to value the position.
func (p *Position) SetMarketPrice(price MarketPrice) { p.marketPrice = &price }

// MarketPrice returns the market price, if any.
func (p *Position) MarketPrice() (MarketPrice, bool) {
	if p.marketPrice == nil {
		return MarketPrice{}, false
	}
	return *p.marketPrice, true
}

func (p *Position) round(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(d.RoundBank(p.scale))
}

// MarketValue returns quantity × market price.
func (p *Position) MarketValue() decimal.NullDecimal {
	if p.marketPrice == nil {
		return decimal.NullDecimal{}
	}
	return p.round(p.quantity.Mul(p.marketPrice.UnitPrice))
}

// InvestedAmount returns quantity × average price. Cash positions have none.
func (p *Position) InvestedAmount() decimal.NullDecimal {
	if p.cash || !p.averagePrice.Valid {
		return decimal.NullDecimal{}
	}
	return p.round(p.quantity.Mul(p.averagePrice.Decimal))
}

// ProfitAndLoss returns market value − invested amount.
func (p *Position) ProfitAndLoss() decimal.NullDecimal {
	mv, inv := p.MarketValue(), p.InvestedAmount()
	if !mv.Valid || !inv.Valid {
		return decimal.NullDecimal{}
	}
	return p.round(mv.Decimal.Sub(inv.Decimal))
}

// ProfitAndLossPercent returns market value / invested amount × 100.
func (p *Position) ProfitAndLossPercent() decimal.NullDecimal {
	mv, inv := p.MarketValue(), p.InvestedAmount()
	if !mv.Valid || !inv.Valid || inv.Decimal.IsZero() {
		return decimal.NullDecimal{}
	}
	return p.round(mv.Decimal.Div(inv.Decimal).Mul(hundred))
}
