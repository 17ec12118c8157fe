package bookkeeping

import (
	"fmt"
	"iter"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Options are the engine settings.
type Options struct {
	// Currency is the base currency. A ticker equal to it is always a cash
	// position.
	Currency string
	// Valuation replaces DefaultValuation on sells and withdrawals.
	Valuation InventoryValuation
	// Scale is the number of decimal places of monetary values.
	Scale int32
}

// DefaultOptions returns FIFO valuation at DefaultScale with no base currency.
func DefaultOptions() Options {
	return Options{Valuation: FIFO, Scale: DefaultScale}
}

// PriceSource provides market prices by ticker.
type PriceSource interface {
	Price(ticker string) (MarketPrice, bool)
}

// Builder computes reports from transaction lists.
type Builder struct {
	opts   Options
	prices PriceSource
	now    func() time.Time
	log    zerolog.Logger
}

// NewBuilder returns a Builder using opts. A zero Valuation defaults to FIFO.
func NewBuilder(opts Options, log zerolog.Logger) *Builder {
	if opts.Valuation == DefaultValuation {
		opts.Valuation = FIFO
	}
	return &Builder{opts: opts, now: time.Now, log: log}
}

// WithPrices sets the source of market prices.
func (b *Builder) WithPrices(prices PriceSource) *Builder {
	b.prices = prices
	return b
}

// WithClock sets the clock used to timestamp reports.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build computes the report of txs.
//
// Transactions are validated first; the first invalid one aborts the build.
// The synthetic legs of all transactions are then generated, every position
// receives its real transactions followed by its legs, and each position
// replays its list in trade date order.
func (b *Builder) Build(txs []Transaction) (*Report, error) {
	normalized := make([]Transaction, len(txs))
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("transaction #%d (%v): %w", i+1, tx, err)
		}
		if tx.Type.consumes() && tx.Valuation == DefaultValuation {
			tx.Valuation = b.opts.Valuation
		}
		normalized[i] = tx
	}

	legs := Synthesize(normalized)
	b.log.Debug().Int("transactions", len(normalized)).Int("legs", len(legs)).Msg("synthesized bookkeeping legs")

	currencies := make(map[string]map[string]bool)
	for _, tx := range normalized {
		if currencies[tx.Portfolio] == nil {
			currencies[tx.Portfolio] = make(map[string]bool)
		}
		currencies[tx.Portfolio][tx.Currency] = true
		if tx.Type == Exchange {
			currencies[tx.Portfolio][tx.Ticker] = true
		}
	}

	report := &Report{Generated: b.now(), Currency: b.opts.Currency, index: make(map[string]*Portfolio)}
	streams := make(map[PositionKey][]Transaction)
	var keys []PositionKey // first seen order
	dispatch := func(tx Transaction) {
		key := tx.Key()
		if _, seen := streams[key]; !seen {
			keys = append(keys, key)
		}
		streams[key] = append(streams[key], tx)
	}
	for _, tx := range normalized {
		dispatch(tx)
	}
	for _, leg := range legs {
		dispatch(leg)
	}

	for _, key := range keys {
		stream := streams[key]
		sortByTradeDate(stream)
		cash := key.Ticker == b.opts.Currency || currencies[key.Portfolio][key.Ticker]
		pos := Replay(key, cash, b.opts.Scale, stream)
		b.applyPrice(pos)
		report.portfolio(key.Portfolio).add(pos)
		b.log.Debug().Str("position", key.String()).Bool("cash", cash).Int("transactions", len(stream)).
			Str("quantity", pos.Quantity().String()).Msg("replayed position")
	}
	return report, nil
}

// applyPrice values pos with the price source. Cash positions without a
// quoted price are worth one unit of their own currency.
func (b *Builder) applyPrice(pos *Position) {
	if b.prices != nil {
		if price, ok := b.prices.Price(pos.Ticker()); ok {
			if price.Currency != "" && pos.Currency() != "" && price.Currency != pos.Currency() {
				b.log.Warn().Str("position", pos.Key().String()).Str("price_currency", price.Currency).
					Str("currency", pos.Currency()).Msg("market price is quoted in another currency")
			}
			pos.SetMarketPrice(price)
			return
		}
	}
	if pos.IsCash() {
		pos.SetMarketPrice(MarketPrice{UnitPrice: decimal.NewFromInt(1), Currency: pos.Ticker()})
	}
}

// Report is the computed state of every portfolio, in first seen order.
type Report struct {
	Generated time.Time
	Currency  string

	portfolios []*Portfolio
	index      map[string]*Portfolio
}

func (r *Report) portfolio(name string) *Portfolio {
	if p, ok := r.index[name]; ok {
		return p
	}
	p := &Portfolio{Name: name, index: make(map[string]*Position)}
	r.portfolios = append(r.portfolios, p)
	r.index[name] = p
	return p
}

// Portfolios iterates over the portfolios in first seen order.
func (r *Report) Portfolios() iter.Seq[*Portfolio] {
	return func(yield func(*Portfolio) bool) {
		for _, p := range r.portfolios {
			if !yield(p) {
				return
			}
		}
	}
}

// Portfolio returns the portfolio called name, or nil.
func (r *Report) Portfolio(name string) *Portfolio { return r.index[name] }

// Len returns the number of portfolios.
func (r *Report) Len() int { return len(r.portfolios) }

// Filter returns a report restricted to the named portfolios. No names
// returns r itself.
func (r *Report) Filter(names ...string) *Report {
	if len(names) == 0 {
		return r
	}
	f := &Report{Generated: r.Generated, Currency: r.Currency, index: make(map[string]*Portfolio)}
	for _, name := range names {
		if p, ok := r.index[name]; ok {
			if _, dup := f.index[name]; !dup {
				f.portfolios = append(f.portfolios, p)
				f.index[name] = p
			}
		}
	}
	return f
}

// Portfolio holds the positions of one portfolio, in first seen order.
type Portfolio struct {
	Name string

	positions []*Position
	index     map[string]*Position
}

func (p *Portfolio) add(pos *Position) {
	p.positions = append(p.positions, pos)
	p.index[pos.Ticker()] = pos
}

// Positions iterates over the positions in first seen order.
func (p *Portfolio) Positions() iter.Seq[*Position] {
	return func(yield func(*Position) bool) {
		for _, pos := range p.positions {
			if !yield(pos) {
				return
			}
		}
	}
}

// Position returns the position of ticker, or nil.
func (p *Portfolio) Position(ticker string) *Position { return p.index[ticker] }

// Len returns the number of positions.
func (p *Portfolio) Len() int { return len(p.positions) }

// Total sums the positions of one currency.
//
// A monetary total is absent when no position of the currency defines it.
type Total struct {
	Currency       string
	MarketValue    decimal.NullDecimal
	InvestedAmount decimal.NullDecimal
	ProfitAndLoss  decimal.NullDecimal
	Costs          decimal.Decimal
}

// Totals returns the totals per currency, in first seen order.
func (p *Portfolio) Totals() []Total {
	var totals []Total
	index := make(map[string]int)
	for _, pos := range p.positions {
		i, ok := index[pos.Currency()]
		if !ok {
			i = len(totals)
			index[pos.Currency()] = i
			totals = append(totals, Total{Currency: pos.Currency()})
		}
		t := &totals[i]
		t.MarketValue = addNull(t.MarketValue, pos.MarketValue())
		t.InvestedAmount = addNull(t.InvestedAmount, pos.InvestedAmount())
		t.ProfitAndLoss = addNull(t.ProfitAndLoss, pos.ProfitAndLoss())
		t.Costs = t.Costs.Add(pos.Costs())
	}
	return totals
}

func addNull(a, b decimal.NullDecimal) decimal.NullDecimal {
	switch {
	case !b.Valid:
		return a
	case !a.Valid:
		return b
	default:
		return decimal.NewNullDecimal(a.Decimal.Add(b.Decimal))
	}
}
