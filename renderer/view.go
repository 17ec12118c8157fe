package renderer

import (
	"time"

	"github.com/etnz/bookkeeping"
	"github.com/shopspring/decimal"
)

// Options control rendering.
type Options struct {
	Language string
	// Scale is the number of decimals of prices and amounts.
	Scale int32
}

// DefaultOptions renders English at bookkeeping.DefaultScale.
func DefaultOptions() Options {
	return Options{Language: "en", Scale: bookkeeping.DefaultScale}
}

// reportView is the data of the report templates. Every value is already
// formatted, absent values are empty strings.
type reportView struct {
	Labels     Labels
	Generated  string
	Currency   string
	Portfolios []portfolioView
}

type portfolioView struct {
	Labels    Labels
	Name      string
	Positions []positionView
	Totals    []totalView
}

type positionView struct {
	Ticker               string
	Currency             string
	Cash                 bool
	Quantity             string
	AveragePrice         string
	InvestedAmount       string
	MarketValue          string
	ProfitAndLoss        string
	ProfitAndLossPercent string
	Deposits             string
	Withdrawals          string
	Costs                string
	Transactions         []transactionView
}

type totalView struct {
	Currency       string
	MarketValue    string
	InvestedAmount string
	ProfitAndLoss  string
	Costs          string
}

type transactionView struct {
	Date       string
	Type       string
	Ticker     string
	Quantity   string
	Price      string
	Fee        string
	Currency   string
	Valuation  string
	TransferID string
}

func newReportView(r *bookkeeping.Report, opts Options) reportView {
	v := reportView{
		Labels:    LabelsFor(opts.Language),
		Generated: r.Generated.Format("2006-01-02 15:04"),
		Currency:  r.Currency,
	}
	f := formatter{scale: opts.Scale}
	for p := range r.Portfolios() {
		pv := portfolioView{Labels: v.Labels, Name: p.Name}
		for pos := range p.Positions() {
			pv.Positions = append(pv.Positions, f.position(pos))
		}
		for _, t := range p.Totals() {
			pv.Totals = append(pv.Totals, totalView{
				Currency:       t.Currency,
				MarketValue:    f.money(t.MarketValue, t.Currency),
				InvestedAmount: f.money(t.InvestedAmount, t.Currency),
				ProfitAndLoss:  f.money(t.ProfitAndLoss, t.Currency),
				Costs:          f.money(decimal.NewNullDecimal(t.Costs), t.Currency),
			})
		}
		v.Portfolios = append(v.Portfolios, pv)
	}
	return v
}

type formatter struct{ scale int32 }

// fixed formats d at the rendering scale, or "" when absent.
func (f formatter) fixed(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixedBank(f.scale)
}

// money formats d with the symbol of currency, or "" when absent.
func (f formatter) money(d decimal.NullDecimal, currency string) string {
	if !d.Valid {
		return ""
	}
	return bookkeeping.FormatMoney(d.Decimal, currency)
}

func (f formatter) position(pos *bookkeeping.Position) positionView {
	pv := positionView{
		Ticker:               pos.Ticker(),
		Currency:             pos.Currency(),
		Cash:                 pos.IsCash(),
		Quantity:             pos.Quantity().String(),
		AveragePrice:         f.fixed(pos.AveragePrice()),
		InvestedAmount:       f.fixed(pos.InvestedAmount()),
		MarketValue:          f.fixed(pos.MarketValue()),
		ProfitAndLoss:        f.fixed(pos.ProfitAndLoss()),
		ProfitAndLossPercent: f.fixed(pos.ProfitAndLossPercent()),
		Deposits:             pos.Deposits().String(),
		Withdrawals:          pos.Withdrawals().String(),
		Costs:                pos.Costs().StringFixedBank(f.scale),
	}
	for _, tx := range pos.TransactionHistory() {
		pv.Transactions = append(pv.Transactions, transaction(tx))
	}
	return pv
}

func transaction(tx bookkeeping.Transaction) transactionView {
	tv := transactionView{
		Date:       tx.TradeDate.Format(time.DateOnly),
		Type:       string(tx.Type),
		Ticker:     tx.Ticker,
		Quantity:   tx.Quantity.String(),
		Currency:   tx.Currency,
		Valuation:  tx.Valuation.String(),
		TransferID: tx.TransferID,
	}
	if tx.Price.Valid {
		tv.Price = tx.Price.Decimal.String()
	}
	if tx.Fee.Valid {
		tv.Fee = tx.Fee.Decimal.String()
	}
	return tv
}
