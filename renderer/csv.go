package renderer

import (
	"encoding/csv"
	"io"

	"github.com/etnz/bookkeeping"
)

func positionHeader(l Labels) []string {
	return []string{
		l.Portfolio, l.Ticker, l.Currency, l.Quantity, l.AveragePrice, l.InvestedAmount,
		l.MarketValue, l.ProfitAndLoss, l.ProfitAndLossPercent, l.Deposits, l.Withdrawals, l.Costs,
	}
}

// CSV writes one row per position with a header line. Absent values are
// empty fields.
func CSV(w io.Writer, r *bookkeeping.Report, opts Options) error {
	v := newReportView(r, opts)
	cw := csv.NewWriter(w)
	if err := cw.Write(positionHeader(v.Labels)); err != nil {
		return err
	}
	for _, p := range v.Portfolios {
		for _, pos := range p.Positions {
			rec := []string{
				p.Name, pos.Ticker, pos.Currency, pos.Quantity, pos.AveragePrice, pos.InvestedAmount,
				pos.MarketValue, pos.ProfitAndLoss, pos.ProfitAndLossPercent, pos.Deposits, pos.Withdrawals, pos.Costs,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
