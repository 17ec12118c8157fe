// Package market provides market prices to value positions: a static price
// list read from CSV and an HTTP quote source.
package market

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/etnz/bookkeeping"
	"github.com/etnz/bookkeeping/date"
	"github.com/shopspring/decimal"
)

// Prices maps tickers to their latest market price.
type Prices map[string]bookkeeping.MarketPrice

// Price implements bookkeeping.PriceSource.
func (p Prices) Price(ticker string) (bookkeeping.MarketPrice, bool) {
	price, ok := p[ticker]
	return price, ok
}

// Set records price for ticker unless a more recent price is known.
func (p Prices) Set(ticker string, price bookkeeping.MarketPrice) {
	if prev, ok := p[ticker]; ok && prev.Date.After(price.Date) {
		return
	}
	p[ticker] = price
}

// Merge sets every price of other into p.
func (p Prices) Merge(other Prices) {
	for ticker, price := range other {
		p.Set(ticker, price)
	}
}

// LoadCSV reads "ticker,price,currency[,date]" records. A first line whose
// price is not a number is a header and is skipped.
func LoadCSV(r io.Reader) (Prices, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	prices := make(Prices)
	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return prices, nil
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if len(rec) < 3 {
			return nil, fmt.Errorf("line %d: want ticker,price,currency[,date], got %q", line, rec)
		}
		unit, err := decimal.NewFromString(strings.TrimSpace(rec[1]))
		if err != nil {
			if first {
				continue
			}
			return nil, fmt.Errorf("line %d: invalid price %q: %w", line, rec[1], err)
		}
		price := bookkeeping.MarketPrice{UnitPrice: unit, Currency: strings.ToUpper(strings.TrimSpace(rec[2]))}
		if len(rec) > 3 && strings.TrimSpace(rec[3]) != "" {
			if price.Date, err = date.Parse(rec[3]); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}
		prices.Set(strings.TrimSpace(rec[0]), price)
	}
}

// LoadFile reads a price file, see LoadCSV.
func LoadFile(path string) (Prices, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	prices, err := LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read prices %q: %w", path, err)
	}
	return prices, nil
}

// WriteCSV writes the prices sorted by ticker, with a header line.
func (p Prices) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ticker", "price", "currency", "date"}); err != nil {
		return err
	}
	tickers := make([]string, 0, len(p))
	for ticker := range p {
		tickers = append(tickers, ticker)
	}
	slices.Sort(tickers)
	for _, ticker := range tickers {
		price := p[ticker]
		var on string
		if !price.Date.IsZero() {
			on = price.Date.Format(date.Format)
		}
		if err := cw.Write([]string{ticker, price.UnitPrice.String(), price.Currency, on}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
