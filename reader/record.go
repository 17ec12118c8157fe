package reader

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/bookkeeping"
	"github.com/etnz/bookkeeping/date"
	"github.com/shopspring/decimal"
)

// row is a line of cells, Line is the 1-based position in the source.
type row struct {
	Line  int
	Cells []string
}

// aliases maps accepted header spellings to column names.
var aliases = map[string]string{
	"trade_date": "date",
	"tradedate":  "date",
	"symbol":     "ticker",
	"product":    "ticker",
	"qty":        "quantity",
	"amount":     "quantity",
	"cost":       "fee",
	"costs":      "fee",
	"transferid": "transfer_id",
	"tradeid":    "trade_id",
	"orderid":    "order_id",
	"inventory":  "valuation",
}

var required = []string{"type", "date", "quantity", "currency"}

// header maps column names to cell indexes.
type header map[string]int

func newHeader(cells []string) (header, error) {
	h := make(header, len(cells))
	for i, cell := range cells {
		name := strings.ToLower(strings.TrimSpace(cell))
		name = strings.NewReplacer(" ", "_", "-", "_").Replace(name)
		if alias, ok := aliases[name]; ok {
			name = alias
		}
		if _, dup := h[name]; !dup && name != "" {
			h[name] = i
		}
	}
	for _, col := range required {
		if _, ok := h[col]; !ok {
			return nil, fmt.Errorf("missing column %q in header %q", col, cells)
		}
	}
	return h, nil
}

func (h header) get(cells []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// transactions converts rows, the first one being the header.
func (r *Reader) transactions(ctx context.Context, portfolio string, rows []row) ([]bookkeeping.Transaction, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	h, err := newHeader(rows[0].Cells)
	if err != nil {
		return nil, err
	}
	txs := make([]bookkeeping.Transaction, 0, len(rows)-1)
	for _, rw := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if blank(rw.Cells) {
			r.log.Debug().Int("line", rw.Line).Msg("skipping empty row")
			continue
		}
		tx, err := h.transaction(portfolio, rw.Cells)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", rw.Line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (h header) transaction(portfolio string, cells []string) (tx bookkeeping.Transaction, err error) {
	tx.Portfolio = h.get(cells, "portfolio")
	if tx.Portfolio == "" {
		tx.Portfolio = portfolio
	}

	tx.Type, err = bookkeeping.ParseTransactionType(h.get(cells, "type"))
	if err != nil {
		return tx, err
	}
	if tx.Type.Synthetic() {
		return tx, fmt.Errorf("%w: %s is generated, not read", bookkeeping.ErrInvalidTransactionType, tx.Type)
	}

	if tx.TradeDate, err = parseDate(h.get(cells, "date")); err != nil {
		return tx, err
	}

	tx.Currency = strings.ToUpper(h.get(cells, "currency"))
	if err = bookkeeping.ValidateCurrency(tx.Currency); err != nil {
		return tx, err
	}

	tx.Ticker = h.get(cells, "ticker")
	if tx.Ticker == "" {
		switch tx.Type {
		case bookkeeping.Deposit, bookkeeping.Withdrawal, bookkeeping.Fee:
			tx.Ticker = tx.Currency
		default:
			return tx, fmt.Errorf("%s requires a ticker", tx.Type)
		}
	}

	quantity, err := parseDecimal(h.get(cells, "quantity"))
	if err != nil {
		return tx, fmt.Errorf("invalid quantity: %w", err)
	}
	if !quantity.Valid {
		return tx, fmt.Errorf("missing quantity")
	}
	tx.Quantity = quantity.Decimal.Abs()

	if tx.Price, err = parseDecimal(h.get(cells, "price")); err != nil {
		return tx, fmt.Errorf("invalid price: %w", err)
	}
	if tx.Fee, err = parseDecimal(h.get(cells, "fee")); err != nil {
		return tx, fmt.Errorf("invalid fee: %w", err)
	}
	if tx.Fee.Valid {
		tx.Fee.Decimal = tx.Fee.Decimal.Abs()
	}

	if tx.Valuation, err = bookkeeping.ParseInventoryValuation(h.get(cells, "valuation")); err != nil {
		return tx, err
	}

	tx.TransferID = h.get(cells, "transfer_id")
	tx.TradeID = h.get(cells, "trade_id")
	tx.OrderID = h.get(cells, "order_id")

	return tx, tx.Validate()
}

// parseDecimal parses s, an empty string is an absent value. Spaces are
// ignored. When both "," and "." appear, the last one is the decimal separator
// and the other groups thousands; a repeated separator groups thousands. A
// single comma followed by exactly three digits is rejected as ambiguous.
func parseDecimal(s string) (decimal.NullDecimal, error) {
	s = strings.ReplaceAll(strings.ReplaceAll(s, " ", ""), "\u00a0", "")
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ",") > 1:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		if frac := s[comma+1:]; len(frac) == 3 && isDigits(frac) {
			return decimal.NullDecimal{}, fmt.Errorf("ambiguous number %q: decimal comma or thousands separator", s)
		}
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseDate accepts the layouts of date.Parse and spreadsheet serial days.
func parseDate(s string) (time.Time, error) {
	d, err := date.Parse(s)
	if err == nil {
		return d, nil
	}
	if serial, ferr := strconv.ParseFloat(s, 64); ferr == nil && serial > 0 {
		return date.FromSerial(serial), nil
	}
	return time.Time{}, err
}
