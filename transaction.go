package bookkeeping

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is a typed string identifying the kind of ledger event.
type TransactionType string

// Transaction types. Credit and Debit are synthetic: they are generated by
// Legs and never read from source records.
const (
	Buy        TransactionType = "BUY"
	Sell       TransactionType = "SELL"
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
	Fee        TransactionType = "FEE"
	Dividend   TransactionType = "DIVIDEND"
	Credit     TransactionType = "CREDIT"
	Debit      TransactionType = "DEBIT"
	Exchange   TransactionType = "EXCHANGE"
	Unknown    TransactionType = "UNKNOWN"
)

var (
	// ErrInvalidTransactionType is returned when a transaction type cannot be
	// processed by the engine.
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	// ErrMissingPrice is returned when a transaction that must be valued has
	// no price.
	ErrMissingPrice = errors.New("missing price")
	// ErrNegativeQuantity is returned when a quantity or a fee is negative.
	// Signs are applied by the transaction type, never by the record.
	ErrNegativeQuantity = errors.New("negative quantity")
)

// ParseTransactionType parses a string into a TransactionType. It is case
// insensitive and accepts "withdraw" for Withdrawal. Words that are not a
// transaction type yield Unknown and an error.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if t == "WITHDRAW" {
		t = Withdrawal
	}
	if _, ok := rules[t]; !ok || t == Unknown {
		return Unknown, fmt.Errorf("%w: %q", ErrInvalidTransactionType, s)
	}
	return t, nil
}

// Synthetic reports whether t is only ever generated by the engine.
func (t TransactionType) Synthetic() bool { return t == Credit || t == Debit }

// consumes reports whether t reduces the lot supply.
func (t TransactionType) consumes() bool { return t == Sell || t == Withdrawal }

// PositionKey identifies a position.
type PositionKey struct {
	Portfolio string
	Ticker    string
}

func (k PositionKey) String() string { return k.Portfolio + "/" + k.Ticker }

// Transaction is a normalized record of a single ledger event.
//
// Quantity and Fee are magnitudes, the direction of the movement is given
// by Type. For pure currency movements Ticker equals Currency.
type Transaction struct {
	Portfolio string
	Type      TransactionType
	TradeDate time.Time
	Quantity  decimal.Decimal
	Price     decimal.NullDecimal
	Fee       decimal.NullDecimal
	Currency  string
	Ticker    string
	Valuation InventoryValuation // only meaningful for Sell and Withdrawal

	// Correlation keys of the source system. The engine ignores them.
	TransferID string
	TradeID    string
	OrderID    string
}

// Key returns the position this transaction belongs to.
func (t Transaction) Key() PositionKey { return PositionKey{Portfolio: t.Portfolio, Ticker: t.Ticker} }

// HasFee reports whether the transaction carries a non-zero fee.
func (t Transaction) HasFee() bool { return t.Fee.Valid && !t.Fee.Decimal.IsZero() }

// Amount returns quantity × price, or the quantity alone when the
// transaction has no price.
func (t Transaction) Amount() decimal.Decimal {
	if !t.Price.Valid {
		return t.Quantity
	}
	return t.Quantity.Mul(t.Price.Decimal)
}

// WithFee returns a copy of t with the given fee.
func (t Transaction) WithFee(fee decimal.Decimal) Transaction {
	t.Fee = decimal.NewNullDecimal(fee)
	return t
}

// WithValuation returns a copy of t with the given inventory valuation.
func (t Transaction) WithValuation(v InventoryValuation) Transaction {
	t.Valuation = v
	return t
}

// Validate checks that the transaction can be processed by the report
// builder.
func (t Transaction) Validate() error {
	r, ok := rules[t.Type]
	if !ok || !r.input {
		return fmt.Errorf("%w: %q", ErrInvalidTransactionType, t.Type)
	}
	if r.priced && !t.Price.Valid {
		return fmt.Errorf("%w: %s %s requires a price", ErrMissingPrice, t.Type, t.Ticker)
	}
	if t.Quantity.IsNegative() {
		return fmt.Errorf("%w: quantity %s", ErrNegativeQuantity, t.Quantity)
	}
	if t.Fee.Valid && t.Fee.Decimal.IsNegative() {
		return fmt.Errorf("%w: fee %s", ErrNegativeQuantity, t.Fee.Decimal)
	}
	return nil
}

func (t Transaction) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s %s %s", t.TradeDate.Format(time.DateOnly), t.Portfolio, t.Type, t.Quantity, t.Ticker)
	if t.Price.Valid {
		fmt.Fprintf(&b, " @ %s", t.Price.Decimal)
	}
	fmt.Fprintf(&b, " %s", t.Currency)
	if t.Fee.Valid {
		fmt.Fprintf(&b, " fee %s", t.Fee.Decimal)
	}
	return b.String()
}

// NewBuy creates a Buy transaction of quantity units of ticker at price.
func NewBuy(portfolio string, day time.Time, ticker string, quantity, price decimal.Decimal, currency string) Transaction {
	return Transaction{Portfolio: portfolio, Type: Buy, TradeDate: day, Ticker: ticker, Quantity: quantity, Price: decimal.NewNullDecimal(price), Currency: currency}
}

// NewSell creates a Sell transaction of quantity units of ticker at price.
func NewSell(portfolio string, day time.Time, ticker string, quantity, price decimal.Decimal, currency string) Transaction {
	return Transaction{Portfolio: portfolio, Type: Sell, TradeDate: day, Ticker: ticker, Quantity: quantity, Price: decimal.NewNullDecimal(price), Currency: currency}
}

// NewDividend creates a Dividend transaction paying price per unit for
// quantity units of ticker.
func NewDividend(portfolio string, day time.Time, ticker string, quantity, price decimal.Decimal, currency string) Transaction {
	return Transaction{Portfolio: portfolio, Type: Dividend, TradeDate: day, Ticker: ticker, Quantity: quantity, Price: decimal.NewNullDecimal(price), Currency: currency}
}

// NewDeposit creates a cash deposit of amount in currency.
func NewDeposit(portfolio string, day time.Time, amount decimal.Decimal, currency string) Transaction {
	return Transaction{Portfolio: portfolio, Type: Deposit, TradeDate: day, Ticker: currency, Quantity: amount, Currency: currency}
}

// NewWithdrawal creates a cash withdrawal of amount in currency.
func NewWithdrawal(portfolio string, day time.Time, amount decimal.Decimal, currency string) Transaction {
	return Transaction{Portfolio: portfolio, Type: Withdrawal, TradeDate: day, Ticker: currency, Quantity: amount, Currency: currency}
}

// NewFee creates a standalone fee of amount in currency.
func NewFee(portfolio string, day time.Time, amount decimal.Decimal, currency string) Transaction {
	return Transaction{Portfolio: portfolio, Type: Fee, TradeDate: day, Ticker: currency, Quantity: amount, Currency: currency}
}

// NewExchange creates a currency exchange of quantity units of ticker at
// rate, expressed in currency.
func NewExchange(portfolio string, day time.Time, ticker string, quantity, rate decimal.Decimal, currency string) Transaction {
	return Transaction{Portfolio: portfolio, Type: Exchange, TradeDate: day, Ticker: ticker, Quantity: quantity, Price: decimal.NewNullDecimal(rate), Currency: currency}
}
