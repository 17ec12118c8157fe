package bookkeeping

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// legNamespace seeds the deterministic identifiers of synthetic legs.
var legNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/etnz/bookkeeping/legs"))

// Legs returns the synthetic transactions implied by tx in its currency
// position: a Debit for a Buy, a Credit for a Sell or a Dividend, and a Fee
// when tx carries a fee. Legs never carry a fee themselves.
func Legs(tx Transaction) []Transaction {
	var legs []Transaction
	switch tx.Type {
	case Buy:
		legs = append(legs, cashLeg(tx, Debit, tx.Quantity, tx.Price))
	case Sell, Dividend:
		legs = append(legs, cashLeg(tx, Credit, tx.Quantity, tx.Price))
	}
	if tx.HasFee() {
		legs = append(legs, cashLeg(tx, Fee, tx.Fee.Decimal, decimal.NewNullDecimal(decimal.NewFromInt(1))))
	}
	return legs
}

// cashLeg copies tx into the currency position with the given type,
// quantity and price.
func cashLeg(tx Transaction, t TransactionType, quantity decimal.Decimal, price decimal.NullDecimal) Transaction {
	return Transaction{
		Portfolio:  tx.Portfolio,
		Type:       t,
		TradeDate:  tx.TradeDate,
		Quantity:   quantity,
		Price:      price,
		Currency:   tx.Currency,
		Ticker:     tx.Currency,
		TransferID: legID(tx, t).String(),
		TradeID:    tx.TradeID,
		OrderID:    tx.OrderID,
	}
}

// legID derives the leg identifier from the source transaction, so that the
// same input always yields the same legs.
func legID(tx Transaction, t TransactionType) uuid.UUID {
	name := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s|%s|%s|%s|%s",
		t, tx.Portfolio, tx.Type, tx.TradeDate.UTC().Format("2006-01-02T15:04:05.999999999"),
		tx.Ticker, tx.Quantity, tx.Price.Decimal, tx.Fee.Decimal, tx.Currency, tx.TransferID, tx.TradeID)
	return uuid.NewSHA1(legNamespace, []byte(name))
}

// Synthesize returns the synthetic legs of all txs, sorted by trade date.
// Legs of the same date keep the order of their source transactions.
func Synthesize(txs []Transaction) []Transaction {
	legs := make([]Transaction, 0, len(txs)*2) // Pre-allocate with a guess
	for _, tx := range txs {
		legs = append(legs, Legs(tx)...)
	}
	sortByTradeDate(legs)
	return legs
}

// sortByTradeDate sorts txs chronologically, keeping the relative order of
// transactions of the same date.
func sortByTradeDate(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].TradeDate.Before(txs[j].TradeDate)
	})
}
