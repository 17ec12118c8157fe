package bookkeeping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegs(t *testing.T) {
	buy := NewBuy("main", day("2025-01-10"), "AAPL", D("5"), D("100"), "EUR").WithFee(D("1"))

	legs := Legs(buy)
	require.Len(t, legs, 2)

	debit, fee := legs[0], legs[1]
	assert.Equal(t, Debit, debit.Type)
	assert.Equal(t, "EUR", debit.Ticker)
	assert.Equal(t, "main", debit.Portfolio)
	assert.True(t, debit.Quantity.Equal(D("5")))
	assert.True(t, debit.Price.Decimal.Equal(D("100")))
	assert.False(t, debit.Fee.Valid)
	assert.Equal(t, buy.TradeDate, debit.TradeDate)

	assert.Equal(t, Fee, fee.Type)
	assert.Equal(t, "EUR", fee.Ticker)
	assert.True(t, fee.Quantity.Equal(D("1")))
	assert.True(t, fee.Price.Decimal.Equal(D("1")))
	assert.False(t, fee.Fee.Valid)

	assert.NotEqual(t, debit.TransferID, fee.TransferID)
	again := Legs(buy)
	assert.Equal(t, legs, again, "legs are deterministic")
}

func TestLegs_Types(t *testing.T) {
	d := day("2025-01-10")
	testCases := []struct {
		name string
		tx   Transaction
		want []TransactionType
	}{
		{"buy", NewBuy("p", d, "ACME", D("1"), D("10"), "EUR"), []TransactionType{Debit}},
		{"sell", NewSell("p", d, "ACME", D("1"), D("10"), "EUR"), []TransactionType{Credit}},
		{"dividend", NewDividend("p", d, "ACME", D("1"), D("0.5"), "EUR"), []TransactionType{Credit}},
		{"sell with fee", NewSell("p", d, "ACME", D("1"), D("10"), "EUR").WithFee(D("0.2")), []TransactionType{Credit, Fee}},
		{"exchange", NewExchange("p", d, "USD", D("100"), D("0.9"), "EUR"), nil},
		{"exchange with fee", NewExchange("p", d, "USD", D("100"), D("0.9"), "EUR").WithFee(D("1")), []TransactionType{Fee}},
		{"deposit", NewDeposit("p", d, D("100"), "EUR"), nil},
		{"withdrawal with fee", NewWithdrawal("p", d, D("100"), "EUR").WithFee(D("1")), []TransactionType{Fee}},
		{"zero fee", NewBuy("p", d, "ACME", D("1"), D("10"), "EUR").WithFee(D("0")), []TransactionType{Debit}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got []TransactionType
			for _, leg := range Legs(tc.tx) {
				got = append(got, leg.Type)
				assert.Equal(t, tc.tx.Currency, leg.Ticker)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSynthesize_SortsByTradeDate(t *testing.T) {
	txs := []Transaction{
		NewBuy("p", day("2025-03-01"), "ACME", D("1"), D("10"), "EUR"),
		NewBuy("p", day("2025-01-01"), "ACME", D("2"), D("10"), "EUR"),
		NewSell("p", day("2025-03-01"), "ACME", D("3"), D("10"), "EUR"),
	}

	legs := Synthesize(txs)
	require.Len(t, legs, 3)
	assert.True(t, legs[0].Quantity.Equal(D("2")))
	// same date keeps the source order.
	assert.Equal(t, Debit, legs[1].Type)
	assert.Equal(t, Credit, legs[2].Type)
}
