package renderer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/etnz/bookkeeping"
	"github.com/etnz/bookkeeping/market"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// testReport holds a cash position, a priced and an unpriced security in
// "main", and a single deposit in "savings".
func testReport(t *testing.T) *bookkeeping.Report {
	t.Helper()
	txs := []bookkeeping.Transaction{
		bookkeeping.NewDeposit("main", day("2025-01-01"), D("2000"), "EUR"),
		bookkeeping.NewBuy("main", day("2025-01-10"), "ACME", D("10"), D("100"), "EUR").WithFee(D("2")),
		bookkeeping.NewBuy("main", day("2025-01-10"), "OTHER", D("5"), D("10"), "EUR"),
		bookkeeping.NewDeposit("savings", day("2025-02-01"), D("300"), "USD"),
	}
	prices := market.Prices{"ACME": {UnitPrice: D("120"), Currency: "EUR"}}
	report, err := bookkeeping.NewBuilder(bookkeeping.Options{Currency: "EUR", Scale: 2}, zerolog.Nop()).
		WithPrices(prices).
		WithClock(func() time.Time { return time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC) }).
		Build(txs)
	require.NoError(t, err)
	return report
}

func TestMarkdown(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Markdown(&b, testReport(t), DefaultOptions()))
	got := b.String()

	wantHead := "# Positions\n\nGenerated: 2025-12-31 12:00\n\n## main\n\n" +
		"| Ticker | Quantity | Average Price | Invested | Market Value | P&L | P&L % | Deposits | Withdrawals | Costs |\n" +
		"|:---|---:|---:|---:|---:|---:|---:|---:|---:|---:|\n" +
		"| EUR | 948 | 1.00 |  | 948.00 |  |  | 2000 | 0 | 0.00 |\n" +
		"| ACME | 10 | 100.00 | 1000.00 | 1200.00 | 200.00 | 120.00 | 0 | 0 | 2.00 |\n" +
		"| OTHER | 5 | 10.00 | 50.00 |  |  |  | 0 | 0 | 0.00 |\n" +
		"\n### Totals\n\n"
	assert.True(t, strings.HasPrefix(got, wantHead), "got:\n%s", got)
	assert.Contains(t, got, "\n## savings\n\n")
	assert.Contains(t, got, "| USD | 300 | 1.00 |  | 300.00 |  |  | 300 | 0 | 0.00 |\n")
	assert.Contains(t, got, "|:---|---:|---:|---:|---:|\n| EUR | ")
	assert.True(t, strings.HasSuffix(got, "|\n"), "ends with a single newline")
	assert.NotContains(t, got, "\n\n\n")
}

func TestMarkdown_Labels(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Markdown(&b, testReport(t), Options{Language: "de", Scale: 2}))
	assert.Contains(t, b.String(), "| Symbol | Anzahl | Einstandskurs |")
	assert.Contains(t, b.String(), "### Summen")

	assert.Equal(t, LabelsFor("en"), LabelsFor("klingon"))
}

func TestTransactions(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Transactions(&b, testReport(t), DefaultOptions()))
	got := b.String()

	assert.True(t, strings.HasPrefix(got, "# Transactions\n\nGenerated: 2025-12-31 12:00\n\n## main / EUR\n\n"), "got:\n%s", got)
	assert.Contains(t, got, "| 2025-01-01 | DEPOSIT | EUR | 2000 |  |  | EUR |  |\n"+
		"| 2025-01-10 | DEBIT | EUR | 10 | 100 |  | EUR |  |\n"+
		"| 2025-01-10 | FEE | EUR | 2 | 1 |  | EUR |  |\n"+
		"| 2025-01-10 | DEBIT | EUR | 5 | 10 |  | EUR |  |\n")
	assert.Contains(t, got, "## main / ACME\n")
	assert.Contains(t, got, "| 2025-01-10 | BUY | ACME | 10 | 100 | 2 | EUR |  |\n")
	assert.Contains(t, got, "## savings / USD\n")
}

func TestCSV(t *testing.T) {
	var b strings.Builder
	require.NoError(t, CSV(&b, testReport(t), DefaultOptions()))
	want := "Portfolio,Ticker,Currency,Quantity,Average Price,Invested,Market Value,P&L,P&L %,Deposits,Withdrawals,Costs\n" +
		"main,EUR,EUR,948,1.00,,948.00,,,2000,0,0.00\n" +
		"main,ACME,EUR,10,100.00,1000.00,1200.00,200.00,120.00,0,0,2.00\n" +
		"main,OTHER,EUR,5,10.00,50.00,,,,0,0,0.00\n" +
		"savings,USD,USD,300,1.00,,300.00,,,300,0,0.00\n"
	assert.Equal(t, want, b.String())
}

func TestExcel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Excel(&buf, testReport(t), DefaultOptions()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"main", "savings"}, f.GetSheetList())

	cell := func(sheet, axis string) string {
		v, err := f.GetCellValue(sheet, axis)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Ticker", cell("main", "A1"))
	assert.Equal(t, "EUR", cell("main", "A2"))
	assert.Equal(t, "", cell("main", "E2"), "cash has no invested amount")
	assert.Equal(t, "ACME", cell("main", "A3"))
	assert.Equal(t, "1200", cell("main", "F3"))
	assert.Equal(t, "", cell("main", "F4"), "OTHER has no market price")
	assert.Equal(t, "300", cell("savings", "C2"))
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "a_b_c", sheetName("a/b?c"))
	assert.Equal(t, "_", sheetName(""))
	assert.Len(t, []rune(sheetName(strings.Repeat("x", 40))), 31)
}
