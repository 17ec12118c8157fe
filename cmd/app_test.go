package cmd

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/etnz/bookkeeping"
	"github.com/etnz/bookkeeping/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		format, output string
		want           string
		wantErr        bool
	}{
		{"", "", "md", false},
		{"", "report.xlsx", "xlsx", false},
		{"", "report.CSV", "csv", false},
		{"", "report.markdown", "md", false},
		{"csv", "report.md", "csv", false},
		{"XLSX", "", "xlsx", false},
		{"", "report.txt", "", true},
		{"pdf", "", "", true},
	}
	for _, tt := range tests {
		got, err := outputFormat(tt.format, tt.output)
		if tt.wantErr {
			assert.Error(t, err, "outputFormat(%q, %q)", tt.format, tt.output)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "outputFormat(%q, %q)", tt.format, tt.output)
	}
}

func TestNewLogger(t *testing.T) {
	var b strings.Builder
	log := newLogger(&b, "warn", false)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, b.String(), "hidden")
	assert.Contains(t, b.String(), "shown")

	assert.Equal(t, zerolog.InfoLevel, newLogger(&b, "", false).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger(&b, "chatty", false).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, newLogger(&b, "error", true).GetLevel())
}

func TestReportFlags(t *testing.T) {
	r := reportFlags{portfolios: " main, ,savings", currency: "usd", valuation: "lifo", language: "de"}
	assert.Equal(t, []string{"main", "savings"}, r.filter())
	assert.Empty(t, (&reportFlags{}).filter())

	cfg := config.Default()
	require.NoError(t, r.apply(cfg))
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, bookkeeping.LIFO, cfg.Valuation)
	assert.Equal(t, "de", cfg.Language)

	bad := reportFlags{valuation: "hifo"}
	assert.Error(t, bad.apply(config.Default()))
	bad = reportFlags{currency: "XXXX"}
	assert.Error(t, bad.apply(config.Default()))
}

func TestAppReport(t *testing.T) {
	dir := t.TempDir()
	trades := dir + "/broker.csv"
	prices := dir + "/prices.csv"
	require.NoError(t, os.WriteFile(trades, []byte(
		"portfolio,type,date,ticker,quantity,price,fee,currency\n"+
			"main,deposit,2025-01-01,,1000,,,EUR\n"+
			"main,buy,2025-01-10,ACME,5,100,1,EUR\n"+
			"other,deposit,2025-01-01,,50,,,USD\n"), 0o644))
	require.NoError(t, os.WriteFile(prices, []byte("ACME,110,EUR\n"), 0o644))

	cfg := config.Default()
	cfg.Currency = "EUR"
	cfg.Prices = prices
	a := &app{cfg: cfg, log: zerolog.Nop()}

	report, err := a.report(context.Background(), []string{trades}, []string{"main"})
	require.NoError(t, err)
	require.Equal(t, 1, report.Len())

	p := report.Portfolio("main")
	require.NotNil(t, p)
	cash := p.Position("EUR")
	require.NotNil(t, cash)
	assert.Equal(t, "499", cash.Quantity().String())
	acme := p.Position("ACME")
	require.NotNil(t, acme)
	assert.Equal(t, "550", acme.MarketValue().Decimal.String())

	_, err = a.report(context.Background(), []string{dir + "/missing.csv"}, nil)
	assert.Error(t, err)
}

func TestTopicDoc(t *testing.T) {
	overview, err := topicDoc(nil)
	require.NoError(t, err)
	assert.Contains(t, overview, "bk topic <topic>")

	formats, err := topicDoc([]string{"formats"})
	require.NoError(t, err)
	assert.Contains(t, formats, "# Transaction files")

	_, err = topicDoc([]string{"formats", "taxes"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown topic "taxes"`)
	assert.Contains(t, err.Error(), "configuration, formats, valuation")
}
