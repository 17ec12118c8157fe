// Package cmd implements the subcommands of bk.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/etnz/bookkeeping"
	"github.com/etnz/bookkeeping/config"
	"github.com/etnz/bookkeeping/market"
	"github.com/etnz/bookkeeping/reader"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&positionsCmd{}, "reports")
	c.Register(&transactionsCmd{}, "reports")
	c.Register(&quoteCmd{}, "prices")
	c.Register(&topicCmd{}, "")
	c.Register(&versionCmd{}, "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", config.DefaultFile, "Path to the TOML configuration file")
var verbose = flag.Bool("v", false, "Log debug messages")

// app holds what every command needs once the flags are parsed.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

func loadApp() (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}
	return &app{cfg: cfg, log: newLogger(os.Stderr, cfg.LogLevel, *verbose)}, nil
}

// newLogger returns a console logger writing to w. An empty or unknown level
// logs at info, verbose forces debug.
func newLogger(w io.Writer, level string, verbose bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).Level(lvl).With().Timestamp().Logger()
}

// reportFlags are the flags shared by the report commands.
type reportFlags struct {
	portfolios string
	currency   string
	valuation  string
	prices     string
	language   string
}

func (r *reportFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&r.portfolios, "p", "", "Comma separated portfolios to report on. Reports all by default.")
	f.StringVar(&r.currency, "c", "", "Base currency. Overrides the configuration.")
	f.StringVar(&r.valuation, "valuation", "", "Default inventory valuation (fifo, lifo). Overrides the configuration.")
	f.StringVar(&r.prices, "prices", "", "Price file (ticker,price,currency[,date]). Overrides the configuration.")
	f.StringVar(&r.language, "lang", "", "Language of the labels (en, de). Overrides the configuration.")
}

// apply overrides the configuration with the flags that are set.
func (r *reportFlags) apply(cfg *config.Config) error {
	if r.currency != "" {
		cfg.Currency = r.currency
	}
	if r.valuation != "" {
		if err := cfg.Valuation.UnmarshalText([]byte(r.valuation)); err != nil {
			return err
		}
	}
	if r.prices != "" {
		cfg.Prices = r.prices
	}
	if r.language != "" {
		cfg.Language = r.language
	}
	return cfg.Validate()
}

func (r *reportFlags) filter() []string {
	var names []string
	for name := range strings.SplitSeq(r.portfolios, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// report reads the transaction files and computes their report.
func (a *app) report(ctx context.Context, files []string, filter []string) (*bookkeeping.Report, error) {
	opts := []reader.Option{reader.WithLogger(a.log), reader.WithJSON(a.cfg.Reader.JSON...)}
	if a.cfg.Reader.Portfolio != "" {
		opts = append(opts, reader.WithPortfolio(a.cfg.Reader.Portfolio))
	}
	txs, err := reader.New(opts...).ReadFiles(ctx, files...)
	if err != nil {
		return nil, err
	}
	a.log.Debug().Int("transactions", len(txs)).Strs("files", files).Msg("read transactions")

	builder := bookkeeping.NewBuilder(a.cfg.Options(), a.log)
	if a.cfg.Prices != "" {
		prices, err := market.LoadFile(a.cfg.Prices)
		if err != nil {
			return nil, err
		}
		a.log.Debug().Int("prices", len(prices)).Str("file", a.cfg.Prices).Msg("loaded prices")
		builder.WithPrices(prices)
	}
	report, err := builder.Build(txs)
	if err != nil {
		return nil, err
	}
	return report.Filter(filter...), nil
}
