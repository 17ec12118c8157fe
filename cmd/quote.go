package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/bookkeeping/market"
	"github.com/etnz/bookkeeping/renderer"
	"github.com/google/subcommands"
)

type quoteCmd struct {
	output  string
	workers int
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "fetch current prices into a price file" }
func (*quoteCmd) Usage() string {
	return `bk quote [-o <file>] <ticker>...

  Fetches the current price of each ticker from the HTTP API configured in
  the [quote] section of the configuration, and merges them into the price
  file (the configured prices file by default, stdout if none).

Configuration Example:
[quote]
url = "https://api.example.com/quote/{ticker}"
path = "$.price"
currency = "$.currency"
rate = 2
cache = true
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Price file to update. Defaults to the configured prices file, or stdout.")
	f.IntVar(&c.workers, "j", market.DefaultWorkers, "Number of concurrent requests.")
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one ticker is required.")
		return subcommands.ExitUsageError
	}
	a, err := loadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	qc := a.cfg.Quote
	if qc.URL == "" || qc.Path == "" {
		fmt.Fprintln(os.Stderr, "Error: quote url and path must be configured.")
		return subcommands.ExitUsageError
	}

	opts := []market.QuoteOption{
		market.WithRateLimit(qc.Rate),
		market.WithWorkers(c.workers),
		market.WithLogger(a.log),
	}
	if qc.Currency != "" {
		opts = append(opts, market.WithCurrency(qc.Currency))
	}
	if qc.Cache {
		opts = append(opts, market.WithDiskCache(qc.CacheDir))
	}
	fetched, err := market.NewQuote(qc.URL, qc.Path, opts...).Fetch(ctx, f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching quotes: %v\n", err)
		return subcommands.ExitFailure
	}

	output := c.output
	if output == "" {
		output = a.cfg.Prices
	}
	if output == "" || output == "-" {
		if err := fetched.WriteCSV(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing prices: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	prices, err := market.LoadFile(output)
	if errors.Is(err, fs.ErrNotExist) {
		prices, err = make(market.Prices), nil
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading price file %q: %v\n", output, err)
		return subcommands.ExitFailure
	}
	prices.Merge(fetched)

	w, err := renderer.Open(output, renderer.Overwrite)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening price file %q: %v\n", output, err)
		return subcommands.ExitFailure
	}
	defer w.Close()
	if err := prices.WriteCSV(w); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing price file %q: %v\n", output, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Updated %d prices in %s\n", len(fetched), output)
	return subcommands.ExitSuccess
}
