package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/bookkeeping/renderer"
	"github.com/google/subcommands"
)

type transactionsCmd struct {
	reportFlags
	output string
	mode   string
}

func (*transactionsCmd) Name() string { return "transactions" }
func (*transactionsCmd) Synopsis() string {
	return "list the normalized transactions of every position, bookkeeping legs included"
}
func (*transactionsCmd) Usage() string {
	return `bk transactions [-o <file>] [-m overwrite|append|stop] [-p <portfolios>] [-c <currency>] <file>...

  Reads the transactions of the given files and lists, per position, the
  transactions it replayed in trade date order. Cash positions also list
  the DEBIT, CREDIT and FEE entries generated from buys, sells, dividends
  and fees.
`
}

func (c *transactionsCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.output, "o", "", "Output file. Defaults to stdout.")
	f.StringVar(&c.mode, "m", "overwrite", "How to write an existing output file (overwrite, append, stop).")
}

func (c *transactionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one transaction file is required.")
		return subcommands.ExitUsageError
	}
	mode, err := renderer.ParseMode(c.mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := loadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := c.apply(a.cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	report, err := a.report(ctx, f.Args(), c.filter())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	opts := renderer.Options{Language: a.cfg.Language, Scale: a.cfg.Scale}
	render := func(w io.Writer) error { return renderer.Transactions(w, report, opts) }
	if err := write(c.output, mode, "md", render); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing transactions: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
