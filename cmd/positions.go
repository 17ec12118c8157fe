package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/bookkeeping/renderer"
	"github.com/google/subcommands"
)

type positionsCmd struct {
	reportFlags
	format string
	output string
	mode   string
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "report the positions of every portfolio" }
func (*positionsCmd) Usage() string {
	return `bk positions [-f md|csv|xlsx] [-o <file>] [-m overwrite|append|stop] [-p <portfolios>] [-c <currency>] [-valuation fifo|lifo] <file>...

  Reads the transactions of the given files (.csv, .md, .xlsx, .json),
  replays them and reports, per portfolio, the quantity, average price,
  invested amount, market value and profit and loss of every position.

  A transaction present in several files is counted once.

Usage Examples:
$ bk positions -c EUR broker.csv bank.md
$ bk positions -f xlsx -o positions.xlsx -m stop trades.json

`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.format, "f", "", "Output format (md, csv, xlsx). Defaults to the extension of -o, or md.")
	f.StringVar(&c.output, "o", "", "Output file. Defaults to stdout.")
	f.StringVar(&c.mode, "m", "overwrite", "How to write an existing output file (overwrite, append, stop).")
}

// outputFormat returns the format, from -f or from the extension of -o.
func outputFormat(format, output string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
		if format == "markdown" || format == "" {
			format = "md"
		}
	}
	switch format = strings.ToLower(format); format {
	case "md", "csv", "xlsx":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}
}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one transaction file is required.")
		return subcommands.ExitUsageError
	}
	format, err := outputFormat(c.format, c.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	mode, err := renderer.ParseMode(c.mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if format == "xlsx" && (c.output == "" || c.output == "-") {
		fmt.Fprintln(os.Stderr, "Error: xlsx output requires -o <file>.")
		return subcommands.ExitUsageError
	}
	if format == "xlsx" && mode == renderer.Append {
		fmt.Fprintln(os.Stderr, "Error: a workbook cannot be appended to, use -m overwrite or -m stop.")
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
		fmt.Fprintf(os.Stderr, "Error computing positions: %v\n", err)
		return subcommands.ExitFailure
	}

	opts := renderer.Options{Language: a.cfg.Language, Scale: a.cfg.Scale}
	render := func(w io.Writer) error {
		switch format {
		case "csv":
			return renderer.CSV(w, report, opts)
		case "xlsx":
			return renderer.Excel(w, report, opts)
		default:
			return renderer.Markdown(w, report, opts)
		}
	}
	if err := write(c.output, mode, format, render); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing positions: %v\n", err)
		return subcommands.ExitFailure
	}
	a.log.Debug().Int("portfolios", report.Len()).Str("format", format).Str("output", c.output).Msg("wrote positions")
	return subcommands.ExitSuccess
}

// write renders to output opened with mode. Markdown for stdout goes
// through printMarkdown.
func write(output string, mode renderer.Mode, format string, render func(io.Writer) error) error {
	if format == "md" && (output == "" || output == "-") {
		var b strings.Builder
		if err := render(&b); err != nil {
			return err
		}
		printMarkdown(b.String())
		return nil
	}
	w, err := renderer.Open(output, mode)
	if err != nil {
		return err
	}
	if err := render(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
