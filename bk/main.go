// Command bk computes the positions of portfolios from their transactions.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/bookkeeping/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	completion().Complete("bk")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion. Install it
// with COMP_INSTALL=1 bk.
func completion() *complete.Command {
	inputs := predict.Files("*")
	modes := predict.Set{"overwrite", "append", "stop"}
	report := map[string]complete.Predictor{
		"p":         predict.Something,
		"c":         predict.Something,
		"valuation": predict.Set{"fifo", "lifo"},
		"prices":    predict.Files("*.csv"),
		"lang":      predict.Set{"en", "de"},
		"o":         predict.Files("*"),
		"m":         modes,
	}
	positions := map[string]complete.Predictor{"f": predict.Set{"md", "csv", "xlsx"}}
	for name, p := range report {
		positions[name] = p
	}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
			"v":      predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"positions":    {Flags: positions, Args: inputs},
			"transactions": {Flags: report, Args: inputs},
			"quote": {Flags: map[string]complete.Predictor{
				"o": predict.Files("*.csv"),
				"j": predict.Something,
			}},
			"topic":    {Args: predict.Set{"configuration", "formats", "valuation"}},
			"version":  {},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}
