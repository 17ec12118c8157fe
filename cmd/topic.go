package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/etnz/bookkeeping/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show the documentation of bk" }
func (*topicCmd) Usage() string {
	return `bk topic [<topic>...]

  Shows the overview of bk, or the given topics ("*" for all of them):
  configuration, formats, valuation.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	doc, err := topicDoc(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}

// topicDoc returns the documentation of names, the overview when there are
// none. Unknown topics are reported with the list of known ones.
func topicDoc(names []string) (string, error) {
	if len(names) == 0 {
		return docs.Topic("readme")
	}
	all, err := docs.All()
	if err != nil {
		return "", err
	}
	for _, name := range names {
		if name != "*" && name != "readme" && !slices.Contains(all, name) {
			return "", fmt.Errorf("unknown topic %q, want one of %s", name, strings.Join(all, ", "))
		}
	}
	return docs.Topics(names...)
}
