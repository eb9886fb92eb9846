package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/cheezecat/jgnash/date"
)

type rateCmd struct {
	date string
	set  string
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "show or record an exchange rate" }
func (*rateCmd) Usage() string {
	return `jgnash rate [-d <date>] [-set <rate>] <from> <to>

  Without -set, prints the <from> to <to> rate in effect on the date (the
  most recent recorded rate at or before it). With -set, records the rate
  for that date.
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Rate date (YYYY-MM-DD, today if empty).")
	f.StringVar(&c.set, "set", "", "Record this rate instead of reading one.")
}

func (c *rateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: expected <from> and <to> currencies")
		return subcommands.ExitUsageError
	}
	from, to := f.Arg(0), f.Arg(1)

	on := date.Today()
	if c.date != "" {
		var err error
		on, err = date.Parse(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	e, err := OpenEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	if c.set != "" {
		rate, err := decimal.NewFromString(c.set)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing rate: %v\n", err)
			return subcommands.ExitUsageError
		}
		if err := e.SetExchangeRate(from, to, rate, on); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Recorded %s/%s = %s on %s\n", from, to, rate, on)
		return subcommands.ExitSuccess
	}

	rate, err := e.Rate(from, to, on)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s/%s = %s on %s\n", from, to, rate, on)
	return subcommands.ExitSuccess
}
