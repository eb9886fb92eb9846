package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/cheezecat/jgnash"
	"github.com/cheezecat/jgnash/date"
)

type balanceCmd struct {
	date     string
	currency string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "show the balance of an account" }
func (*balanceCmd) Usage() string {
	return `jgnash balance [-d <date>] [-c <currency>] <account>

  Prints the balance of the named account, optionally as of a past date and
  converted to another currency. Conversion uses the rate in effect on each
  entry's own date.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Balance as of this date (YYYY-MM-DD, today if empty).")
	f.StringVar(&c.currency, "c", "", "Report in this currency (account currency if empty).")
}

func (c *balanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one account name expected")
		return subcommands.ExitUsageError
	}

	e, err := OpenEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	account, err := e.AccountByName(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: account %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}

	asOf := date.Today()
	if c.date != "" {
		asOf, err = date.Parse(c.date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	currency := c.currency
	if currency == "" {
		currency = account.Currency
	}
	balance, err := e.BalanceIn(account.ID, asOf, currency)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s: %s (as of %s)\n", account.Name, jgnash.M(balance, currency), asOf)
	return subcommands.ExitSuccess
}
