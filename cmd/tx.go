package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/cheezecat/jgnash"
	"github.com/cheezecat/jgnash/date"
)

type txCmd struct {
	payee string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list transactions" }
func (*txCmd) Usage() string {
	return `jgnash tx [-payee <pattern>]

  Lists transactions in date order. The payee pattern accepts * and ?
  wildcards and ignores case.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.payee, "payee", "", "Only transactions whose payee matches this pattern.")
}

func (c *txCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := OpenEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	var transactions []*jgnash.Transaction
	if c.payee != "" {
		transactions, err = e.TransactionsByPayee(c.payee)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	} else {
		transactions = e.Transactions()
	}

	var b strings.Builder
	b.WriteString("# Transactions\n\n")
	for _, tx := range transactions {
		fmt.Fprintf(&b, "* %s  %-24s %s\n", tx.Date, tx.Payee, tx.Memo)
		for _, entry := range tx.Entries() {
			credit, err := e.AccountByID(entry.CreditAccountID)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return subcommands.ExitFailure
			}
			debit, err := e.AccountByID(entry.DebitAccountID)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return subcommands.ExitFailure
			}
			fmt.Fprintf(&b, "  * %s %s -> %s %s\n",
				debit.Name, jgnash.M(entry.DebitAmount, debit.Currency),
				credit.Name, jgnash.M(entry.CreditAmount, credit.Currency))
		}
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type addTxCmd struct {
	date   string
	payee  string
	memo   string
	number string
}

func (*addTxCmd) Name() string     { return "add-tx" }
func (*addTxCmd) Synopsis() string { return "record a transfer between two accounts" }
func (*addTxCmd) Usage() string {
	return `jgnash add-tx [-d <date>] [-payee <payee>] [-memo <memo>] <from> <to> <amount>

  Records a double-entry transfer: <amount> leaves <from> and enters <to>.
  Both accounts are named; the amount is in their shared currency.
`
}

func (c *addTxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Transaction date (YYYY-MM-DD, today if empty).")
	f.StringVar(&c.payee, "payee", "", "Payee.")
	f.StringVar(&c.memo, "memo", "", "Memo.")
	f.StringVar(&c.number, "n", "", "Transaction number (check number).")
}

func (c *addTxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "Error: expected <from> <to> <amount>")
		return subcommands.ExitUsageError
	}

	amount, err := decimal.NewFromString(f.Arg(2))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	on := date.Today()
	if c.date != "" {
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

	from, err := e.AccountByName(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: account %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	to, err := e.AccountByName(f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: account %q: %v\n", f.Arg(1), err)
		return subcommands.ExitFailure
	}

	tx := jgnash.NewTransaction(on)
	tx.Payee = c.payee
	tx.Memo = c.memo
	tx.Number = c.number
	if err := tx.AddTransferEntry(to.ID, from.ID, amount, c.memo); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := e.AddTransaction(tx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded %s from %q to %q on %s\n", jgnash.M(amount, from.Currency), from.Name, to.Name, on)
	return subcommands.ExitSuccess
}
