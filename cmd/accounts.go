package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/cheezecat/jgnash"
)

type accountsCmd struct {
	all bool
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list the account tree" }
func (*accountsCmd) Usage() string {
	return `jgnash accounts [-a]

  Prints the account tree with types and currencies. Hidden accounts are
  skipped unless -a is given.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "a", false, "Include hidden accounts.")
}

func (c *accountsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := OpenEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	var b strings.Builder
	b.WriteString("# Accounts\n\n")
	if err := c.writeTree(&b, e, e.RootAccount().ID, 0); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

func (c *accountsCmd) writeTree(b *strings.Builder, e *jgnash.Engine, id string, depth int) error {
	children, err := e.ChildAccounts(id)
	if err != nil {
		return err
	}
	for _, a := range children {
		if !a.Visible && !c.all {
			continue
		}
		fmt.Fprintf(b, "%s* %s (%s, %s)\n", strings.Repeat("  ", depth), a.Name, a.Type, a.Currency)
		if err := c.writeTree(b, e, a.ID, depth+1); err != nil {
			return err
		}
	}
	return nil
}

type addAccountCmd struct {
	parent   string
	kind     string
	currency string
	code     int
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "create an account" }
func (*addAccountCmd) Usage() string {
	return `jgnash add-account [-p <parent>] [-t <type>] [-c <currency>] <name>

  Creates an account under the named parent (the root by default).
`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.parent, "p", "", "Name of the parent account (root if empty).")
	f.StringVar(&c.kind, "t", "BANK", "Account type (ASSET, BANK, CASH, CHECKING, CREDIT, EQUITY, EXPENSE, INCOME, LIABILITY).")
	f.StringVar(&c.currency, "c", "", "Account currency (book default if empty).")
	f.IntVar(&c.code, "code", 0, "Sort code.")
}

func (c *addAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one account name expected")
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)

	kind, err := jgnash.ParseAccountType(c.kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	e, err := OpenEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	parentID := e.RootAccount().ID
	if c.parent != "" {
		parent, err := e.AccountByName(c.parent)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: parent %q: %v\n", c.parent, err)
			return subcommands.ExitFailure
		}
		parentID = parent.ID
	}

	currency := c.currency
	if currency == "" {
		currency = e.DefaultCurrency().Symbol
	}
	a := jgnash.NewAccount(kind, currency)
	a.Name = name
	a.Code = c.code
	if err := e.AddAccount(parentID, a); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created account %q (%s)\n", name, a.ID)
	return subcommands.ExitSuccess
}
