package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/cheezecat/jgnash"
	"github.com/cheezecat/jgnash/date"
)

type budgetsCmd struct {
	year int
}

func (*budgetsCmd) Name() string     { return "budgets" }
func (*budgetsCmd) Synopsis() string { return "list budgets and their goals" }
func (*budgetsCmd) Usage() string {
	return `jgnash budgets [-y <year>]

  Lists every budget with its period and, per account, the goal amount of
  each budgeting period of the given year.
`
}

func (c *budgetsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "y", time.Now().Year(), "Budget year to display.")
}

func (c *budgetsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	e, err := OpenEngine()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer e.Close()

	var b strings.Builder
	for _, budget := range e.Budgets() {
		fmt.Fprintf(&b, "# %s (%s)\n\n", budget.Name(), budget.BudgetPeriod())
		if budget.Description() != "" {
			fmt.Fprintf(&b, "%s\n\n", budget.Description())
		}
		descriptors, err := jgnash.Descriptors(c.year, budget.BudgetPeriod())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		for _, accountID := range budget.AccountIDs() {
			account, err := e.AccountByID(accountID)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return subcommands.ExitFailure
			}
			goal := budget.GoalByAccountID(accountID)
			fmt.Fprintf(&b, "## %s\n\n", account.Name)
			for _, d := range descriptors {
				fmt.Fprintf(&b, "* %s: %s\n", d.Description(), jgnash.M(goal.Goal(d), account.Currency))
			}
			b.WriteString("\n")
		}
	}
	if b.Len() == 0 {
		fmt.Println("No budgets.")
		return subcommands.ExitSuccess
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type periodsCmd struct {
	year   int
	period string
}

func (*periodsCmd) Name() string     { return "periods" }
func (*periodsCmd) Synopsis() string { return "show the budgeting periods of a year" }
func (*periodsCmd) Usage() string {
	return `jgnash periods [-y <year>] [-p <period>]

  Prints every budgeting period descriptor of a year: its dates and the
  goal slots it covers.
`
}

func (c *periodsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "y", time.Now().Year(), "Year to cut into periods.")
	f.StringVar(&c.period, "p", "monthly", "Budgeting period (daily, weekly, bi-weekly, monthly, quarterly, yearly).")
}

func (c *periodsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	descriptors, err := jgnash.Descriptors(c.year, period)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for _, d := range descriptors {
		fmt.Printf("%-24s %s .. %s  slots [%d, %d]\n",
			d.Description(), d.StartDate(), d.EndDate(), d.StartPeriod(), d.EndPeriod())
	}
	return subcommands.ExitSuccess
}
