package jgnash

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cheezecat/jgnash/date"
)

func TestBudgetGoalDefaults(t *testing.T) {
	g := NewBudgetGoal()
	if g.BudgetPeriod() != date.Monthly {
		t.Errorf("default period = %v, want monthly", g.BudgetPeriod())
	}
	goals := g.Goals()
	if len(goals) != PeriodsPerYear {
		t.Fatalf("goal vector length = %d, want %d", len(goals), PeriodsPerYear)
	}
	for i, v := range goals {
		if !v.IsZero() {
			t.Fatalf("goal[%d] = %s, want zero", i, v)
		}
	}
}

func TestBudgetGoalSetGoals(t *testing.T) {
	g := NewBudgetGoal()
	if err := g.SetGoals(make([]decimal.Decimal, 12)); err == nil {
		t.Error("wrong-length vector accepted")
	}

	values := make([]decimal.Decimal, PeriodsPerYear)
	values[0] = decimal.RequireFromString("12.34")
	if err := g.SetGoals(values); err != nil {
		t.Fatal(err)
	}
	// The vector is copied, later caller mutations do not leak in.
	values[0] = decimal.RequireFromString("99")
	if !g.Goals()[0].Equal(decimal.RequireFromString("12.34")) {
		t.Error("SetGoals shares caller storage")
	}
}

func TestBudgetGoalSumOverDescriptor(t *testing.T) {
	g := NewBudgetGoal()
	if err := g.SetBudgetPeriod(date.Daily); err != nil {
		t.Fatal(err)
	}
	// 1.00 on each day of February 2021.
	for i := 31; i < 31+28; i++ {
		if err := g.SetGoal(i, decimal.NewFromInt(1)); err != nil {
			t.Fatal(err)
		}
	}
	d := MustNewPeriodDescriptor(date.New(2021, time.February, 1), 2021, date.Monthly)
	if got := g.Goal(d); !got.Equal(decimal.NewFromInt(28)) {
		t.Errorf("Goal(february) = %s, want 28", got)
	}

	if err := g.SetGoal(-1, decimal.NewFromInt(1)); err == nil {
		t.Error("negative slot accepted")
	}
	if err := g.SetGoal(PeriodsPerYear, decimal.NewFromInt(1)); err == nil {
		t.Error("out-of-range slot accepted")
	}
}

func TestBudgetGoalAssignment(t *testing.T) {
	b := NewBudget()
	b.SetName("plan")
	if b.BudgetPeriod() != date.Monthly {
		t.Errorf("default budget period = %v", b.BudgetPeriod())
	}

	account := NewAccount(AccountExpense, "EUR")
	if b.BudgetGoal(account) != nil {
		t.Error("goal for unassigned account, want nil")
	}

	goal := NewBudgetGoal()
	if err := b.SetBudgetGoal(account, goal); err != nil {
		t.Fatal(err)
	}
	if b.BudgetGoal(account) == nil {
		t.Fatal("assigned goal not resolvable")
	}
	if got := b.AccountIDs(); len(got) != 1 || got[0] != account.ID {
		t.Fatalf("AccountIDs = %v", got)
	}

	b.RemoveBudgetGoal(account)
	if b.BudgetGoal(account) != nil {
		t.Error("goal survives removal")
	}
}

func TestBudgetPeriodChangeKeepsGoals(t *testing.T) {
	// Changing the budget display period never rewrites assigned vectors;
	// the same slots are just grouped differently on read.
	b := NewBudget()
	account := NewAccount(AccountExpense, "EUR")
	goal := NewBudgetGoal()
	if err := goal.SetGoal(0, decimal.RequireFromString("5.5")); err != nil {
		t.Fatal(err)
	}
	if err := b.SetBudgetGoal(account, goal); err != nil {
		t.Fatal(err)
	}

	if err := b.SetBudgetPeriod(date.Weekly); err != nil {
		t.Fatal(err)
	}
	if got := b.GoalByAccountID(account.ID).Goals()[0]; !got.Equal(decimal.RequireFromString("5.5")) {
		t.Errorf("goal after period change = %s", got)
	}
	if err := b.SetBudgetPeriod(date.Period(77)); err == nil {
		t.Error("invalid period accepted")
	}
}

func TestBudgetClone(t *testing.T) {
	b := NewBudget()
	b.SetName("original")
	account := NewAccount(AccountExpense, "EUR")
	goal := NewBudgetGoal()
	if err := goal.SetGoal(3, decimal.NewFromInt(7)); err != nil {
		t.Fatal(err)
	}
	if err := b.SetBudgetGoal(account, goal); err != nil {
		t.Fatal(err)
	}

	c := b.Clone()
	c.SetName("copy")
	if err := c.GoalByAccountID(account.ID).SetGoal(3, decimal.NewFromInt(9)); err != nil {
		t.Fatal(err)
	}

	if b.Name() != "original" {
		t.Error("clone shares name")
	}
	if got := b.GoalByAccountID(account.ID).Goals()[3]; !got.Equal(decimal.NewFromInt(7)) {
		t.Errorf("clone shares goal storage: %s", got)
	}
}
