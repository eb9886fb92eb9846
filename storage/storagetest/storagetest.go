// Package storagetest holds the behavioral suite every DataStore backend
// must pass. Backend test packages call Run with a factory that always
// opens the same underlying store, so reopen cases observe committed state.
package storagetest

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cheezecat/jgnash"
	"github.com/cheezecat/jgnash/date"
)

// Factory opens the backend under test at the given location. Opening the
// same location twice must resolve to the same underlying store so that
// close/reopen sequences round-trip.
type Factory func(t *testing.T, path string) jgnash.DataStore

// opener reopens one fixed store. Each subtest gets its own.
type opener func() jgnash.DataStore

// goalTolerance is the acceptable drift for persisted goal amounts.
var goalTolerance = decimal.RequireFromString("0.0001")

// Run exercises the full storage contract against the given backend.
func Run(t *testing.T, factory Factory) {
	sub := func(f func(*testing.T, opener)) func(*testing.T) {
		return func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ledger")
			f(t, func() jgnash.DataStore { return factory(t, path) })
		}
	}
	t.Run("FileVersion", sub(testFileVersion))
	t.Run("AccountLifecycle", sub(testAccountLifecycle))
	t.Run("SoftDelete", sub(testSoftDelete))
	t.Run("LegacyIDLookup", sub(testLegacyIDLookup))
	t.Run("Refresh", sub(testRefresh))
	t.Run("BudgetRoundTrip", sub(testBudgetRoundTrip))
	t.Run("TransactionRoundTrip", sub(testTransactionRoundTrip))
	t.Run("ExchangeRateRoundTrip", sub(testExchangeRateRoundTrip))
}

func testFileVersion(t *testing.T, open opener) {
	s := open()
	defer s.Close()
	if got := s.FileVersion(); got != jgnash.CurrentFileVersion {
		t.Fatalf("FileVersion() = %v, want %v", got, jgnash.CurrentFileVersion)
	}
}

func testAccountLifecycle(t *testing.T, open opener) {
	s := open()
	defer s.Close()
	accounts := s.Accounts()

	a := jgnash.NewAccount(jgnash.AccountBank, "EUR")
	a.Name = "Checking"
	if err := accounts.Add(a); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := accounts.Add(a); err == nil {
		t.Fatal("Add twice with same id, want error")
	}

	got, err := accounts.FindByID(a.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Name != "Checking" || got.Currency != "EUR" || got.Type != jgnash.AccountBank {
		t.Fatalf("FindByID returned %+v", got)
	}

	a.Name = "Main checking"
	if err := accounts.Update(a); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = accounts.FindByID(a.ID)
	if err != nil {
		t.Fatalf("FindByID after update: %v", err)
	}
	if got.Name != "Main checking" {
		t.Fatalf("updated name = %q, want %q", got.Name, "Main checking")
	}

	list, err := accounts.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("List() len = %d, want 1", len(list))
	}

	phantom := jgnash.NewAccount(jgnash.AccountBank, "EUR")
	if err := accounts.Update(phantom); !errors.Is(err, jgnash.ErrNotFound) {
		t.Fatalf("Update of unknown id = %v, want ErrNotFound", err)
	}
}

func testSoftDelete(t *testing.T, open opener) {
	s := open()
	accounts := s.Accounts()

	keep := jgnash.NewAccount(jgnash.AccountExpense, "EUR")
	keep.Name = "Groceries"
	gone := jgnash.NewAccount(jgnash.AccountExpense, "EUR")
	gone.Name = "Obsolete"
	for _, a := range []*jgnash.Account{keep, gone} {
		if err := accounts.Add(a); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	if err := accounts.Remove(gone); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if gone.EntityStatus() != jgnash.MarkedForRemoval {
		t.Fatalf("status after Remove = %v, want MarkedForRemoval", gone.EntityStatus())
	}

	// Marked entities disappear from lists but stay addressable until the
	// commit boundary.
	list, err := accounts.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != keep.ID {
		t.Fatalf("List after Remove = %d entries, want only %q", len(list), keep.Name)
	}
	marked, err := accounts.FindByID(gone.ID)
	if err != nil {
		t.Fatalf("FindByID of marked entity: %v", err)
	}
	if marked.EntityStatus() != jgnash.MarkedForRemoval {
		t.Fatalf("marked entity status = %v", marked.EntityStatus())
	}

	if err := s.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if _, err := accounts.FindByID(gone.ID); !errors.Is(err, jgnash.ErrNotFound) {
		t.Fatalf("FindByID after commit = %v, want ErrNotFound", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s = open()
	defer s.Close()
	list, err = s.Accounts().List()
	if err != nil {
		t.Fatalf("List after reopen: %v", err)
	}
	if len(list) != 1 || list[0].ID != keep.ID {
		t.Fatalf("reopened store holds %d accounts, want only %q", len(list), keep.Name)
	}
}

func testLegacyIDLookup(t *testing.T, open opener) {
	s := open()
	defer s.Close()
	accounts := s.Accounts()

	a := jgnash.NewAccount(jgnash.AccountAsset, "EUR")
	a.ID = "c93972f6-fdd5-402e-b314-fc8402d2c51f"
	a.Name = "Savings"
	if err := accounts.Add(a); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := accounts.FindByID("c93972f6fdd5402eb314fc8402d2c51f")
	if err != nil {
		t.Fatalf("FindByID with legacy id: %v", err)
	}
	if got.ID != a.ID {
		t.Fatalf("resolved id = %q, want %q", got.ID, a.ID)
	}
}

func testRefresh(t *testing.T, open opener) {
	s := open()
	defer s.Close()
	accounts := s.Accounts()

	a := jgnash.NewAccount(jgnash.AccountIncome, "EUR")
	a.Name = "Salary"
	if err := accounts.Add(a); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := accounts.Refresh(a); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	unknown := jgnash.NewAccount(jgnash.AccountIncome, "EUR")
	if err := accounts.Refresh(unknown); !errors.Is(err, jgnash.ErrNotFound) {
		t.Fatalf("Refresh of unknown entity = %v, want ErrNotFound", err)
	}
}

func testBudgetRoundTrip(t *testing.T, open opener) {
	s := open()

	account := jgnash.NewAccount(jgnash.AccountExpense, "EUR")
	account.Name = "Household"
	if err := s.Accounts().Add(account); err != nil {
		t.Fatalf("Add account: %v", err)
	}

	budget := jgnash.NewBudget()
	budget.SetName("2026 plan")
	budget.SetDescription("household spending")
	if err := budget.SetBudgetPeriod(date.Weekly); err != nil {
		t.Fatalf("SetBudgetPeriod: %v", err)
	}

	goal := jgnash.NewBudgetGoal()
	values := make([]decimal.Decimal, jgnash.PeriodsPerYear)
	for i := range values {
		// Fractional cents make serialization drift visible.
		values[i] = decimal.New(int64(i*125+3), -4)
	}
	if err := goal.SetGoals(values); err != nil {
		t.Fatalf("SetGoals: %v", err)
	}
	if err := goal.SetBudgetPeriod(date.Weekly); err != nil {
		t.Fatalf("SetBudgetPeriod on goal: %v", err)
	}
	if err := budget.SetBudgetGoal(account, goal); err != nil {
		t.Fatalf("SetBudgetGoal: %v", err)
	}

	if err := s.Budgets().Add(budget); err != nil {
		t.Fatalf("Add budget: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s = open()
	defer s.Close()
	got, err := s.Budgets().FindByID(budget.ID)
	if err != nil {
		t.Fatalf("FindByID after reopen: %v", err)
	}
	if got.Name() != "2026 plan" || got.Description() != "household spending" {
		t.Fatalf("reloaded budget = %q / %q", got.Name(), got.Description())
	}
	if got.BudgetPeriod() != date.Weekly {
		t.Fatalf("reloaded period = %v, want weekly", got.BudgetPeriod())
	}
	reloaded := got.GoalByAccountID(account.ID)
	if reloaded == nil {
		t.Fatalf("no goal vector for account %s", account.ID)
	}
	if reloaded.BudgetPeriod() != date.Weekly {
		t.Fatalf("reloaded goal period = %v, want weekly", reloaded.BudgetPeriod())
	}
	for i, want := range values {
		diff := reloaded.Goals()[i].Sub(want).Abs()
		if diff.GreaterThan(goalTolerance) {
			t.Fatalf("goal[%d] = %s, want %s within %s", i, reloaded.Goals()[i], want, goalTolerance)
		}
	}
}

func testTransactionRoundTrip(t *testing.T, open opener) {
	s := open()

	checking := jgnash.NewAccount(jgnash.AccountBank, "EUR")
	checking.Name = "Checking"
	rent := jgnash.NewAccount(jgnash.AccountExpense, "EUR")
	rent.Name = "Rent"
	for _, a := range []*jgnash.Account{checking, rent} {
		if err := s.Accounts().Add(a); err != nil {
			t.Fatalf("Add account: %v", err)
		}
	}

	tx := jgnash.NewTransaction(date.New(2026, 3, 1))
	tx.Payee = "Landlord"
	tx.Memo = "March rent"
	if err := tx.AddTransferEntry(rent.ID, checking.ID, decimal.New(85050, -2), "rent"); err != nil {
		t.Fatalf("AddTransferEntry: %v", err)
	}
	if err := s.Transactions().Add(tx); err != nil {
		t.Fatalf("Add transaction: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s = open()
	got, err := s.Transactions().FindByID(tx.ID)
	if err != nil {
		t.Fatalf("FindByID after reopen: %v", err)
	}
	if got.Payee != "Landlord" || got.Date != date.New(2026, 3, 1) {
		t.Fatalf("reloaded transaction = %+v", got)
	}
	if len(got.Entries()) != 1 {
		t.Fatalf("reloaded entries = %d, want 1", len(got.Entries()))
	}
	if !got.Amount(checking.ID).Equal(decimal.New(-85050, -2)) {
		t.Fatalf("amount for checking = %s, want -850.50", got.Amount(checking.ID))
	}

	if err := s.Transactions().Remove(got); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s = open()
	defer s.Close()
	list, err := s.Transactions().List()
	if err != nil {
		t.Fatalf("List after removal: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("transactions after removal = %d, want 0", len(list))
	}
}

func testExchangeRateRoundTrip(t *testing.T, open opener) {
	s := open()

	rate, err := jgnash.NewExchangeRate("USD", "EUR")
	if err != nil {
		t.Fatalf("NewExchangeRate: %v", err)
	}
	if err := rate.SetRate(date.New(2026, 1, 10), decimal.RequireFromString("1.02")); err != nil {
		t.Fatalf("SetRate: %v", err)
	}
	if err := rate.SetRate(date.New(2026, 2, 10), decimal.RequireFromString("1.01")); err != nil {
		t.Fatalf("SetRate: %v", err)
	}
	if err := s.ExchangeRates().Add(rate); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s = open()
	defer s.Close()
	got, err := s.ExchangeRates().FindByID(rate.ID)
	if err != nil {
		t.Fatalf("FindByID after reopen: %v", err)
	}
	if got.Base != "EUR" || got.Quote != "USD" {
		t.Fatalf("reloaded pair = %s/%s, want canonical EUR/USD", got.Base, got.Quote)
	}
	on, err := got.RateOn(date.New(2026, 1, 31))
	if err != nil {
		t.Fatalf("RateOn: %v", err)
	}
	if !on.Equal(decimal.RequireFromString("1.02")) {
		t.Fatalf("RateOn(2026-01-31) = %s, want 1.02", on)
	}
}
