package jgnash_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cheezecat/jgnash"
	"github.com/cheezecat/jgnash/date"
	"github.com/cheezecat/jgnash/storage/memfile"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// openEngine boots an engine over the flat-file backend at path, creating
// the book on first use.
func openEngine(t *testing.T, path string) *jgnash.Engine {
	t.Helper()
	ds, err := memfile.Open(path)
	if err != nil {
		t.Fatalf("Open store: %v", err)
	}
	registry, err := jgnash.NewCurrencyRegistry("EUR")
	if err != nil {
		t.Fatalf("NewCurrencyRegistry: %v", err)
	}
	e, err := jgnash.New(ds, registry)
	if err != nil {
		t.Fatalf("New engine: %v", err)
	}
	return e
}

func newEngine(t *testing.T) *jgnash.Engine {
	t.Helper()
	return openEngine(t, filepath.Join(t.TempDir(), "book.jdb"))
}

// addAccount creates and attaches an account under the root.
func addAccount(t *testing.T, e *jgnash.Engine, name string, kind jgnash.AccountType, currency string) *jgnash.Account {
	t.Helper()
	a := jgnash.NewAccount(kind, currency)
	a.Name = name
	if err := e.AddAccount("", a); err != nil {
		t.Fatalf("AddAccount(%s): %v", name, err)
	}
	return a
}

func TestNewSeedsRoot(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	root := e.RootAccount()
	if root == nil || root.Type != jgnash.AccountRoot {
		t.Fatalf("root = %+v", root)
	}
	if root.Currency != "EUR" {
		t.Errorf("root currency = %s", root.Currency)
	}
	if got := e.FileVersion(); got != jgnash.CurrentFileVersion {
		t.Errorf("FileVersion = %v", got)
	}
}

func TestAddAccountRules(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	checking := addAccount(t, e, "Checking", jgnash.AccountBank, "EUR")

	// Sibling names must be unique under one parent.
	dup := jgnash.NewAccount(jgnash.AccountBank, "EUR")
	dup.Name = "Checking"
	if err := e.AddAccount("", dup); err == nil {
		t.Error("duplicate sibling name accepted")
	}
	// The same name is fine under a different parent.
	nested := jgnash.NewAccount(jgnash.AccountBank, "EUR")
	nested.Name = "Checking"
	if err := e.AddAccount(checking.ID, nested); err != nil {
		t.Errorf("same name under other parent rejected: %v", err)
	}

	if err := e.AddAccount("", jgnash.NewAccount(jgnash.AccountBank, "EUR")); err == nil {
		t.Error("unnamed account accepted")
	}
	orphan := jgnash.NewAccount(jgnash.AccountBank, "EUR")
	orphan.Name = "Orphan"
	if err := e.AddAccount(jgnash.NewID(), orphan); !jgnash.IsNotFound(err) {
		t.Errorf("unknown parent = %v, want not-found", err)
	}
	bogus := jgnash.NewAccount(jgnash.AccountBank, "ZZZ")
	bogus.Name = "Bogus"
	if err := e.AddAccount("", bogus); err == nil {
		t.Error("unknown currency accepted")
	}
}

func TestAccountLookups(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	savings := jgnash.NewAccount(jgnash.AccountAsset, "EUR")
	savings.ID = "c93972f6-fdd5-402e-b314-fc8402d2c51f"
	savings.Name = "Savings"
	savings.Code = 2
	if err := e.AddAccount("", savings); err != nil {
		t.Fatal(err)
	}
	addAccount(t, e, "Checking", jgnash.AccountBank, "EUR")

	// Legacy unhyphenated identifiers resolve.
	got, err := e.AccountByID("c93972f6fdd5402eb314fc8402d2c51f")
	if err != nil {
		t.Fatalf("AccountByID legacy: %v", err)
	}
	if got.Name != "Savings" {
		t.Errorf("resolved %q", got.Name)
	}

	if _, err := e.AccountByName("Savings"); err != nil {
		t.Errorf("AccountByName: %v", err)
	}
	if _, err := e.AccountByName("Nope"); !jgnash.IsNotFound(err) {
		t.Errorf("AccountByName miss = %v", err)
	}

	// Accounts excludes the root.
	for _, a := range e.Accounts() {
		if a.Type == jgnash.AccountRoot {
			t.Error("Accounts includes the root")
		}
	}

	// Returned accounts are detached copies.
	got.Name = "Hacked"
	again, err := e.AccountByID(savings.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Name != "Savings" {
		t.Error("engine state mutated through a returned copy")
	}
}

func TestModifyAccount(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	a := addAccount(t, e, "Checking", jgnash.AccountBank, "EUR")
	a.Description = "main account"
	a.SetAttribute("iban", "DE02120300000000202051")
	if err := e.ModifyAccount(a); err != nil {
		t.Fatal(err)
	}
	got, err := e.AccountByID(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "main account" || got.Attribute("iban") == "" {
		t.Errorf("modification lost: %+v", got)
	}

	// A locked account rejects modification.
	locked := jgnash.NewAccount(jgnash.AccountBank, "EUR")
	locked.Name = "Frozen"
	locked.Locked = true
	if err := e.AddAccount("", locked); err != nil {
		t.Fatal(err)
	}
	locked.Description = "still frozen"
	if err := e.ModifyAccount(locked); err == nil {
		t.Error("locked account modified")
	}
}

func TestRemoveAccountRules(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	parent := addAccount(t, e, "Assets", jgnash.AccountAsset, "EUR")
	child := jgnash.NewAccount(jgnash.AccountBank, "EUR")
	child.Name = "Checking"
	if err := e.AddAccount(parent.ID, child); err != nil {
		t.Fatal(err)
	}

	if err := e.RemoveAccount(parent.ID); err == nil {
		t.Error("account with children removed")
	}
	if err := e.RemoveAccount(e.RootAccount().ID); err == nil {
		t.Error("root account removed")
	}

	income := addAccount(t, e, "Salary", jgnash.AccountIncome, "EUR")
	tx := jgnash.NewTransaction(date.New(2026, time.January, 15))
	if err := tx.AddTransferEntry(child.ID, income.ID, dec("100"), ""); err != nil {
		t.Fatal(err)
	}
	if err := e.AddTransaction(tx); err != nil {
		t.Fatal(err)
	}
	if err := e.RemoveAccount(child.ID); err == nil {
		t.Error("account with transactions removed")
	}

	// Removing the transaction unblocks the account.
	if err := e.RemoveTransaction(tx.ID); err != nil {
		t.Fatal(err)
	}
	if err := e.RemoveAccount(child.ID); err != nil {
		t.Errorf("RemoveAccount: %v", err)
	}
	if _, err := e.AccountByID(child.ID); !jgnash.IsNotFound(err) {
		t.Errorf("removed account still resolvable: %v", err)
	}
}

func TestAddTransactionValidation(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	checking := addAccount(t, e, "Checking", jgnash.AccountBank, "EUR")
	rent := addAccount(t, e, "Rent", jgnash.AccountExpense, "EUR")

	empty := jgnash.NewTransaction(date.New(2026, time.March, 1))
	if err := e.AddTransaction(empty); err == nil {
		t.Error("transaction without entries accepted")
	}

	unknown := jgnash.NewTransaction(date.New(2026, time.March, 1))
	if err := unknown.AddTransferEntry(jgnash.NewID(), checking.ID, dec("10"), ""); err != nil {
		t.Fatal(err)
	}
	if err := e.AddTransaction(unknown); err == nil {
		t.Error("transaction on unknown account accepted")
	}

	// Entries that do not net to zero are rejected with no partial effect.
	lopsided := jgnash.NewTransaction(date.New(2026, time.March, 1))
	if err := lopsided.AddEntry(jgnash.TransactionEntry{
		CreditAccountID: rent.ID,
		DebitAccountID:  checking.ID,
		CreditAmount:    dec("100"),
		DebitAmount:     dec("-90"),
	}); err != nil {
		t.Fatal(err)
	}
	if err := e.AddTransaction(lopsided); err == nil {
		t.Error("unbalanced transaction accepted")
	}
	if got := e.Transactions(); len(got) != 0 {
		t.Fatalf("ledger holds %d transactions after rejections", len(got))
	}

	ok := jgnash.NewTransaction(date.New(2026, time.March, 1))
	if err := ok.AddTransferEntry(rent.ID, checking.ID, dec("850.50"), "march"); err != nil {
		t.Fatal(err)
	}
	if err := e.AddTransaction(ok); err != nil {
		t.Fatalf("balanced transaction rejected: %v", err)
	}
	if err := e.AddTransaction(ok); err == nil {
		t.Error("same transaction id accepted twice")
	}

	balance, err := e.Balance(checking.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !balance.Equal(dec("-850.50")) {
		t.Errorf("checking balance = %s, want -850.50", balance)
	}
}

func TestMultiCurrencyTransaction(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	checking := addAccount(t, e, "Checking", jgnash.AccountBank, "EUR")
	broker := addAccount(t, e, "Broker", jgnash.AccountAsset, "USD")

	if err := e.SetExchangeRate("EUR", "USD", dec("1.25"), date.New(2026, time.January, 1)); err != nil {
		t.Fatal(err)
	}

	// 100 EUR out of checking funds 125 USD at the broker: balanced at the
	// rate in effect on the transaction date.
	tx := jgnash.NewTransaction(date.New(2026, time.February, 1))
	if err := tx.AddEntry(jgnash.TransactionEntry{
		CreditAccountID: broker.ID,
		DebitAccountID:  checking.ID,
		CreditAmount:    dec("125"),
		DebitAmount:     dec("-100"),
	}); err != nil {
		t.Fatal(err)
	}
	if err := e.AddTransaction(tx); err != nil {
		t.Fatalf("cross-currency transaction rejected: %v", err)
	}

	// The same amounts no longer balance at a different rate.
	if err := e.SetExchangeRate("EUR", "USD", dec("2"), date.New(2026, time.March, 1)); err != nil {
		t.Fatal(err)
	}
	stale := jgnash.NewTransaction(date.New(2026, time.March, 2))
	if err := stale.AddEntry(jgnash.TransactionEntry{
		CreditAccountID: broker.ID,
		DebitAccountID:  checking.ID,
		CreditAmount:    dec("125"),
		DebitAmount:     dec("-100"),
	}); err != nil {
		t.Fatal(err)
	}
	if err := e.AddTransaction(stale); err == nil {
		t.Error("transaction balanced at an outdated rate accepted")
	}
}

func TestBalanceInUsesEntryDateRates(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	checking := addAccount(t, e, "Checking", jgnash.AccountBank, "EUR")
	salary := addAccount(t, e, "Salary", jgnash.AccountIncome, "EUR")

	if err := e.SetExchangeRate("EUR", "USD", dec("1.25"), date.New(2026, time.January, 10)); err != nil {
		t.Fatal(err)
	}
	if err := e.SetExchangeRate("EUR", "USD", dec("1.10"), date.New(2026, time.February, 10)); err != nil {
		t.Fatal(err)
	}

	for _, on := range []date.Date{
		date.New(2026, time.January, 15),
		date.New(2026, time.February, 15),
	} {
		tx := jgnash.NewTransaction(on)
		if err := tx.AddTransferEntry(checking.ID, salary.ID, dec("100"), "pay"); err != nil {
			t.Fatal(err)
		}
		if err := e.AddTransaction(tx); err != nil {
			t.Fatal(err)
		}
	}

	// Each deposit converts at the rate of its own date: 125 + 110, not
	// 2 x 110 at the latest rate.
	got, err := e.BalanceIn(checking.ID, date.New(2026, time.December, 31), "USD")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(dec("235")) {
		t.Errorf("BalanceIn = %s, want 235", got)
	}

	// As-of filtering keeps later entries out.
	asOf, err := e.BalanceAsOf(checking.ID, date.New(2026, time.January, 31))
	if err != nil {
		t.Fatal(err)
	}
	if !asOf.Equal(dec("100")) {
		t.Errorf("BalanceAsOf = %s, want 100", asOf)
	}
}

func TestTransactionRoundTripThroughReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.jdb")
	e := openEngine(t, path)

	checking := addAccount(t, e, "Checking", jgnash.AccountBank, "EUR")
	rent := addAccount(t, e, "Rent", jgnash.AccountExpense, "EUR")
	tx := jgnash.NewTransaction(date.New(2026, time.March, 1))
	tx.Payee = "Landlord"
	if err := tx.AddTransferEntry(rent.ID, checking.ID, dec("850.50"), ""); err != nil {
		t.Fatal(err)
	}
	if err := e.AddTransaction(tx); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}

	e = openEngine(t, path)
	got, err := e.TransactionByID(tx.ID)
	if err != nil {
		t.Fatalf("transaction lost on reload: %v", err)
	}
	if got.Payee != "Landlord" || !got.Amount(checking.ID).Equal(dec("-850.50")) {
		t.Errorf("reloaded transaction = %+v", got)
	}
	balance, err := e.Balance(checking.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !balance.Equal(dec("-850.50")) {
		t.Errorf("reloaded cached balance = %s", balance)
	}

	if err := e.RemoveTransaction(tx.ID); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}

	e = openEngine(t, path)
	defer e.Close()
	if got := e.Transactions(); len(got) != 0 {
		t.Fatalf("ledger holds %d transactions after removal and reload", len(got))
	}
}

func TestTransactionsByPayee(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	checking := addAccount(t, e, "Checking", jgnash.AccountBank, "EUR")
	shopping := addAccount(t, e, "Shopping", jgnash.AccountExpense, "EUR")

	for i, payee := range []string{"Amazon EU S.a.r.l.", "AMAZON", "Local store"} {
		tx := jgnash.NewTransaction(date.New(2026, time.March, 1+i))
		tx.Payee = payee
		if err := tx.AddTransferEntry(shopping.ID, checking.ID, dec("10"), ""); err != nil {
			t.Fatal(err)
		}
		if err := e.AddTransaction(tx); err != nil {
			t.Fatal(err)
		}
	}

	got, err := e.TransactionsByPayee("amaz*")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("TransactionsByPayee = %d matches, want 2", len(got))
	}
}

func TestSetReconciledThroughEngine(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	checking := addAccount(t, e, "Checking", jgnash.AccountBank, "EUR")
	rent := addAccount(t, e, "Rent", jgnash.AccountExpense, "EUR")
	tx := jgnash.NewTransaction(date.New(2026, time.March, 1))
	if err := tx.AddTransferEntry(rent.ID, checking.ID, dec("100"), ""); err != nil {
		t.Fatal(err)
	}
	if err := e.AddTransaction(tx); err != nil {
		t.Fatal(err)
	}

	if err := e.SetReconciled(tx.ID, checking.ID, jgnash.Reconciled); err != nil {
		t.Fatal(err)
	}
	got, err := e.TransactionByID(tx.ID)
	if err != nil {
		t.Fatal(err)
	}
	if state, _ := got.ReconciledFor(checking.ID); state != jgnash.Reconciled {
		t.Errorf("checking state = %v", state)
	}
	if state, _ := got.ReconciledFor(rent.ID); state != jgnash.NotReconciled {
		t.Errorf("rent state = %v, reconciliation leaked across accounts", state)
	}
}

func TestBudgetRoundTripThroughReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.jdb")
	e := openEngine(t, path)

	household := addAccount(t, e, "Household", jgnash.AccountExpense, "EUR")

	budget := jgnash.NewBudget()
	budget.SetName("2026 plan")
	goal := jgnash.NewBudgetGoal()
	values := make([]decimal.Decimal, jgnash.PeriodsPerYear)
	for i := range values {
		values[i] = decimal.New(int64(i*31+7), -4)
	}
	if err := goal.SetGoals(values); err != nil {
		t.Fatal(err)
	}
	if err := budget.SetBudgetGoal(household, goal); err != nil {
		t.Fatal(err)
	}

	// A budget naming an unknown account is rejected.
	phantom := jgnash.NewBudget()
	phantom.SetName("phantom")
	phantom.SetGoalByAccountID(jgnash.NewID(), jgnash.NewBudgetGoal())
	if err := e.AddBudget(phantom); err == nil {
		t.Error("budget with unknown account accepted")
	}

	if err := e.AddBudget(budget); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}

	e = openEngine(t, path)
	defer e.Close()
	got, err := e.BudgetByID(budget.ID)
	if err != nil {
		t.Fatalf("budget lost on reload: %v", err)
	}
	if got.Name() != "2026 plan" || got.BudgetPeriod() != budget.BudgetPeriod() {
		t.Errorf("reloaded budget = %q %v", got.Name(), got.BudgetPeriod())
	}
	reloaded := got.GoalByAccountID(household.ID)
	if reloaded == nil {
		t.Fatal("goal vector lost on reload")
	}
	tolerance := dec("0.0001")
	for i, want := range values {
		if reloaded.Goals()[i].Sub(want).Abs().GreaterThan(tolerance) {
			t.Fatalf("goal[%d] = %s, want %s", i, reloaded.Goals()[i], want)
		}
	}

	if err := e.RemoveBudget(budget.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := e.BudgetByID(budget.ID); !jgnash.IsNotFound(err) {
		t.Errorf("removed budget still resolvable: %v", err)
	}
}

func TestSetExchangeRateReciprocal(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	on := date.New(2026, time.March, 1)
	// Recording USD->EUR stores the reciprocal on the canonical EUR/USD series.
	if err := e.SetExchangeRate("USD", "EUR", dec("0.8"), on); err != nil {
		t.Fatal(err)
	}

	forward, err := e.Rate("EUR", "USD", on)
	if err != nil {
		t.Fatal(err)
	}
	if !forward.Equal(dec("1.25")) {
		t.Errorf("EUR->USD = %s, want 1.25", forward)
	}
	reverse, err := e.Rate("USD", "EUR", on)
	if err != nil {
		t.Fatal(err)
	}
	if !reverse.Equal(dec("0.8")) {
		t.Errorf("USD->EUR = %s, want 0.8", reverse)
	}

	same, err := e.Rate("EUR", "EUR", on)
	if err != nil {
		t.Fatal(err)
	}
	if !same.Equal(decimal.NewFromInt(1)) {
		t.Errorf("EUR->EUR = %s, want 1", same)
	}

	series, err := e.ExchangeRateFor("USD", "EUR")
	if err != nil {
		t.Fatal(err)
	}
	if series.Base != "EUR" || series.Quote != "USD" {
		t.Errorf("series pair = %s/%s", series.Base, series.Quote)
	}

	if err := e.SetExchangeRate("EUR", "USD", decimal.Zero, on); err == nil {
		t.Error("zero rate accepted")
	}
}

func TestEngineEvents(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	events := make(chan jgnash.Event, 8)
	e.MessageBus().Subscribe(func(ev jgnash.Event) { events <- ev })

	a := addAccount(t, e, "Checking", jgnash.AccountBank, "EUR")

	select {
	case ev := <-events:
		if ev.Type != jgnash.EventAccountAdded || ev.EntityID != a.ID {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

// commitFailStore wraps a DataStore with a commit that can be made to fail,
// standing in for a full disk or a dropped database connection.
type commitFailStore struct {
	jgnash.DataStore
	fail bool
}

func (s *commitFailStore) Commit() error {
	if s.fail {
		return errors.New("commit refused")
	}
	return s.DataStore.Commit()
}

func TestCommitFailureLeavesNoPartialState(t *testing.T) {
	ds, err := memfile.Open(filepath.Join(t.TempDir(), "book.jdb"))
	if err != nil {
		t.Fatal(err)
	}
	store := &commitFailStore{DataStore: ds}
	registry, err := jgnash.NewCurrencyRegistry("EUR")
	if err != nil {
		t.Fatal(err)
	}
	e, err := jgnash.New(store, registry)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	checking := addAccount(t, e, "Checking", jgnash.AccountBank, "EUR")
	groceries := addAccount(t, e, "Groceries", jgnash.AccountExpense, "EUR")

	first := jgnash.NewTransaction(date.New(2026, time.March, 1))
	if err := first.AddTransferEntry(groceries.ID, checking.ID, dec("100"), ""); err != nil {
		t.Fatal(err)
	}
	if err := e.AddTransaction(first); err != nil {
		t.Fatal(err)
	}
	if err := e.SetExchangeRate("EUR", "USD", dec("1.10"), date.New(2026, time.February, 1)); err != nil {
		t.Fatal(err)
	}

	store.fail = true

	second := jgnash.NewTransaction(date.New(2026, time.March, 2))
	if err := second.AddTransferEntry(groceries.ID, checking.ID, dec("40"), ""); err != nil {
		t.Fatal(err)
	}
	if err := e.AddTransaction(second); err == nil {
		t.Fatal("AddTransaction succeeded with a failing commit")
	}
	if got := e.Transactions(); len(got) != 1 {
		t.Fatalf("transactions after rejected add = %d, want 1", len(got))
	}
	if got, _ := e.Balance(checking.ID); !got.Equal(dec("-100")) {
		t.Errorf("checking balance after rejected add = %s, want -100", got)
	}
	if a, _ := e.AccountByID(checking.ID); a.TransactionCount() != 1 {
		t.Errorf("checking transaction count after rejected add = %d, want 1", a.TransactionCount())
	}

	if err := e.RemoveTransaction(first.ID); err == nil {
		t.Fatal("RemoveTransaction succeeded with a failing commit")
	}
	if got := e.Transactions(); len(got) != 1 {
		t.Fatalf("transactions after rejected remove = %d, want 1", len(got))
	}
	if got, _ := e.Balance(checking.ID); !got.Equal(dec("-100")) {
		t.Errorf("checking balance after rejected remove = %s, want -100", got)
	}

	renamed, err := e.AccountByID(checking.ID)
	if err != nil {
		t.Fatal(err)
	}
	renamed.Name = "Renamed"
	if err := e.ModifyAccount(renamed); err == nil {
		t.Fatal("ModifyAccount succeeded with a failing commit")
	}
	if a, _ := e.AccountByID(checking.ID); a.Name != "Checking" {
		t.Errorf("account name after rejected modify = %q, want Checking", a.Name)
	}

	if err := e.SetReconciled(first.ID, checking.ID, jgnash.Reconciled); err == nil {
		t.Fatal("SetReconciled succeeded with a failing commit")
	}
	tx, err := e.TransactionByID(first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if state, _ := tx.ReconciledFor(checking.ID); state != jgnash.NotReconciled {
		t.Errorf("reconciled state after rejected set = %s, want not-reconciled", state)
	}

	if err := e.SetExchangeRate("EUR", "USD", dec("1.25"), date.New(2026, time.March, 1)); err == nil {
		t.Fatal("SetExchangeRate succeeded with a failing commit")
	}
	if rate, err := e.Rate("EUR", "USD", date.New(2026, time.March, 1)); err != nil || !rate.Equal(dec("1.10")) {
		t.Errorf("rate after rejected set = %s (%v), want 1.10", rate, err)
	}

	// Once the store recovers, mutations go through cleanly again.
	store.fail = false
	third := jgnash.NewTransaction(date.New(2026, time.March, 3))
	if err := third.AddTransferEntry(groceries.ID, checking.ID, dec("40"), ""); err != nil {
		t.Fatal(err)
	}
	if err := e.AddTransaction(third); err != nil {
		t.Fatalf("AddTransaction after recovery: %v", err)
	}
	if got, _ := e.Balance(checking.ID); !got.Equal(dec("-140")) {
		t.Errorf("checking balance after recovery = %s, want -140", got)
	}
}
