package jgnash

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cheezecat/jgnash/date"
)

func TestAddEntrySigns(t *testing.T) {
	tx := NewTransaction(date.New(2026, time.March, 1))

	if err := tx.AddEntry(TransactionEntry{DebitAccountID: "d"}); err == nil {
		t.Error("entry without credit account accepted")
	}
	if err := tx.AddEntry(TransactionEntry{
		CreditAccountID: "c", DebitAccountID: "d",
		CreditAmount: decimal.NewFromInt(-5),
	}); err == nil {
		t.Error("negative credit amount accepted")
	}
	if err := tx.AddEntry(TransactionEntry{
		CreditAccountID: "c", DebitAccountID: "d",
		DebitAmount: decimal.NewFromInt(5),
	}); err == nil {
		t.Error("positive debit amount accepted")
	}
	if err := tx.AddEntry(TransactionEntry{
		CreditAccountID: "c", DebitAccountID: "d",
		CreditAmount: decimal.NewFromInt(5),
		DebitAmount:  decimal.NewFromInt(-5),
	}); err != nil {
		t.Errorf("valid entry rejected: %v", err)
	}
}

func TestTransferEntry(t *testing.T) {
	tx := NewTransaction(date.New(2026, time.March, 1))
	if err := tx.AddTransferEntry("credit", "debit", decimal.NewFromInt(-10), ""); err == nil {
		t.Error("negative transfer amount accepted")
	}
	if err := tx.AddTransferEntry("credit", "debit", decimal.RequireFromString("10.50"), "move"); err != nil {
		t.Fatal(err)
	}
	if got := tx.Amount("credit"); !got.Equal(decimal.RequireFromString("10.50")) {
		t.Errorf("credit amount = %s", got)
	}
	if got := tx.Amount("debit"); !got.Equal(decimal.RequireFromString("-10.50")) {
		t.Errorf("debit amount = %s", got)
	}
	if got := tx.Amount("stranger"); !got.IsZero() {
		t.Errorf("non-participant amount = %s", got)
	}
	if !tx.Participates("credit") || tx.Participates("stranger") {
		t.Error("Participates broken")
	}
}

func TestReconciliationIsPerAccount(t *testing.T) {
	tx := NewTransaction(date.New(2026, time.March, 1))
	if err := tx.AddTransferEntry("credit", "debit", decimal.NewFromInt(10), ""); err != nil {
		t.Fatal(err)
	}

	if err := tx.SetReconciled("credit", Reconciled); err != nil {
		t.Fatal(err)
	}
	if got, _ := tx.ReconciledFor("credit"); got != Reconciled {
		t.Errorf("credit side = %v, want reconciled", got)
	}
	// The debit side keeps its own state.
	if got, _ := tx.ReconciledFor("debit"); got != NotReconciled {
		t.Errorf("debit side = %v, want not-reconciled", got)
	}

	if err := tx.SetReconciled("stranger", Cleared); err == nil {
		t.Error("non-participant reconciliation accepted")
	}
	if _, err := tx.ReconciledFor("stranger"); err == nil {
		t.Error("non-participant state readable")
	}
}

func TestNewTransactionWithNumber(t *testing.T) {
	template := NewTransaction(date.New(2026, time.March, 1))
	template.Payee = "Landlord"
	template.Number = "100"
	if err := template.AddTransferEntry("credit", "debit", decimal.NewFromInt(10), ""); err != nil {
		t.Fatal(err)
	}

	derived := NewTransactionWithNumber(template, "101")
	if derived.ID == template.ID {
		t.Error("derived transaction shares identity")
	}
	if derived.Number != "101" {
		t.Errorf("derived number = %q", derived.Number)
	}
	if derived.Payee != "Landlord" || derived.Date != template.Date {
		t.Error("derived transaction lost template fields")
	}
	if len(derived.Entries()) != 1 {
		t.Error("derived transaction lost entries")
	}
}

func TestCloneIsDetached(t *testing.T) {
	tx := NewTransaction(date.New(2026, time.March, 1))
	if err := tx.AddTransferEntry("credit", "debit", decimal.NewFromInt(10), ""); err != nil {
		t.Fatal(err)
	}
	c := tx.Clone()
	if err := c.SetReconciled("credit", Reconciled); err != nil {
		t.Fatal(err)
	}
	if got, _ := tx.ReconciledFor("credit"); got != NotReconciled {
		t.Error("clone shares entry storage")
	}
}

func TestPayeePattern(t *testing.T) {
	tests := []struct {
		pattern string
		payee   string
		want    bool
	}{
		{"amaz*", "Amazon EU S.a.r.l.", true},
		{"amaz*", "AMAZON", true},
		{"amaz*", "ebay", false},
		{"land?ord", "Landlord", true},
		{"land?ord", "Landord", false},
		{"exact", "exact", true},
		{"exact", "inexact", false},
		{"a.b", "a.b", true}, // regexp metacharacters are literal
		{"a.b", "axb", false},
	}
	for _, tc := range tests {
		re, err := compilePayeePattern(tc.pattern)
		if err != nil {
			t.Fatalf("compilePayeePattern(%q): %v", tc.pattern, err)
		}
		if got := re.MatchString(tc.payee); got != tc.want {
			t.Errorf("pattern %q against %q = %v, want %v", tc.pattern, tc.payee, got, tc.want)
		}
	}
}

func TestParseReconciledState(t *testing.T) {
	for _, s := range []string{"not-reconciled", "cleared", "reconciled"} {
		state, err := ParseReconciledState(s)
		if err != nil {
			t.Fatalf("ParseReconciledState(%q): %v", s, err)
		}
		if state.String() != s {
			t.Errorf("round trip %q -> %q", s, state.String())
		}
	}
	if _, err := ParseReconciledState("maybe"); err == nil {
		t.Error("unknown state accepted")
	}
}
