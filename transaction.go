package jgnash

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/cheezecat/jgnash/date"
	"github.com/shopspring/decimal"
)

// ReconciledState is the per-account confirmation status of a transaction,
// used for bank-statement matching.
type ReconciledState int

const (
	NotReconciled ReconciledState = iota
	Cleared
	Reconciled
)

func (s ReconciledState) String() string {
	switch s {
	case NotReconciled:
		return "not-reconciled"
	case Cleared:
		return "cleared"
	case Reconciled:
		return "reconciled"
	default:
		panic(fmt.Sprintf("unknown reconciled state %d", s))
	}
}

// ParseReconciledState parses a string into a ReconciledState.
func ParseReconciledState(s string) (ReconciledState, error) {
	switch strings.ToLower(s) {
	case "not-reconciled":
		return NotReconciled, nil
	case "cleared":
		return Cleared, nil
	case "reconciled":
		return Reconciled, nil
	default:
		return 0, fmt.Errorf("unknown reconciled state: %q", s)
	}
}

// TransactionEntry moves value from a debit account to a credit account.
// The two amounts are expressed in each account's native currency: the
// credit amount is non-negative, the debit amount non-positive, and the two
// net to zero once converted to a common currency at the transaction date.
type TransactionEntry struct {
	CreditAccountID string
	DebitAccountID  string

	CreditAmount decimal.Decimal // >= 0, in the credit account's currency
	DebitAmount  decimal.Decimal // <= 0, in the debit account's currency

	CreditReconciled ReconciledState
	DebitReconciled  ReconciledState

	Memo string
}

// Transaction is a dated double-entry record. Reconciliation is tracked per
// participating account, independently on each side of every entry.
type Transaction struct {
	ID     string
	Status EntityStatus

	Date       date.Date
	Payee      string
	Memo       string
	Number     string
	Attachment string // optional attachment reference

	entries []TransactionEntry
}

// NewTransaction creates an empty transaction dated on the given day.
func NewTransaction(on date.Date) *Transaction {
	return &Transaction{ID: NewID(), Date: on}
}

// NewTransactionWithNumber derives a new transaction from a template with the
// number replaced and a fresh identifier. It replaces generic clone-based
// renumbering: everything but number and identity is carried over verbatim.
func NewTransactionWithNumber(template *Transaction, number string) *Transaction {
	tx := template.Clone()
	tx.ID = NewID()
	tx.Number = number
	return tx
}

// AddEntry appends an entry after normalizing its signs.
func (t *Transaction) AddEntry(e TransactionEntry) error {
	if e.CreditAccountID == "" || e.DebitAccountID == "" {
		return newValidationError("entry", "missing credit or debit account")
	}
	if e.CreditAmount.IsNegative() {
		return newValidationError("entry", "credit amount must not be negative")
	}
	if e.DebitAmount.IsPositive() {
		return newValidationError("entry", "debit amount must not be positive")
	}
	t.entries = append(t.entries, e)
	return nil
}

// AddTransferEntry appends the balanced pair for a single-entry convenience
// transfer of the given amount between two same-currency accounts.
func (t *Transaction) AddTransferEntry(creditAccountID, debitAccountID string, amount decimal.Decimal, memo string) error {
	if amount.IsNegative() {
		return newValidationError("amount", "transfer amount must not be negative")
	}
	return t.AddEntry(TransactionEntry{
		CreditAccountID: creditAccountID,
		DebitAccountID:  debitAccountID,
		CreditAmount:    amount,
		DebitAmount:     amount.Neg(),
		Memo:            memo,
	})
}

// Entries returns a copy of the entry list.
func (t *Transaction) Entries() []TransactionEntry { return slices.Clone(t.entries) }

// AccountIDs returns the distinct identifiers of all participating accounts.
func (t *Transaction) AccountIDs() []string {
	var ids []string
	for _, e := range t.entries {
		if !slices.Contains(ids, e.CreditAccountID) {
			ids = append(ids, e.CreditAccountID)
		}
		if !slices.Contains(ids, e.DebitAccountID) {
			ids = append(ids, e.DebitAccountID)
		}
	}
	return ids
}

// Participates reports whether the account takes part in the transaction.
func (t *Transaction) Participates(accountID string) bool {
	return slices.Contains(t.AccountIDs(), accountID)
}

// SetReconciled sets the reconciliation state of every entry side touching
// the given account. Other accounts' states are never implicitly changed.
func (t *Transaction) SetReconciled(accountID string, state ReconciledState) error {
	if !t.Participates(accountID) {
		return fmt.Errorf("account %s does not participate in transaction %s: %w", accountID, t.ID, ErrNotFound)
	}
	for i := range t.entries {
		if t.entries[i].CreditAccountID == accountID {
			t.entries[i].CreditReconciled = state
		}
		if t.entries[i].DebitAccountID == accountID {
			t.entries[i].DebitReconciled = state
		}
	}
	return nil
}

// ReconciledFor returns the reconciliation state of the given account on the
// first entry that touches it.
func (t *Transaction) ReconciledFor(accountID string) (ReconciledState, error) {
	for _, e := range t.entries {
		if e.CreditAccountID == accountID {
			return e.CreditReconciled, nil
		}
		if e.DebitAccountID == accountID {
			return e.DebitReconciled, nil
		}
	}
	return 0, fmt.Errorf("account %s does not participate in transaction %s: %w", accountID, t.ID, ErrNotFound)
}

// Amount returns the signed effect of the transaction on the given account,
// in that account's native currency.
func (t *Transaction) Amount(accountID string) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range t.entries {
		if e.CreditAccountID == accountID {
			sum = sum.Add(e.CreditAmount)
		}
		if e.DebitAccountID == accountID {
			sum = sum.Add(e.DebitAmount)
		}
	}
	return sum
}

// Clone returns a deep copy, detached from the ledger.
func (t *Transaction) Clone() *Transaction {
	c := *t
	c.entries = slices.Clone(t.entries)
	return &c
}

// restoreEntries replaces the entry list; backends call it when loading.
func (t *Transaction) restoreEntries(entries []TransactionEntry) { t.entries = entries }

// compilePayeePattern turns a payee pattern with '*' and '?' wildcards into
// a case-insensitive matcher.
func compilePayeePattern(pattern string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(pattern)
	quoted = strings.ReplaceAll(quoted, `\*`, ".*")
	quoted = strings.ReplaceAll(quoted, `\?`, ".")
	re, err := regexp.Compile("(?i)^" + quoted + "$")
	if err != nil {
		return nil, newValidationError("payee pattern", err.Error())
	}
	return re, nil
}
