package jgnash

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType categorizes an account within the tree.
type AccountType int

const (
	AccountAsset AccountType = iota
	AccountBank
	AccountCash
	AccountChecking
	AccountCredit
	AccountEquity
	AccountExpense
	AccountIncome
	AccountInvestment
	AccountLiability
	AccountRoot
)

func (t AccountType) String() string {
	switch t {
	case AccountAsset:
		return "asset"
	case AccountBank:
		return "bank"
	case AccountCash:
		return "cash"
	case AccountChecking:
		return "checking"
	case AccountCredit:
		return "credit"
	case AccountEquity:
		return "equity"
	case AccountExpense:
		return "expense"
	case AccountIncome:
		return "income"
	case AccountInvestment:
		return "investment"
	case AccountLiability:
		return "liability"
	case AccountRoot:
		return "root"
	default:
		panic(fmt.Sprintf("unknown account type %d", t))
	}
}

// ParseAccountType parses a string into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch strings.ToLower(s) {
	case "asset":
		return AccountAsset, nil
	case "bank":
		return AccountBank, nil
	case "cash":
		return AccountCash, nil
	case "checking":
		return AccountChecking, nil
	case "credit":
		return AccountCredit, nil
	case "equity":
		return AccountEquity, nil
	case "expense":
		return AccountExpense, nil
	case "income":
		return AccountIncome, nil
	case "investment":
		return AccountInvestment, nil
	case "liability":
		return AccountLiability, nil
	case "root":
		return AccountRoot, nil
	default:
		return 0, fmt.Errorf("unknown account type: %q", s)
	}
}

// Account is a node of the account tree. Parent and children are stored as
// identifier links rather than pointers so the tree serializes without
// cycles; the engine resolves links through its account arena.
type Account struct {
	ID       string
	Status   EntityStatus
	ParentID string // empty for the root account

	Name        string
	Description string
	Number      string
	Code        int // sibling sort order
	Type        AccountType
	Currency    string // native currency symbol

	Placeholder bool
	Locked      bool
	Visible     bool

	attributes map[string]string
	childIDs   []string
	txIDs      []string

	cachedBalance decimal.Decimal
}

// NewAccount creates an account of the given type denominated in the given
// currency.
func NewAccount(t AccountType, currency string) *Account {
	return &Account{
		ID:         NewID(),
		Type:       t,
		Currency:   currency,
		Visible:    true,
		attributes: make(map[string]string),
	}
}

// NewRootAccount creates the root of an account tree. The root has no parent
// and needs no currency conversion for itself.
func NewRootAccount(currency string) *Account {
	a := NewAccount(AccountRoot, currency)
	a.Name = "Root Account"
	a.Placeholder = true
	return a
}

// SetAttribute stores an ad hoc metadata key/value pair on the account.
// An empty value removes the key.
func (a *Account) SetAttribute(key, value string) {
	if a.attributes == nil {
		a.attributes = make(map[string]string)
	}
	if value == "" {
		delete(a.attributes, key)
		return
	}
	a.attributes[key] = value
}

// Attribute returns the metadata value for the given key, or "".
func (a *Account) Attribute(key string) string { return a.attributes[key] }

// AttributeKeys returns the metadata keys in alphabetical order.
func (a *Account) AttributeKeys() []string {
	keys := make([]string, 0, len(a.attributes))
	for k := range a.attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ChildIDs returns the identifiers of the direct children, ordered by
// account code then name.
func (a *Account) ChildIDs() []string { return slices.Clone(a.childIDs) }

// TransactionIDs returns the identifiers of the transactions the account
// participates in.
func (a *Account) TransactionIDs() []string { return slices.Clone(a.txIDs) }

// TransactionCount returns the number of transactions the account
// participates in.
func (a *Account) TransactionCount() int { return len(a.txIDs) }

// CachedBalance returns the balance maintained incrementally by the engine,
// in the account's native currency.
func (a *Account) CachedBalance() decimal.Decimal { return a.cachedBalance }

func (a *Account) addChild(id string)    { a.childIDs = append(a.childIDs, id) }
func (a *Account) removeChild(id string) { a.childIDs = deleteString(a.childIDs, id) }

func (a *Account) addTransaction(id string) {
	if a.hasTransaction(id) {
		return
	}
	a.txIDs = append(a.txIDs, id)
}
func (a *Account) removeTransaction(id string) {
	a.txIDs = deleteString(a.txIDs, id)
}

func (a *Account) hasTransaction(id string) bool { return slices.Contains(a.txIDs, id) }

func deleteString(s []string, v string) []string {
	if i := slices.Index(s, v); i >= 0 {
		return slices.Delete(s, i, i+1)
	}
	return s
}

// Clone returns a deep copy of the account, detached from the arena.
func (a *Account) Clone() *Account {
	c := *a
	c.attributes = make(map[string]string, len(a.attributes))
	for k, v := range a.attributes {
		c.attributes[k] = v
	}
	c.childIDs = slices.Clone(a.childIDs)
	c.txIDs = slices.Clone(a.txIDs)
	return &c
}

// restore rebuilds the unexported persisted state; backends call it when
// loading an account.
func (a *Account) restore(attributes map[string]string, txIDs []string, balance decimal.Decimal) {
	if attributes == nil {
		attributes = make(map[string]string)
	}
	a.attributes = attributes
	a.txIDs = txIDs
	a.cachedBalance = balance
}

// sortChildren orders the child identifiers by account code then name for a
// stable tree listing.
func (a *Account) sortChildren(byID func(string) *Account) {
	sort.SliceStable(a.childIDs, func(i, j int) bool {
		ci, cj := byID(a.childIDs[i]), byID(a.childIDs[j])
		if ci == nil || cj == nil {
			return ci != nil
		}
		if ci.Code != cj.Code {
			return ci.Code < cj.Code
		}
		return ci.Name < cj.Name
	})
}
