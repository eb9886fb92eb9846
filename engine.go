package jgnash

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/cheezecat/jgnash/date"
	"github.com/shopspring/decimal"
)

// Engine is the facade over a DataStore. It validates every mutation before
// any state change, keeps the account arena and caches consistent, and posts
// domain events after successful mutations.
//
// A single mutex guards each write-then-commit sequence so a reader never
// observes a half-committed entity graph; read operations take the shared
// side of the lock. The engine assumes a single logical writer per store.
type Engine struct {
	mu sync.RWMutex

	ds         DataStore
	currencies *CurrencyRegistry
	bus        *MessageBus
	log        *slog.Logger

	rootID   string
	accounts map[string]*Account
	txs      map[string]*Transaction
	budgets  map[string]*Budget
	rates    map[string]*ExchangeRate // keyed by canonical pair id
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger the engine reports through.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithMessageBus sets the bus domain events are posted to.
func WithMessageBus(b *MessageBus) Option { return func(e *Engine) { e.bus = b } }

// New opens an engine over the given store. The account tree, ledger,
// budgets and exchange rates are loaded from the store; an empty store is
// seeded with a root account in the registry's default currency.
func New(ds DataStore, currencies *CurrencyRegistry, opts ...Option) (*Engine, error) {
	if ds == nil {
		return nil, newValidationError("store", "nil data store")
	}
	if currencies == nil {
		return nil, newValidationError("currencies", "nil currency registry")
	}

	e := &Engine{
		ds:         ds,
		currencies: currencies,
		bus:        NewMessageBus(),
		log:        slog.Default(),
		accounts:   make(map[string]*Account),
		txs:        make(map[string]*Transaction),
		budgets:    make(map[string]*Budget),
		rates:      make(map[string]*ExchangeRate),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.load(); err != nil {
		return nil, err
	}
	return e, nil
}

// load populates the in-memory working set from the store.
func (e *Engine) load() error {
	nodes, err := e.ds.Currencies().List()
	if err != nil {
		return fmt.Errorf("load currencies: %w", err)
	}
	for _, node := range nodes {
		e.currencies.restore(node)
	}

	accounts, err := e.ds.Accounts().List()
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	for _, a := range accounts {
		e.accounts[a.ID] = a
		if a.Type == AccountRoot {
			if e.rootID == "" {
				e.rootID = a.ID
			} else {
				// Recoverable anomaly: keep the first root discovered.
				e.log.Warn("more than one root account found", "kept", e.rootID, "ignored", a.ID)
			}
		}
	}
	if e.rootID == "" {
		if err := e.seedRoot(); err != nil {
			return err
		}
	}
	// Rebuild child links from the persisted parent references.
	for _, a := range e.accounts {
		if a.ParentID != "" {
			if parent, ok := e.accounts[a.ParentID]; ok {
				parent.addChild(a.ID)
			}
		}
	}
	for _, a := range e.accounts {
		a.sortChildren(func(id string) *Account { return e.accounts[id] })
	}

	txs, err := e.ds.Transactions().List()
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	for _, tx := range txs {
		e.txs[tx.ID] = tx
	}

	budgets, err := e.ds.Budgets().List()
	if err != nil {
		return fmt.Errorf("load budgets: %w", err)
	}
	for _, b := range budgets {
		e.budgets[b.ID] = b
	}

	rates, err := e.ds.ExchangeRates().List()
	if err != nil {
		return fmt.Errorf("load exchange rates: %w", err)
	}
	for _, r := range rates {
		e.rates[r.PairID()] = r
	}
	return nil
}

func (e *Engine) seedRoot() error {
	root := NewRootAccount(e.currencies.Default().Symbol)
	if err := e.ds.Accounts().Add(root); err != nil {
		return fmt.Errorf("seed root account: %w", err)
	}
	if err := e.ds.Commit(); err != nil {
		return fmt.Errorf("seed root account: %w", err)
	}
	e.accounts[root.ID] = root
	e.rootID = root.ID
	return nil
}

// Close commits and releases the underlying store.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ds.Close()
}

// MessageBus returns the bus the engine posts domain events to.
func (e *Engine) MessageBus() *MessageBus { return e.bus }

// DefaultCurrency returns the default currency node.
func (e *Engine) DefaultCurrency() *CurrencyNode { return e.currencies.Default() }

// Currency resolves a currency node by symbol, declaring and persisting it on
// first use.
func (e *Engine) Currency(symbol string) (*CurrencyNode, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currency(symbol)
}

// currency resolves under the caller's lock.
func (e *Engine) currency(symbol string) (*CurrencyNode, error) {
	known := e.currencies.Has(symbol)
	node, err := e.currencies.Get(symbol)
	if err != nil {
		return nil, err
	}
	if !known {
		if err := e.ds.Currencies().Add(node); err != nil {
			return nil, err
		}
		if err := e.ds.Commit(); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// --- accounts ---

// RootAccount returns a detached copy of the root account.
func (e *Engine) RootAccount() *Account {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.accounts[e.rootID].Clone()
}

// AccountByID returns a detached copy of the account with the given
// identifier. Legacy unhyphenated identifiers are repaired before lookup.
func (e *Engine) AccountByID(id string) (*Account, error) {
	fixed, err := FixUUID(id)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, ok := e.accounts[fixed]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", fixed, ErrNotFound)
	}
	return a.Clone(), nil
}

// AccountByName returns the first visible account with the given name.
func (e *Engine) AccountByName(name string) (*Account, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, a := range e.sortedAccounts() {
		if a.Name == name {
			return a.Clone(), nil
		}
	}
	return nil, fmt.Errorf("account named %q: %w", name, ErrNotFound)
}

// Accounts returns detached copies of all accounts except the root, ordered
// by account code then name.
func (e *Engine) Accounts() []*Account {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []*Account
	for _, a := range e.sortedAccounts() {
		if a.ID != e.rootID {
			out = append(out, a.Clone())
		}
	}
	return out
}

// ChildAccounts returns detached copies of the direct children of the given
// account, in tree order.
func (e *Engine) ChildAccounts(parentID string) ([]*Account, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	parent, ok := e.accounts[parentID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", parentID, ErrNotFound)
	}
	out := make([]*Account, 0, len(parent.ChildIDs()))
	for _, id := range parent.ChildIDs() {
		if child, ok := e.accounts[id]; ok {
			out = append(out, child.Clone())
		}
	}
	return out, nil
}

func (e *Engine) sortedAccounts() []*Account {
	list := make([]*Account, 0, len(e.accounts))
	for _, a := range e.accounts {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Code != list[j].Code {
			return list[i].Code < list[j].Code
		}
		return list[i].Name < list[j].Name
	})
	return list
}

// AddAccount attaches the account under the given parent (the root when
// parentID is empty) and persists it.
func (e *Engine) AddAccount(parentID string, a *Account) error {
	if a == nil {
		return newValidationError("account", "nil account")
	}
	if a.Name == "" {
		return newValidationError("account", "empty name")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if parentID == "" {
		parentID = e.rootID
	}
	parent, ok := e.accounts[parentID]
	if !ok {
		return fmt.Errorf("parent account %s: %w", parentID, ErrNotFound)
	}
	if _, exists := e.accounts[a.ID]; exists {
		return newValidationError("account", fmt.Sprintf("identifier %s already stored", a.ID))
	}
	for _, id := range parent.ChildIDs() {
		if sib := e.accounts[id]; sib != nil && sib.Name == a.Name {
			return newValidationError("account", fmt.Sprintf("parent already has a child named %q", a.Name))
		}
	}
	if _, err := e.currency(a.Currency); err != nil {
		return err
	}

	stored := a.Clone()
	stored.ParentID = parent.ID
	stored.Status = Active
	if err := e.ds.Accounts().Add(stored); err != nil {
		return err
	}
	if err := e.ds.Commit(); err != nil {
		_ = e.ds.Accounts().Remove(stored)
		return err
	}
	e.accounts[stored.ID] = stored
	parent.addChild(stored.ID)
	parent.sortChildren(func(id string) *Account { return e.accounts[id] })
	a.ParentID = parent.ID

	e.log.Info("account added", "id", stored.ID, "name", stored.Name, "type", stored.Type.String())
	e.bus.Post(Event{Type: EventAccountAdded, EntityID: stored.ID})
	return nil
}

// ModifyAccount replaces the descriptive state of a stored account with the
// values carried by a. Structural links and caches are untouched.
func (e *Engine) ModifyAccount(a *Account) error {
	if a == nil {
		return newValidationError("account", "nil account")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	stored, ok := e.accounts[a.ID]
	if !ok {
		return fmt.Errorf("account %s: %w", a.ID, ErrNotFound)
	}
	if stored.Locked {
		return newValidationError("account", "account is locked")
	}
	// Stage the change on a clone; the arena only sees it once committed.
	next := stored.Clone()
	next.Name = a.Name
	next.Description = a.Description
	next.Number = a.Number
	next.Code = a.Code
	next.Placeholder = a.Placeholder
	next.Visible = a.Visible
	next.attributes = make(map[string]string)
	for _, k := range a.AttributeKeys() {
		next.attributes[k] = a.Attribute(k)
	}
	if err := e.ds.Accounts().Update(next); err != nil {
		return err
	}
	if err := e.ds.Commit(); err != nil {
		_ = e.ds.Accounts().Update(stored)
		return err
	}
	e.accounts[next.ID] = next
	e.bus.Post(Event{Type: EventAccountModified, EntityID: next.ID})
	return nil
}

// RemoveAccount marks the account for removal. The account must have no
// children and participate in no transaction.
func (e *Engine) RemoveAccount(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := e.accounts[id]
	if !ok {
		return fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	if id == e.rootID {
		return newValidationError("account", "cannot remove the root account")
	}
	if len(a.ChildIDs()) > 0 {
		return newValidationError("account", "account has child accounts")
	}
	if a.TransactionCount() > 0 {
		return newValidationError("account", "account participates in transactions")
	}

	if err := e.ds.Accounts().Remove(a.Clone()); err != nil {
		return err
	}
	if err := e.ds.Commit(); err != nil {
		a.Status = Active
		_ = e.ds.Accounts().Update(a)
		return err
	}
	if parent, ok := e.accounts[a.ParentID]; ok {
		parent.removeChild(id)
	}
	delete(e.accounts, id)

	e.log.Info("account removed", "id", id, "name", a.Name)
	e.bus.Post(Event{Type: EventAccountRemoved, EntityID: id})
	return nil
}

// --- transactions ---

// AddTransaction validates and records a transaction. It rejects, with no
// partial effect, transactions referencing unknown accounts or whose entries
// do not balance once converted to the default currency at the transaction
// date. On success each participating account's transaction list and cached
// balance are updated.
func (e *Engine) AddTransaction(tx *Transaction) error {
	if tx == nil {
		return newValidationError("transaction", "nil transaction")
	}
	if tx.Date.IsZero() {
		return newValidationError("transaction", "zero date")
	}
	if len(tx.Entries()) == 0 {
		return newValidationError("transaction", "no entries")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if tx.ID == "" {
		tx.ID = NewID()
	}
	if _, exists := e.txs[tx.ID]; exists {
		return newValidationError("transaction", fmt.Sprintf("identifier %s already stored", tx.ID))
	}
	for _, id := range tx.AccountIDs() {
		if _, ok := e.accounts[id]; !ok {
			return newValidationError("transaction", fmt.Sprintf("unknown account %s", id))
		}
	}
	if err := e.checkBalanced(tx); err != nil {
		return err
	}

	stored := tx.Clone()
	stored.Status = Active
	if err := e.ds.Transactions().Add(stored); err != nil {
		return err
	}
	// Stage the account cache updates on clones; the live arena only sees
	// them once the commit went through, so a failed commit leaves no
	// half-updated balance visible to readers.
	touched := make([]*Account, 0, 2)
	for _, id := range stored.AccountIDs() {
		a := e.accounts[id].Clone()
		a.addTransaction(stored.ID)
		a.cachedBalance = a.cachedBalance.Add(stored.Amount(id))
		touched = append(touched, a)
	}
	if err := e.commitAccounts(touched); err != nil {
		// Best effort store rollback; the arena was never touched.
		_ = e.ds.Transactions().Remove(stored)
		e.restoreAccounts(touched)
		return err
	}
	for _, a := range touched {
		e.accounts[a.ID] = a
	}
	e.txs[stored.ID] = stored

	e.log.Info("transaction added", "id", stored.ID, "date", stored.Date.String(), "payee", stored.Payee)
	e.bus.Post(Event{Type: EventTransactionAdded, EntityID: stored.ID})
	return nil
}

// commitAccounts persists staged account clones and commits.
func (e *Engine) commitAccounts(staged []*Account) error {
	for _, a := range staged {
		if err := e.ds.Accounts().Update(a); err != nil {
			return err
		}
	}
	return e.ds.Commit()
}

// restoreAccounts rewrites the store rows of the staged accounts from the
// arena, undoing a partially applied write. Errors are ignored: the store
// already reported a failure and the arena state stands.
func (e *Engine) restoreAccounts(staged []*Account) {
	for _, a := range staged {
		if cur, ok := e.accounts[a.ID]; ok {
			_ = e.ds.Accounts().Update(cur)
		}
	}
}

// checkBalanced verifies the double-entry law: the entry amounts, expressed
// in the default currency at the transaction date, must net to zero within
// one smallest unit of the default currency.
func (e *Engine) checkBalanced(tx *Transaction) error {
	base := e.currencies.Default().Symbol
	sum := decimal.Zero
	for _, entry := range tx.Entries() {
		credit, err := e.convert(entry.CreditAmount, e.accounts[entry.CreditAccountID].Currency, base, tx.Date)
		if err != nil {
			return err
		}
		debit, err := e.convert(entry.DebitAmount, e.accounts[entry.DebitAccountID].Currency, base, tx.Date)
		if err != nil {
			return err
		}
		sum = sum.Add(credit).Add(debit)
	}
	if sum.Abs().GreaterThan(SmallestUnit(base)) {
		return newValidationError("transaction", fmt.Sprintf("entries do not balance, off by %s %s", sum, base))
	}
	return nil
}

// convert expresses an amount of currency from in currency to, using the
// exchange rate as of the given date.
func (e *Engine) convert(amount decimal.Decimal, from, to string, on date.Date) (decimal.Decimal, error) {
	if from == to || amount.IsZero() {
		return amount, nil
	}
	series, ok := e.rates[ExchangeRateID(from, to)]
	if !ok {
		return decimal.Zero, newValidationError("exchange rate", fmt.Sprintf("no rate history for %s/%s", from, to))
	}
	rate, err := series.RateBetween(from, to, on)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}

// RemoveTransaction hard-removes the transaction from the active set and
// decrements the participating accounts' caches.
func (e *Engine) RemoveTransaction(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, ok := e.txs[id]
	if !ok {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	if err := e.ds.Transactions().Remove(tx.Clone()); err != nil {
		return err
	}
	// Same staging discipline as AddTransaction: clones first, arena after
	// the commit.
	touched := make([]*Account, 0, 2)
	for _, accountID := range tx.AccountIDs() {
		a := e.accounts[accountID].Clone()
		a.removeTransaction(id)
		a.cachedBalance = a.cachedBalance.Sub(tx.Amount(accountID))
		touched = append(touched, a)
	}
	if err := e.commitAccounts(touched); err != nil {
		tx.Status = Active
		_ = e.ds.Transactions().Update(tx)
		e.restoreAccounts(touched)
		return err
	}
	for _, a := range touched {
		e.accounts[a.ID] = a
	}
	delete(e.txs, id)

	e.log.Info("transaction removed", "id", id)
	e.bus.Post(Event{Type: EventTransactionRemoved, EntityID: id})
	return nil
}

// Transactions returns detached copies of all transactions in chronological
// order; mutating them does not affect the ledger.
func (e *Engine) Transactions() []*Transaction {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Transaction, 0, len(e.txs))
	for _, tx := range e.txs {
		out = append(out, tx.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Date.Compare(out[j].Date); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// TransactionByID returns a detached copy of the transaction with the given
// identifier.
func (e *Engine) TransactionByID(id string) (*Transaction, error) {
	fixed, err := FixUUID(id)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	tx, ok := e.txs[fixed]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", fixed, ErrNotFound)
	}
	return tx.Clone(), nil
}

// TransactionsByPayee returns detached copies of the transactions whose
// payee matches the pattern; '*' and '?' act as wildcards.
func (e *Engine) TransactionsByPayee(pattern string) ([]*Transaction, error) {
	re, err := compilePayeePattern(pattern)
	if err != nil {
		return nil, err
	}
	var out []*Transaction
	for _, tx := range e.Transactions() {
		if re.MatchString(tx.Payee) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// SetReconciled sets the reconciliation state of a (transaction, account)
// pair. States of other participating accounts are never implicitly changed
// and no state advances without an explicit request.
func (e *Engine) SetReconciled(txID, accountID string, state ReconciledState) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, ok := e.txs[txID]
	if !ok {
		return fmt.Errorf("transaction %s: %w", txID, ErrNotFound)
	}
	next := tx.Clone()
	if err := next.SetReconciled(accountID, state); err != nil {
		return err
	}
	if err := e.ds.Transactions().Update(next); err != nil {
		return err
	}
	if err := e.ds.Commit(); err != nil {
		_ = e.ds.Transactions().Update(tx)
		return err
	}
	e.txs[txID] = next
	return nil
}

// Balance returns the account's current balance in its native currency.
func (e *Engine) Balance(accountID string) (decimal.Decimal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, ok := e.accounts[accountID]
	if !ok {
		return decimal.Zero, fmt.Errorf("account %s: %w", accountID, ErrNotFound)
	}
	return a.CachedBalance(), nil
}

// BalanceAsOf returns the account's balance on the given date in its native
// currency: the signed sum of its entry amounts dated at or before it.
func (e *Engine) BalanceAsOf(accountID string, asOf date.Date) (decimal.Decimal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if _, ok := e.accounts[accountID]; !ok {
		return decimal.Zero, fmt.Errorf("account %s: %w", accountID, ErrNotFound)
	}
	sum := decimal.Zero
	for _, tx := range e.txs {
		if tx.Date.After(asOf) {
			continue
		}
		sum = sum.Add(tx.Amount(accountID))
	}
	return sum, nil
}

// BalanceIn expresses the account's balance on the given date in another
// currency. Each entry is converted at the exchange rate as of that entry's
// transaction date, not the query date; the distinction is what keeps
// historical balances correct.
func (e *Engine) BalanceIn(accountID string, asOf date.Date, currency string) (decimal.Decimal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, ok := e.accounts[accountID]
	if !ok {
		return decimal.Zero, fmt.Errorf("account %s: %w", accountID, ErrNotFound)
	}
	sum := decimal.Zero
	for _, tx := range e.txs {
		if tx.Date.After(asOf) {
			continue
		}
		amount := tx.Amount(accountID)
		if amount.IsZero() {
			continue
		}
		converted, err := e.convert(amount, a.Currency, currency, tx.Date)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(converted)
	}
	return sum, nil
}

// --- budgets ---

// AddBudget validates and persists a budget aggregate.
func (e *Engine) AddBudget(b *Budget) error {
	if b == nil {
		return newValidationError("budget", "nil budget")
	}
	if b.Name() == "" {
		return newValidationError("budget", "empty name")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.budgets[b.ID]; exists {
		return newValidationError("budget", fmt.Sprintf("identifier %s already stored", b.ID))
	}
	for _, id := range b.AccountIDs() {
		if _, ok := e.accounts[id]; !ok {
			return newValidationError("budget", fmt.Sprintf("unknown account %s", id))
		}
	}

	stored := b.Clone()
	stored.Status = Active
	if err := e.ds.Budgets().Add(stored); err != nil {
		return err
	}
	if err := e.ds.Commit(); err != nil {
		_ = e.ds.Budgets().Remove(stored)
		return err
	}
	e.budgets[stored.ID] = stored

	e.log.Info("budget added", "id", stored.ID, "name", stored.Name())
	e.bus.Post(Event{Type: EventBudgetAdded, EntityID: stored.ID})
	return nil
}

// UpdateBudget replaces the stored state of a budget aggregate.
func (e *Engine) UpdateBudget(b *Budget) error {
	if b == nil {
		return newValidationError("budget", "nil budget")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.budgets[b.ID]; !ok {
		return fmt.Errorf("budget %s: %w", b.ID, ErrNotFound)
	}
	for _, id := range b.AccountIDs() {
		if _, ok := e.accounts[id]; !ok {
			return newValidationError("budget", fmt.Sprintf("unknown account %s", id))
		}
	}
	stored := b.Clone()
	stored.Status = Active
	if err := e.ds.Budgets().Update(stored); err != nil {
		return err
	}
	if err := e.ds.Commit(); err != nil {
		_ = e.ds.Budgets().Update(e.budgets[b.ID])
		return err
	}
	e.budgets[stored.ID] = stored
	e.bus.Post(Event{Type: EventBudgetUpdated, EntityID: stored.ID})
	return nil
}

// RemoveBudget removes the budget aggregate; its goal vectors die with it.
func (e *Engine) RemoveBudget(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	b, ok := e.budgets[id]
	if !ok {
		return fmt.Errorf("budget %s: %w", id, ErrNotFound)
	}
	if err := e.ds.Budgets().Remove(b.Clone()); err != nil {
		return err
	}
	if err := e.ds.Commit(); err != nil {
		b.Status = Active
		_ = e.ds.Budgets().Update(b)
		return err
	}
	delete(e.budgets, id)

	e.log.Info("budget removed", "id", id, "name", b.Name())
	e.bus.Post(Event{Type: EventBudgetRemoved, EntityID: id})
	return nil
}

// Budgets returns detached copies of all budgets, ordered by name.
func (e *Engine) Budgets() []*Budget {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*Budget, 0, len(e.budgets))
	for _, b := range e.budgets {
		out = append(out, b.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// BudgetByID returns a detached copy of the budget with the given identifier.
func (e *Engine) BudgetByID(id string) (*Budget, error) {
	fixed, err := FixUUID(id)
	if err != nil {
		return nil, err
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.budgets[fixed]
	if !ok {
		return nil, fmt.Errorf("budget %s: %w", fixed, ErrNotFound)
	}
	return b.Clone(), nil
}

// --- exchange rates ---

// SetExchangeRate upserts the rate converting one unit of from into to on
// the given date. The canonical series stores the lexicographically ordered
// direction; a reversed call stores the reciprocal on the same series.
func (e *Engine) SetExchangeRate(from, to string, rate decimal.Decimal, on date.Date) error {
	if !rate.IsPositive() {
		return newValidationError("rate", fmt.Sprintf("rate must be positive, got %s", rate))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.currency(from); err != nil {
		return err
	}
	if _, err := e.currency(to); err != nil {
		return err
	}

	pairID := ExchangeRateID(from, to)
	series, ok := e.rates[pairID]
	// The new point is staged on a detached series; readers keep seeing the
	// stored one until the commit went through.
	var next *ExchangeRate
	if ok {
		next = series.Clone()
	} else {
		var err error
		next, err = NewExchangeRate(from, to)
		if err != nil {
			return err
		}
	}
	if from != next.Base {
		rate = decimal.NewFromInt(1).Div(rate)
	}
	if err := next.SetRate(on, rate); err != nil {
		return err
	}
	if ok {
		if err := e.ds.ExchangeRates().Update(next); err != nil {
			return err
		}
	} else {
		if err := e.ds.ExchangeRates().Add(next); err != nil {
			return err
		}
	}
	if err := e.ds.Commit(); err != nil {
		if ok {
			_ = e.ds.ExchangeRates().Update(series)
		} else {
			_ = e.ds.ExchangeRates().Remove(next)
		}
		return err
	}
	e.rates[pairID] = next
	e.bus.Post(Event{Type: EventExchangeRateAdded, EntityID: next.ID})
	return nil
}

// ExchangeRateFor returns a detached copy of the rate series of the
// unordered pair (from, to).
func (e *Engine) ExchangeRateFor(from, to string) (*ExchangeRate, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	series, ok := e.rates[ExchangeRateID(from, to)]
	if !ok {
		return nil, fmt.Errorf("exchange rate %s/%s: %w", from, to, ErrNotFound)
	}
	return series.Clone(), nil
}

// Rate returns the rate converting from into to as of the given date; the
// rate between a currency and itself is one.
func (e *Engine) Rate(from, to string, on date.Date) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	series, ok := e.rates[ExchangeRateID(from, to)]
	if !ok {
		return decimal.Zero, fmt.Errorf("exchange rate %s/%s: %w", from, to, ErrNotFound)
	}
	return series.RateBetween(from, to, on)
}

// FileVersion reports the format version of the opened store.
func (e *Engine) FileVersion() float64 { return e.ds.FileVersion() }

// IsNotFound reports whether err denotes a missing entity.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
