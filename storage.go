package jgnash

// EntityStatus tags the persistence state of an entity. Soft deletion keeps
// the entity retrievable by identifier for referential integrity during the
// deletion transaction while excluding it from all list queries.
type EntityStatus string

const (
	Active           EntityStatus = "active"
	MarkedForRemoval EntityStatus = "marked-for-removal"
)

// Entity is implemented by every persisted type. Identifiers are assigned at
// creation and never reassigned.
type Entity interface {
	EntityID() string
	EntityStatus() EntityStatus
	SetEntityStatus(EntityStatus)
}

func (a *Account) EntityID() string               { return a.ID }
func (a *Account) EntityStatus() EntityStatus     { return a.Status }
func (a *Account) SetEntityStatus(s EntityStatus) { a.Status = s }

func (t *Transaction) EntityID() string               { return t.ID }
func (t *Transaction) EntityStatus() EntityStatus     { return t.Status }
func (t *Transaction) SetEntityStatus(s EntityStatus) { t.Status = s }

func (b *Budget) EntityID() string               { return b.ID }
func (b *Budget) EntityStatus() EntityStatus     { return b.Status }
func (b *Budget) SetEntityStatus(s EntityStatus) { b.Status = s }

func (r *ExchangeRate) EntityID() string               { return r.ID }
func (r *ExchangeRate) EntityStatus() EntityStatus     { return r.Status }
func (r *ExchangeRate) SetEntityStatus(s EntityStatus) { r.Status = s }

func (c *CurrencyNode) EntityID() string               { return c.ID }
func (c *CurrencyNode) EntityStatus() EntityStatus     { return c.Status }
func (c *CurrencyNode) SetEntityStatus(s EntityStatus) { c.Status = s }

// EntityStore is the capability contract a backend implements for one entity
// kind. Both backends must produce identical externally observable results
// for list filtering, soft-delete visibility and identifier round-tripping;
// list order is backend-chosen but stable.
type EntityStore[T Entity] interface {
	// List returns the active entities, excluding anything marked for removal.
	List() ([]T, error)
	// Add stores a new entity.
	Add(T) error
	// Update persists the current state of a stored entity.
	Update(T) error
	// Remove marks the entity for removal. It disappears from List but stays
	// resolvable by FindByID until the removal commit completes.
	Remove(T) error
	// FindByID resolves an entity by identifier, soft-deleted ones included.
	// Returns ErrNotFound when no entity ever carried the identifier.
	FindByID(id string) (T, error)
	// Refresh reloads the entity state from the backing store, discarding
	// uncommitted in-memory edits. A no-op is acceptable for backends
	// without write-ahead caching.
	Refresh(T) error
}

type (
	AccountStore      = EntityStore[*Account]
	TransactionStore  = EntityStore[*Transaction]
	BudgetStore       = EntityStore[*Budget]
	ExchangeRateStore = EntityStore[*ExchangeRate]
	CurrencyStore     = EntityStore[*CurrencyNode]
)

// CurrentFileVersion is the persisted file format version written by both
// backends.
const CurrentFileVersion = 3.0

// DataStore is the aggregate storage contract. The engine and all call
// sites depend only on this interface, never on a concrete backend.
type DataStore interface {
	Accounts() AccountStore
	Transactions() TransactionStore
	Budgets() BudgetStore
	ExchangeRates() ExchangeRateStore
	Currencies() CurrencyStore

	// Commit makes all prior writes durable. Backends with per-operation
	// durability may make this a no-op.
	Commit() error
	// Close commits and releases the underlying store.
	Close() error
	// FileVersion reports the format version of the opened store.
	FileVersion() float64
}
