package memfile

import (
	"fmt"

	"github.com/cheezecat/jgnash"
)

// collection is the in-memory working set of one entity kind. The
// soft-delete filter lives here and nowhere else: List strips entities
// marked for removal, FindByID does not, and Commit purges them.
type collection[T jgnash.Entity] struct {
	store *Store
	byID  map[string]T
	order []string // insertion order, the backend's stable list order
}

func newCollection[T jgnash.Entity](s *Store) *collection[T] {
	return &collection[T]{store: s, byID: make(map[string]T)}
}

// put registers a decoded entity without locking; used only during Open.
func (c *collection[T]) put(e T) error {
	if _, exists := c.byID[e.EntityID()]; exists {
		return fmt.Errorf("duplicate %T identifier %s", e, e.EntityID())
	}
	c.byID[e.EntityID()] = e
	c.order = append(c.order, e.EntityID())
	return nil
}

func (c *collection[T]) List() ([]T, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		if e := c.byID[id]; e.EntityStatus() != jgnash.MarkedForRemoval {
			out = append(out, e)
		}
	}
	return out, nil
}

func (c *collection[T]) Add(e T) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if e.EntityID() == "" {
		return jgnash.NewBackendFault(backendName, "add", fmt.Errorf("entity without identifier"))
	}
	if _, exists := c.byID[e.EntityID()]; exists {
		return jgnash.NewBackendFault(backendName, "add",
			fmt.Errorf("identifier %s already stored", e.EntityID()))
	}
	return c.put(e)
}

func (c *collection[T]) Update(e T) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if _, exists := c.byID[e.EntityID()]; !exists {
		return fmt.Errorf("update %s: %w", e.EntityID(), jgnash.ErrNotFound)
	}
	c.byID[e.EntityID()] = e
	return nil
}

func (c *collection[T]) Remove(e T) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	stored, exists := c.byID[e.EntityID()]
	if !exists {
		return fmt.Errorf("remove %s: %w", e.EntityID(), jgnash.ErrNotFound)
	}
	stored.SetEntityStatus(jgnash.MarkedForRemoval)
	e.SetEntityStatus(jgnash.MarkedForRemoval)
	return nil
}

func (c *collection[T]) FindByID(id string) (T, error) {
	var zero T
	fixed, err := jgnash.FixUUID(id)
	if err != nil {
		return zero, err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	e, exists := c.byID[fixed]
	if !exists {
		return zero, fmt.Errorf("find %s: %w", fixed, jgnash.ErrNotFound)
	}
	return e, nil
}

// Refresh is a no-op: the store has no write-ahead cache, the in-memory
// entity is the backing state until commit.
func (c *collection[T]) Refresh(e T) error {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()
	if _, exists := c.byID[e.EntityID()]; !exists {
		return fmt.Errorf("refresh %s: %w", e.EntityID(), jgnash.ErrNotFound)
	}
	return nil
}

// purge drops entities marked for removal; called at the commit boundary
// under the store lock.
func (c *collection[T]) purge() {
	var kept []string
	for _, id := range c.order {
		if c.byID[id].EntityStatus() == jgnash.MarkedForRemoval {
			delete(c.byID, id)
		} else {
			kept = append(kept, id)
		}
	}
	c.order = kept
}

// all returns the active entities in list order; called under the store lock.
func (c *collection[T]) all() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		if e := c.byID[id]; e.EntityStatus() != jgnash.MarkedForRemoval {
			out = append(out, e)
		}
	}
	return out
}
