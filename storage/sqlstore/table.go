package sqlstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cheezecat/jgnash"
)

// table implements EntityStore for one entity kind. Every kind maps to the
// same row shape (id, status, payload); the serialized payload is the same
// document the flat-file backend writes, so the two backends cannot drift.
type table[T jgnash.Entity] struct {
	s    *Store
	name string
	make func() T
}

func newTable[T jgnash.Entity](s *Store, name string, make func() T) *table[T] {
	return &table[T]{s: s, name: name, make: make}
}

func (t *table[T]) fault(op string, err error) error {
	return jgnash.NewBackendFault(backendName, t.name+"."+op, err)
}

// List returns active entities in insertion order.
func (t *table[T]) List() ([]T, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	rows, err := t.s.reader().Query(
		`SELECT payload FROM `+t.name+` WHERE status != ? ORDER BY rowid`,
		string(jgnash.MarkedForRemoval))
	if err != nil {
		return nil, t.fault("list", err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, t.fault("list", err)
		}
		e := t.make()
		if err := json.Unmarshal(payload, e); err != nil {
			return nil, t.fault("list", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, t.fault("list", err)
	}
	return out, nil
}

func (t *table[T]) Add(e T) error {
	id := e.EntityID()
	if id == "" {
		return t.fault("add", errors.New("entity has no id"))
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return t.fault("add", err)
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	q, err := t.s.writer()
	if err != nil {
		return err
	}
	if _, err := q.Exec(
		`INSERT INTO `+t.name+` (id, status, payload) VALUES (?, ?, ?)`,
		id, string(e.EntityStatus()), payload); err != nil {
		return t.fault("add", fmt.Errorf("insert %s: %w", id, err))
	}
	return nil
}

func (t *table[T]) Update(e T) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return t.fault("update", err)
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	q, err := t.s.writer()
	if err != nil {
		return err
	}
	res, err := q.Exec(
		`UPDATE `+t.name+` SET status = ?, payload = ? WHERE id = ?`,
		string(e.EntityStatus()), payload, e.EntityID())
	if err != nil {
		return t.fault("update", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return t.fault("update", err)
	} else if n == 0 {
		return jgnash.ErrNotFound
	}
	return nil
}

// Remove marks the entity for removal. The row stays resolvable by id until
// the next commit boundary purges it.
func (t *table[T]) Remove(e T) error {
	e.SetEntityStatus(jgnash.MarkedForRemoval)
	payload, err := json.Marshal(e)
	if err != nil {
		return t.fault("remove", err)
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	q, err := t.s.writer()
	if err != nil {
		return err
	}
	res, err := q.Exec(
		`UPDATE `+t.name+` SET status = ?, payload = ? WHERE id = ?`,
		string(jgnash.MarkedForRemoval), payload, e.EntityID())
	if err != nil {
		return t.fault("remove", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return t.fault("remove", err)
	} else if n == 0 {
		return jgnash.ErrNotFound
	}
	return nil
}

// FindByID resolves an entity even while it is marked for removal. Legacy
// identifiers without hyphens are repaired before lookup.
func (t *table[T]) FindByID(id string) (T, error) {
	var zero T
	fixed, err := jgnash.FixUUID(id)
	if err != nil {
		return zero, fmt.Errorf("find %s: %w", id, jgnash.ErrNotFound)
	}

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	var payload []byte
	err = t.s.reader().QueryRow(
		`SELECT payload FROM `+t.name+` WHERE id = ?`, fixed).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, jgnash.ErrNotFound
	}
	if err != nil {
		return zero, t.fault("find", err)
	}
	e := t.make()
	if err := json.Unmarshal(payload, e); err != nil {
		return zero, t.fault("find", err)
	}
	return e, nil
}

// Refresh reloads the entity state from its stored row.
func (t *table[T]) Refresh(e T) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	var payload []byte
	err := t.s.reader().QueryRow(
		`SELECT payload FROM `+t.name+` WHERE id = ?`, e.EntityID()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return jgnash.ErrNotFound
	}
	if err != nil {
		return t.fault("refresh", err)
	}
	if err := json.Unmarshal(payload, e); err != nil {
		return t.fault("refresh", err)
	}
	return nil
}

var _ jgnash.AccountStore = (*table[*jgnash.Account])(nil)
