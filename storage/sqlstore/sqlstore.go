// Package sqlstore implements the storage contract over an embedded SQLite
// database. Writes accumulate in one SQL transaction per engine operation
// and become visible at the commit boundary; entities marked for removal are
// purged when the boundary completes.
package sqlstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/cheezecat/jgnash"

	_ "modernc.org/sqlite"
)

const backendName = "sqlstore"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store is the relational DataStore implementation.
type Store struct {
	mu      sync.Mutex
	db      *sql.DB
	tx      *sql.Tx // open write boundary, nil between commits
	version float64

	accounts     *table[*jgnash.Account]
	transactions *table[*jgnash.Transaction]
	budgets      *table[*jgnash.Budget]
	rates        *table[*jgnash.ExchangeRate]
	currencies   *table[*jgnash.CurrencyNode]
}

// Open opens (creating if needed) the database at path and migrates its
// schema to the current version.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, jgnash.NewBackendFault(backendName, "open", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, jgnash.NewBackendFault(backendName, "open", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, jgnash.NewBackendFault(backendName, "open", err)
	}
	// A single connection keeps the write boundary and reads on one session.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, jgnash.NewBackendFault(backendName, "migrate", err)
	}

	s := &Store{db: db}
	if err := s.initVersion(); err != nil {
		db.Close()
		return nil, err
	}
	s.accounts = newTable(s, "accounts", func() *jgnash.Account { return new(jgnash.Account) })
	s.transactions = newTable(s, "transactions", func() *jgnash.Transaction { return new(jgnash.Transaction) })
	s.budgets = newTable(s, "budgets", func() *jgnash.Budget { return new(jgnash.Budget) })
	s.rates = newTable(s, "exchange_rates", func() *jgnash.ExchangeRate { return new(jgnash.ExchangeRate) })
	s.currencies = newTable(s, "currencies", func() *jgnash.CurrencyNode { return new(jgnash.CurrencyNode) })
	return s, nil
}

func runMigrations(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (s *Store) initVersion() error {
	_, err := s.db.Exec(
		`INSERT INTO metadata (key, value) VALUES ('version', ?) ON CONFLICT (key) DO NOTHING`,
		strconv.FormatFloat(jgnash.CurrentFileVersion, 'f', -1, 64))
	if err != nil {
		return jgnash.NewBackendFault(backendName, "version", err)
	}
	var raw string
	if err := s.db.QueryRow(`SELECT value FROM metadata WHERE key = 'version'`).Scan(&raw); err != nil {
		return jgnash.NewBackendFault(backendName, "version", err)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return jgnash.NewBackendFault(backendName, "version", fmt.Errorf("malformed version %q", raw))
	}
	s.version = v
	return nil
}

// querier abstracts the open write boundary from the plain connection.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// writer returns the open write boundary, beginning one lazily. Callers
// hold s.mu.
func (s *Store) writer() (querier, error) {
	if s.tx != nil {
		return s.tx, nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return nil, jgnash.NewBackendFault(backendName, "begin", err)
	}
	s.tx = tx
	return tx, nil
}

// reader returns the querier reads should go through so that reads inside a
// write boundary observe its writes. Callers hold s.mu.
func (s *Store) reader() querier {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *Store) Accounts() jgnash.AccountStore           { return s.accounts }
func (s *Store) Transactions() jgnash.TransactionStore   { return s.transactions }
func (s *Store) Budgets() jgnash.BudgetStore             { return s.budgets }
func (s *Store) ExchangeRates() jgnash.ExchangeRateStore { return s.rates }
func (s *Store) Currencies() jgnash.CurrencyStore        { return s.currencies }

// FileVersion reports the format version of the opened database.
func (s *Store) FileVersion() float64 { return s.version }

// Commit completes the current write boundary: rows marked for removal are
// purged and the SQL transaction is committed. With no boundary open it is
// a no-op.
func (s *Store) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx == nil {
		return nil
	}
	for _, name := range []string{"accounts", "transactions", "budgets", "exchange_rates", "currencies"} {
		if _, err := s.tx.Exec(
			`DELETE FROM `+name+` WHERE status = ?`, string(jgnash.MarkedForRemoval)); err != nil {
			s.tx.Rollback()
			s.tx = nil
			return jgnash.NewBackendFault(backendName, "commit", err)
		}
	}
	if err := s.tx.Commit(); err != nil {
		s.tx = nil
		return jgnash.NewBackendFault(backendName, "commit", err)
	}
	s.tx = nil
	return nil
}

// Close commits any open boundary and closes the database.
func (s *Store) Close() error {
	if err := s.Commit(); err != nil {
		s.db.Close()
		return err
	}
	if err := s.db.Close(); err != nil {
		return jgnash.NewBackendFault(backendName, "close", err)
	}
	return nil
}

var _ jgnash.DataStore = (*Store)(nil)

// GetFileVersion reads the persisted format version without booting an
// engine. The credential is accepted for contract compatibility; plain
// databases ignore it.
func GetFileVersion(path, _ string) (float64, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, jgnash.NewBackendFault(backendName, "version", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, jgnash.NewBackendFault(backendName, "version", err)
	}
	defer db.Close()

	var raw string
	if err := db.QueryRow(`SELECT value FROM metadata WHERE key = 'version'`).Scan(&raw); err != nil {
		return 0, jgnash.NewBackendFault(backendName, "version", err)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, jgnash.NewBackendFault(backendName, "version", fmt.Errorf("malformed version %q", raw))
	}
	return v, nil
}
