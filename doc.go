// Package jgnash provides a complete double-entry accounting engine for
// personal finance. It is designed to be local-first and auditable, keeping
// every account, transaction, budget and exchange rate under the user's
// control in files they own.
//
// The core functionalities include:
//   - Account Hierarchy: A single rooted tree of typed accounts (bank,
//     income, expense, asset, liability, ...) where every account carries
//     its own currency and user attributes.
//   - Double-Entry Transactions: Each transaction records balanced entries
//     across two or more accounts, with per-account reconciliation state
//     and multi-currency amounts validated against recorded exchange rates.
//   - Budgets: Per-account goal vectors addressed by period descriptors
//     (daily through yearly), with exact decimal arithmetic throughout.
//   - Exchange Rates: Dated rate series between currency pairs, stored in
//     canonical order and queried as-of any date.
//   - Data Persistence: Pluggable stores behind a common interface, with a
//     human-readable flat-file backend and a relational SQLite backend that
//     share one wire encoding.
//
// This package serves as the foundational logic for the `jgnash`
// command-line tool, ensuring that all operations are consistent and based
// on a single source of truth.
package jgnash
