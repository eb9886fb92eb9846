package jgnash

import (
	"fmt"
	"sort"

	"github.com/Rhymond/go-money"
)

// CurrencyNode describes a commodity used to denominate accounts and
// transaction entries. The monetary metadata (fraction digits, symbol)
// comes from the go-money currency table.
type CurrencyNode struct {
	ID          string       `json:"id"`
	Symbol      string       `json:"symbol"` // ISO 4217 code, e.g. "USD"
	Description string       `json:"description"`
	Status      EntityStatus `json:"status"`
}

// Fraction returns the number of minor-unit digits for the currency.
func (c *CurrencyNode) Fraction() int {
	return money.New(0, c.Symbol).Currency().Fraction
}

func (c *CurrencyNode) String() string { return c.Symbol }

// CurrencyRegistry resolves CurrencyNodes by symbol and exposes the default
// currency. It is explicitly constructed and passed around, never a process
// global.
type CurrencyRegistry struct {
	nodes         map[string]*CurrencyNode
	defaultSymbol string
}

// NewCurrencyRegistry creates a registry with the given default currency symbol.
func NewCurrencyRegistry(defaultSymbol string) (*CurrencyRegistry, error) {
	if err := ValidateCurrency(defaultSymbol); err != nil {
		return nil, fmt.Errorf("invalid default currency: %w", err)
	}
	r := &CurrencyRegistry{nodes: make(map[string]*CurrencyNode), defaultSymbol: defaultSymbol}
	r.nodes[defaultSymbol] = &CurrencyNode{ID: NewID(), Symbol: defaultSymbol, Description: money.GetCurrency(defaultSymbol).Code}
	return r, nil
}

// ValidateCurrency returns an error when the symbol is not a known ISO 4217 code.
func ValidateCurrency(symbol string) error {
	if money.GetCurrency(symbol) == nil {
		return newValidationError("currency", fmt.Sprintf("unknown currency code %q", symbol))
	}
	return nil
}

// Default returns the registry's default currency node.
func (r *CurrencyRegistry) Default() *CurrencyNode { return r.nodes[r.defaultSymbol] }

// Get returns the node for the given symbol, declaring it on first use.
func (r *CurrencyRegistry) Get(symbol string) (*CurrencyNode, error) {
	if node, ok := r.nodes[symbol]; ok {
		return node, nil
	}
	if err := ValidateCurrency(symbol); err != nil {
		return nil, err
	}
	node := &CurrencyNode{ID: NewID(), Symbol: symbol, Description: money.GetCurrency(symbol).Code}
	r.nodes[symbol] = node
	return node, nil
}

// Has reports whether the symbol is already declared in the registry.
func (r *CurrencyRegistry) Has(symbol string) bool {
	_, ok := r.nodes[symbol]
	return ok
}

// Symbols returns the declared currency symbols in alphabetical order.
func (r *CurrencyRegistry) Symbols() []string {
	symbols := make([]string, 0, len(r.nodes))
	for s := range r.nodes {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// restore re-registers a node loaded from a backend, keeping its identifier.
func (r *CurrencyRegistry) restore(node *CurrencyNode) {
	r.nodes[node.Symbol] = node
}
