package jgnash

import (
	"fmt"

	"github.com/cheezecat/jgnash/date"
	"github.com/shopspring/decimal"
)

// ExchangeRateID is the canonical identity of an unordered currency pair:
// the two symbols in lexicographic order. A rate from A to B and one from B
// to A resolve from the same stored series.
func ExchangeRateID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + b
}

// ExchangeRate owns the dated rate history of one unordered currency pair.
// The stored rates convert Base into Quote; the reverse direction is the
// reciprocal of the same series.
type ExchangeRate struct {
	ID     string
	Status EntityStatus

	Base  string // lexicographically smaller symbol
	Quote string

	rates date.History[decimal.Decimal]
}

// NewExchangeRate creates an empty series for the unordered pair (a, b).
func NewExchangeRate(a, b string) (*ExchangeRate, error) {
	if a == b {
		return nil, newValidationError("currency pair", "identical currencies")
	}
	if err := ValidateCurrency(a); err != nil {
		return nil, err
	}
	if err := ValidateCurrency(b); err != nil {
		return nil, err
	}
	if a > b {
		a, b = b, a
	}
	return &ExchangeRate{ID: NewID(), Base: a, Quote: b}, nil
}

// PairID returns the canonical pair identity of the series.
func (r *ExchangeRate) PairID() string { return ExchangeRateID(r.Base, r.Quote) }

// SetRate upserts the base-to-quote rate on the given date; a second call
// for the same date overwrites.
func (r *ExchangeRate) SetRate(on date.Date, rate decimal.Decimal) error {
	if on.IsZero() {
		return newValidationError("date", "zero rate date")
	}
	if !rate.IsPositive() {
		return newValidationError("rate", fmt.Sprintf("rate must be positive, got %s", rate))
	}
	r.rates.Append(on, rate)
	return nil
}

// RemoveRate deletes the rate point at the given date, if any.
func (r *ExchangeRate) RemoveRate(on date.Date) { r.rates.Remove(on) }

// Rate returns the latest base-to-quote rate, or zero when the series is empty.
func (r *ExchangeRate) Rate() decimal.Decimal {
	_, rate := r.rates.Latest()
	return rate
}

// RateOn returns the base-to-quote rate as of the given date: the latest
// point dated at or before it, or the earliest available point when the date
// precedes all history. It fails only on an empty series.
func (r *ExchangeRate) RateOn(on date.Date) (decimal.Decimal, error) {
	if r.rates.Len() == 0 {
		return decimal.Zero, fmt.Errorf("no rate history for %s/%s: %w", r.Base, r.Quote, ErrNotFound)
	}
	if rate, ok := r.rates.ValueAsOf(on); ok {
		return rate, nil
	}
	_, earliest := r.rates.Earliest()
	return earliest, nil
}

// RateBetween returns the rate converting from into to as of the given date,
// inverting the stored direction when needed.
func (r *ExchangeRate) RateBetween(from, to string, on date.Date) (decimal.Decimal, error) {
	rate, err := r.RateOn(on)
	if err != nil {
		return decimal.Zero, err
	}
	switch {
	case from == r.Base && to == r.Quote:
		return rate, nil
	case from == r.Quote && to == r.Base:
		return decimal.NewFromInt(1).Div(rate), nil
	default:
		return decimal.Zero, newValidationError("currency pair",
			fmt.Sprintf("series %s/%s cannot convert %s to %s", r.Base, r.Quote, from, to))
	}
}

// Points returns the dated rate points in chronological order.
func (r *ExchangeRate) Points() (days []date.Date, rates []decimal.Decimal) {
	for on, rate := range r.rates.Values() {
		days = append(days, on)
		rates = append(rates, rate)
	}
	return days, rates
}

// Clone returns a deep copy, detached from the engine.
func (r *ExchangeRate) Clone() *ExchangeRate {
	c := &ExchangeRate{ID: r.ID, Status: r.Status, Base: r.Base, Quote: r.Quote}
	for on, rate := range r.rates.Values() {
		c.rates.Append(on, rate)
	}
	return c
}
