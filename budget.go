package jgnash

import (
	"fmt"

	"github.com/cheezecat/jgnash/date"
	"github.com/shopspring/decimal"
)

// BudgetGoal holds the per-period goal amounts of one account within a
// budget: a fixed-length vector of exact decimal values indexed by period
// start index, plus the period type the goals were entered against.
type BudgetGoal struct {
	goals  []decimal.Decimal
	period date.Period
}

// NewBudgetGoal returns a goal vector with every slot set to zero and a
// monthly period.
func NewBudgetGoal() *BudgetGoal {
	return &BudgetGoal{goals: make([]decimal.Decimal, PeriodsPerYear), period: date.Monthly}
}

// SetGoals replaces the goal vector. The slice must hold exactly
// PeriodsPerYear values.
func (g *BudgetGoal) SetGoals(values []decimal.Decimal) error {
	if len(values) != PeriodsPerYear {
		return newValidationError("goals", fmt.Sprintf("want %d values, got %d", PeriodsPerYear, len(values)))
	}
	g.goals = make([]decimal.Decimal, PeriodsPerYear)
	copy(g.goals, values)
	return nil
}

// Goals returns a copy of the goal vector; unset slots are zero, never missing.
func (g *BudgetGoal) Goals() []decimal.Decimal {
	out := make([]decimal.Decimal, PeriodsPerYear)
	copy(out, g.goals)
	return out
}

// SetGoal sets a single slot of the vector.
func (g *BudgetGoal) SetGoal(index int, value decimal.Decimal) error {
	if index < 0 || index >= PeriodsPerYear {
		return newValidationError("goal index", fmt.Sprintf("index %d outside [0,%d)", index, PeriodsPerYear))
	}
	g.goals[index] = value
	return nil
}

// Goal returns the summed goal over the index span of the given descriptor.
func (g *BudgetGoal) Goal(d PeriodDescriptor) decimal.Decimal {
	sum := decimal.Zero
	for i := d.StartPeriod(); i <= d.EndPeriod() && i < len(g.goals); i++ {
		sum = sum.Add(g.goals[i])
	}
	return sum
}

// SetBudgetPeriod sets the period type the goals are entered against.
func (g *BudgetGoal) SetBudgetPeriod(p date.Period) error {
	if !p.IsValid() {
		return newValidationError("period", fmt.Sprintf("unknown period %d", int(p)))
	}
	g.period = p
	return nil
}

// BudgetPeriod returns the period type of the goal vector.
func (g *BudgetGoal) BudgetPeriod() date.Period { return g.period }

// clone returns a deep copy of the goal vector.
func (g *BudgetGoal) clone() *BudgetGoal {
	c := &BudgetGoal{goals: g.Goals(), period: g.period}
	return c
}

// Budget is a named collection of goal vectors keyed by account identifier,
// with a budget-wide default period type. It is persisted as a whole
// aggregate: removing a budget removes its goal vectors with it.
type Budget struct {
	ID          string
	Status      EntityStatus
	name        string
	description string
	period      date.Period
	goals       map[string]*BudgetGoal // account id -> goal vector
}

// NewBudget creates an empty budget with a monthly default period.
func NewBudget() *Budget {
	return &Budget{ID: NewID(), period: date.Monthly, goals: make(map[string]*BudgetGoal)}
}

func (b *Budget) Name() string        { return b.name }
func (b *Budget) SetName(n string)    { b.name = n }
func (b *Budget) Description() string { return b.description }
func (b *Budget) SetDescription(d string) {
	b.description = d
}

// SetBudgetPeriod sets the budget-wide default period type. Already assigned
// goal vectors keep their own period type.
func (b *Budget) SetBudgetPeriod(p date.Period) error {
	if !p.IsValid() {
		return newValidationError("period", fmt.Sprintf("unknown period %d", int(p)))
	}
	b.period = p
	return nil
}

// BudgetPeriod returns the budget-wide default period type.
func (b *Budget) BudgetPeriod() date.Period { return b.period }

// SetBudgetGoal assigns the goal vector of the given account, replacing any
// previous one.
func (b *Budget) SetBudgetGoal(account *Account, goal *BudgetGoal) error {
	if account == nil {
		return newValidationError("account", "nil account")
	}
	if goal == nil {
		return newValidationError("goal", "nil goal vector")
	}
	b.goals[account.ID] = goal
	return nil
}

// BudgetGoal returns the goal vector of the given account, or nil when the
// account has none.
func (b *Budget) BudgetGoal(account *Account) *BudgetGoal {
	if account == nil {
		return nil
	}
	return b.goals[account.ID]
}

// RemoveBudgetGoal drops the goal vector of the given account.
func (b *Budget) RemoveBudgetGoal(account *Account) {
	if account != nil {
		delete(b.goals, account.ID)
	}
}

// AccountIDs returns the identifiers of the accounts that have a goal vector.
func (b *Budget) AccountIDs() []string {
	ids := make([]string, 0, len(b.goals))
	for id := range b.goals {
		ids = append(ids, id)
	}
	return ids
}

// GoalByAccountID returns the goal vector keyed by raw account identifier.
// Backends use it to persist the aggregate.
func (b *Budget) GoalByAccountID(id string) *BudgetGoal { return b.goals[id] }

// SetGoalByAccountID assigns a goal vector by raw account identifier.
// Backends use it to restore the aggregate.
func (b *Budget) SetGoalByAccountID(id string, goal *BudgetGoal) { b.goals[id] = goal }

// Clone returns a deep copy, detached from the original.
func (b *Budget) Clone() *Budget {
	c := &Budget{
		ID:          b.ID,
		Status:      b.Status,
		name:        b.name,
		description: b.description,
		period:      b.period,
		goals:       make(map[string]*BudgetGoal, len(b.goals)),
	}
	for id, g := range b.goals {
		c.goals[id] = g.clone()
	}
	return c
}
