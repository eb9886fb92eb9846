package jgnash

// This file defines the persisted JSON form of every entity. Both storage
// backends marshal through these methods so that a close/reopen cycle is
// identical in user-observable behavior regardless of the backend.

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cheezecat/jgnash/date"
	"github.com/shopspring/decimal"
)

type jAccount struct {
	ID          string            `json:"id"`
	Status      EntityStatus      `json:"status"`
	ParentID    string            `json:"parent,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Number      string            `json:"number,omitempty"`
	Code        int               `json:"code,omitempty"`
	Type        string            `json:"type"`
	Currency    string            `json:"currency"`
	Placeholder bool              `json:"placeholder,omitempty"`
	Locked      bool              `json:"locked,omitempty"`
	Visible     bool              `json:"visible"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Txs         []string          `json:"transactions,omitempty"`
	Balance     decimal.Decimal   `json:"balance"`
}

func (a *Account) MarshalJSON() ([]byte, error) {
	j := jAccount{
		ID:          a.ID,
		Status:      a.Status,
		ParentID:    a.ParentID,
		Name:        a.Name,
		Description: a.Description,
		Number:      a.Number,
		Code:        a.Code,
		Type:        a.Type.String(),
		Currency:    a.Currency,
		Placeholder: a.Placeholder,
		Locked:      a.Locked,
		Visible:     a.Visible,
		Txs:         a.txIDs,
		Balance:     a.cachedBalance,
	}
	if len(a.attributes) > 0 {
		j.Attributes = a.attributes
	}
	return json.Marshal(j)
}

func (a *Account) UnmarshalJSON(b []byte) error {
	var j jAccount
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	t, err := ParseAccountType(j.Type)
	if err != nil {
		return err
	}
	a.ID = j.ID
	a.Status = j.Status
	a.ParentID = j.ParentID
	a.Name = j.Name
	a.Description = j.Description
	a.Number = j.Number
	a.Code = j.Code
	a.Type = t
	a.Currency = j.Currency
	a.Placeholder = j.Placeholder
	a.Locked = j.Locked
	a.Visible = j.Visible
	a.restore(j.Attributes, j.Txs, j.Balance)
	return nil
}

type jEntry struct {
	Credit           string          `json:"credit"`
	Debit            string          `json:"debit"`
	CreditAmount     decimal.Decimal `json:"creditAmount"`
	DebitAmount      decimal.Decimal `json:"debitAmount"`
	CreditReconciled string          `json:"creditReconciled"`
	DebitReconciled  string          `json:"debitReconciled"`
	Memo             string          `json:"memo,omitempty"`
}

type jTransaction struct {
	ID         string       `json:"id"`
	Status     EntityStatus `json:"status"`
	Date       date.Date    `json:"date"`
	Payee      string       `json:"payee,omitempty"`
	Memo       string       `json:"memo,omitempty"`
	Number     string       `json:"number,omitempty"`
	Attachment string       `json:"attachment,omitempty"`
	Entries    []jEntry     `json:"entries"`
}

func (t *Transaction) MarshalJSON() ([]byte, error) {
	j := jTransaction{
		ID:         t.ID,
		Status:     t.Status,
		Date:       t.Date,
		Payee:      t.Payee,
		Memo:       t.Memo,
		Number:     t.Number,
		Attachment: t.Attachment,
	}
	for _, e := range t.entries {
		j.Entries = append(j.Entries, jEntry{
			Credit:           e.CreditAccountID,
			Debit:            e.DebitAccountID,
			CreditAmount:     e.CreditAmount,
			DebitAmount:      e.DebitAmount,
			CreditReconciled: e.CreditReconciled.String(),
			DebitReconciled:  e.DebitReconciled.String(),
			Memo:             e.Memo,
		})
	}
	return json.Marshal(j)
}

func (t *Transaction) UnmarshalJSON(b []byte) error {
	var j jTransaction
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	t.ID = j.ID
	t.Status = j.Status
	t.Date = j.Date
	t.Payee = j.Payee
	t.Memo = j.Memo
	t.Number = j.Number
	t.Attachment = j.Attachment
	entries := make([]TransactionEntry, 0, len(j.Entries))
	for _, je := range j.Entries {
		cr, err := ParseReconciledState(je.CreditReconciled)
		if err != nil {
			return err
		}
		dr, err := ParseReconciledState(je.DebitReconciled)
		if err != nil {
			return err
		}
		entries = append(entries, TransactionEntry{
			CreditAccountID:  je.Credit,
			DebitAccountID:   je.Debit,
			CreditAmount:     je.CreditAmount,
			DebitAmount:      je.DebitAmount,
			CreditReconciled: cr,
			DebitReconciled:  dr,
			Memo:             je.Memo,
		})
	}
	t.restoreEntries(entries)
	return nil
}

type jGoal struct {
	Account string            `json:"account"`
	Period  string            `json:"period"`
	Goals   []decimal.Decimal `json:"goals"`
}

type jBudget struct {
	ID          string       `json:"id"`
	Status      EntityStatus `json:"status"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Period      string       `json:"period"`
	Goals       []jGoal      `json:"goals,omitempty"`
}

func (b *Budget) MarshalJSON() ([]byte, error) {
	j := jBudget{
		ID:          b.ID,
		Status:      b.Status,
		Name:        b.name,
		Description: b.description,
		Period:      b.period.String(),
	}
	ids := b.AccountIDs()
	sort.Strings(ids)
	for _, id := range ids {
		g := b.goals[id]
		j.Goals = append(j.Goals, jGoal{Account: id, Period: g.period.String(), Goals: g.Goals()})
	}
	return json.Marshal(j)
}

func (b *Budget) UnmarshalJSON(data []byte) error {
	var j jBudget
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	period, err := date.ParsePeriod(j.Period)
	if err != nil {
		return err
	}
	b.ID = j.ID
	b.Status = j.Status
	b.name = j.Name
	b.description = j.Description
	b.period = period
	b.goals = make(map[string]*BudgetGoal, len(j.Goals))
	for _, jg := range j.Goals {
		p, err := date.ParsePeriod(jg.Period)
		if err != nil {
			return err
		}
		goal := NewBudgetGoal()
		if err := goal.SetGoals(jg.Goals); err != nil {
			return fmt.Errorf("budget %s account %s: %w", j.ID, jg.Account, err)
		}
		goal.period = p
		b.goals[jg.Account] = goal
	}
	return nil
}

type jRatePoint struct {
	On   date.Date       `json:"on"`
	Rate decimal.Decimal `json:"rate"`
}

type jExchangeRate struct {
	ID     string       `json:"id"`
	Status EntityStatus `json:"status"`
	Base   string       `json:"base"`
	Quote  string       `json:"quote"`
	Points []jRatePoint `json:"points,omitempty"`
}

func (r *ExchangeRate) MarshalJSON() ([]byte, error) {
	j := jExchangeRate{ID: r.ID, Status: r.Status, Base: r.Base, Quote: r.Quote}
	for on, rate := range r.rates.Values() {
		j.Points = append(j.Points, jRatePoint{On: on, Rate: rate})
	}
	return json.Marshal(j)
}

func (r *ExchangeRate) UnmarshalJSON(b []byte) error {
	var j jExchangeRate
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	r.ID = j.ID
	r.Status = j.Status
	r.Base = j.Base
	r.Quote = j.Quote
	r.rates.Clear()
	for _, p := range j.Points {
		r.rates.Append(p.On, p.Rate)
	}
	return nil
}

var (
	_ json.Marshaler   = (*Account)(nil)
	_ json.Unmarshaler = (*Account)(nil)
	_ json.Marshaler   = (*Transaction)(nil)
	_ json.Unmarshaler = (*Transaction)(nil)
	_ json.Marshaler   = (*Budget)(nil)
	_ json.Unmarshaler = (*Budget)(nil)
	_ json.Marshaler   = (*ExchangeRate)(nil)
	_ json.Unmarshaler = (*ExchangeRate)(nil)
)
