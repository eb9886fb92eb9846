package jgnash

import (
	"fmt"
	"time"

	"github.com/cheezecat/jgnash/date"
)

// PeriodsPerYear is the fixed day-of-year index space backing every budget
// goal vector: 53 weeks of 7 days, so that leap years and 53-ISO-week years
// fit without reallocating.
const PeriodsPerYear = 371

const (
	oneWeekIncrement = 6
	twoWeekIncrement = 13
)

// PeriodDescriptor is an immutable slice of a budget year: a concrete
// start/end day-of-year index pair with the matching calendar dates and a
// human label. It is constructed once and never mutated.
type PeriodDescriptor struct {
	startPeriod int // zero based day-of-year index
	endPeriod   int
	startDate   date.Date
	endDate     date.Date
	description string
	period      date.Period
	year        int
}

// NewPeriodDescriptor computes the descriptor for the period of the given
// type anchored at the given date within the budget year.
//
// The anchor is interpreted by its day of year within the budget year, with
// one exception: the first week of a 53-ISO-week year may be anchored in the
// trailing days of the prior December, in which case the descriptor is
// truncated to the days that actually fall in the budget year.
func NewPeriodDescriptor(anchor date.Date, year int, period date.Period) (PeriodDescriptor, error) {
	if anchor.IsZero() {
		return PeriodDescriptor{}, newValidationError("anchor", "zero anchor date")
	}
	if !period.IsValid() {
		return PeriodDescriptor{}, newValidationError("period", fmt.Sprintf("unknown period %d", int(period)))
	}

	d := PeriodDescriptor{period: period, year: year}
	d.startPeriod = anchor.YearDay() - 1 // zero based index vs. 1 based day of year
	d.startDate = date.OfYearDay(year, d.startPeriod+1)

	switch period {
	case date.Daily:
		d.endDate = d.startDate
		d.endPeriod = d.startPeriod
		d.description = d.startDate.String()

	case date.Weekly:
		// The first week of a 53 week year starts in the prior December and
		// is truncated to the days belonging to the budget year.
		if date.WeeksInYear(year) == date.LeapWeek && anchor.Year() < year {
			d.startPeriod = 0
			d.startDate = anchor
			d.endPeriod = date.New(year, time.January, 1).Sub(d.startDate)
			d.endDate = d.startDate.Add(oneWeekIncrement)
		} else {
			d.endDate = d.startDate.Add(oneWeekIncrement)
			d.endPeriod = min(d.startPeriod+oneWeekIncrement, PeriodsPerYear-1) // cap for 53 week years
		}
		_, week := d.startDate.ISOWeek()
		d.description = fmt.Sprintf("Week %d of %d", week, year)

	case date.BiWeekly:
		if _, week := d.startDate.ISOWeek(); week != date.LeapWeek {
			d.endDate = d.startDate.Add(twoWeekIncrement)
			d.endPeriod = d.startPeriod + twoWeekIncrement
		} else {
			// The 53rd week has no second week to pair with, the span
			// collapses to seven days instead of overflowing the year.
			d.endDate = d.startDate.Add(oneWeekIncrement)
			d.endPeriod = d.startPeriod + oneWeekIncrement
		}
		d.description = fmt.Sprintf("%s - %s", d.startDate, d.endDate)

	case date.Monthly:
		days := date.DaysInMonth(d.startDate)
		d.endDate = date.EndOfMonth(d.startDate)
		d.endPeriod = d.startPeriod + days - 1
		d.description = d.startDate.Format("January 2006")

	case date.Quarterly:
		d.endDate = date.EndOfQuarter(d.startDate)
		d.endPeriod = d.startPeriod + d.endDate.Sub(d.startDate)
		d.description = fmt.Sprintf("Q%d %d", date.Quarter(d.startDate), year)

	case date.Yearly:
		d.endDate = date.EndOfYear(d.startDate)
		d.endPeriod = d.startPeriod + d.endDate.Sub(d.startDate)
		d.description = fmt.Sprintf("%d", year)
	}

	// Periods, especially bi-weekly, can overshoot the fixed goal vector near
	// the year boundary. Correct the ending period if needed.
	if d.endPeriod >= PeriodsPerYear {
		d.endPeriod = PeriodsPerYear - 1
		d.endDate = date.EndOfYear(d.startDate)
	}

	return d, nil
}

// MustNewPeriodDescriptor is like NewPeriodDescriptor but panics on error.
func MustNewPeriodDescriptor(anchor date.Date, year int, period date.Period) PeriodDescriptor {
	d, err := NewPeriodDescriptor(anchor, year, period)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// StartPeriod returns the zero based day-of-year index of the period start.
func (d PeriodDescriptor) StartPeriod() int { return d.startPeriod }

// EndPeriod returns the zero based day-of-year index of the period end.
func (d PeriodDescriptor) EndPeriod() int { return d.endPeriod }

// StartDate returns the calendar date of the period start.
func (d PeriodDescriptor) StartDate() date.Date { return d.startDate }

// EndDate returns the calendar date of the period end.
func (d PeriodDescriptor) EndDate() date.Date { return d.endDate }

// Period returns the period type of the descriptor.
func (d PeriodDescriptor) Period() date.Period { return d.period }

// Year returns the budget year of the descriptor.
func (d PeriodDescriptor) Year() int { return d.year }

// Description returns the human label of the period.
func (d PeriodDescriptor) Description() string { return d.description }

// IsBetween reports whether the given date lies strictly between the start
// and end dates. Dates equal to either boundary are not considered inside;
// callers needing inclusive containment must special-case the boundaries.
func (d PeriodDescriptor) IsBetween(on date.Date) bool {
	return on.After(d.startDate) && on.Before(d.endDate)
}

// Equal reports whether two descriptors denote the same period of the same
// budget year.
func (d PeriodDescriptor) Equal(o PeriodDescriptor) bool {
	return d.period == o.period && d.year == o.year && d.startPeriod == o.startPeriod
}

// Before orders descriptors by start date.
func (d PeriodDescriptor) Before(o PeriodDescriptor) bool { return d.startDate.Before(o.startDate) }

func (d PeriodDescriptor) String() string {
	return fmt.Sprintf("PeriodDescriptor[%s..%s %s %s]", d.startDate, d.endDate, d.period, d.description)
}

// Descriptors generates the full ordered descriptor list covering the given
// budget year for the given period type. Each descriptor starts the day after
// the previous one ends; the first weekly descriptor of a 53-ISO-week year is
// anchored on the week-1 Monday in the prior December.
func Descriptors(year int, period date.Period) ([]PeriodDescriptor, error) {
	if !period.IsValid() {
		return nil, newValidationError("period", fmt.Sprintf("unknown period %d", int(period)))
	}

	anchor := date.New(year, time.January, 1)
	if period == date.Weekly && date.WeeksInYear(year) == date.LeapWeek {
		anchor = date.StartOfWeek(anchor)
	}

	var list []PeriodDescriptor
	for {
		d, err := NewPeriodDescriptor(anchor, year, period)
		if err != nil {
			return nil, err
		}
		list = append(list, d)

		next := d.EndDate().Add(1)
		if next.Year() > year {
			return list, nil
		}
		anchor = next
	}
}

// DescriptorFor returns the descriptor of the given year and period type
// whose index span contains the given date's day of year.
func DescriptorFor(on date.Date, year int, period date.Period) (PeriodDescriptor, error) {
	list, err := Descriptors(year, period)
	if err != nil {
		return PeriodDescriptor{}, err
	}
	index := on.YearDay() - 1
	for _, d := range list {
		if index >= d.StartPeriod() && index <= d.EndPeriod() {
			return d, nil
		}
	}
	return PeriodDescriptor{}, fmt.Errorf("no %s descriptor of %d contains %s: %w", period, year, on, ErrNotFound)
}
