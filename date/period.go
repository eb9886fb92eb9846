package date

import (
	"fmt"
	"strings"
)

// Period is a named time slice used to bucket budget goal tracking.
type Period int

const (
	Daily Period = iota
	Weekly
	BiWeekly
	Monthly
	Quarterly
	Yearly
)

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case BiWeekly:
		return "bi-weekly"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

// IsValid reports whether p is one of the declared period values.
func (p Period) IsValid() bool { return p >= Daily && p <= Yearly }

func ParsePeriod(p string) (Period, error) {
	p = strings.ToLower(p)
	switch p {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	case "bi-weekly", "biweekly", "fortnight":
		return BiWeekly, nil
	case "monthly", "month":
		return Monthly, nil
	case "quarterly", "quarter":
		return Quarterly, nil
	case "yearly", "year":
		return Yearly, nil
	default:
		return Daily, fmt.Errorf("unknown period %s", p)
	}
}
