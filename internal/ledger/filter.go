package ledger

import (
	"strings"
	"time"
)

// Filter narrows ViewExpenses and TotalExpenses. Zero fields do not filter;
// date bounds are inclusive YYYY-MM-DD strings.
type Filter struct {
	Category  Category
	StartDate string
	EndDate   string
}

func (f Filter) matcher() (func(Expense) bool, error) {
	if f.Category != "" {
		if _, err := ParseCategory(string(f.Category)); err != nil {
			return nil, err
		}
	}

	var start, end time.Time
	if strings.TrimSpace(f.StartDate) != "" {
		d, err := ParseDate(f.StartDate)
		if err != nil {
			return nil, err
		}
		start = d
	}
	if strings.TrimSpace(f.EndDate) != "" {
		d, err := ParseDate(f.EndDate)
		if err != nil {
			return nil, err
		}
		end = d
	}

	return func(e Expense) bool {
		if f.Category != "" && e.Category != f.Category {
			return false
		}
		if !start.IsZero() && e.Date.Before(start) {
			return false
		}
		if !end.IsZero() && e.Date.After(end) {
			return false
		}
		return true
	}, nil
}
