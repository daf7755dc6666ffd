package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryTotal is the subtotal and record count of one category
type CategoryTotal struct {
	Total decimal.Decimal
	Count int
}

// Summary aggregates a set of records. Min, Max, Earliest and Latest are
// zero values when Count is zero.
type Summary struct {
	Total      decimal.Decimal
	Count      int
	Average    decimal.Decimal
	Min        decimal.Decimal
	Max        decimal.Decimal
	Categories map[Category]CategoryTotal
	Earliest   time.Time
	Latest     time.Time
}

func summarize(expenses []Expense) Summary {
	s := Summary{
		Total:      decimal.Zero,
		Average:    decimal.Zero,
		Min:        decimal.Zero,
		Max:        decimal.Zero,
		Categories: make(map[Category]CategoryTotal),
	}
	if len(expenses) == 0 {
		return s
	}

	s.Min = expenses[0].Amount
	s.Max = expenses[0].Amount
	s.Earliest = expenses[0].Date
	s.Latest = expenses[0].Date
	for _, e := range expenses {
		s.Total = s.Total.Add(e.Amount)
		s.Count++

		ct := s.Categories[e.Category]
		if ct.Count == 0 {
			ct.Total = decimal.Zero
		}
		ct.Total = ct.Total.Add(e.Amount)
		ct.Count++
		s.Categories[e.Category] = ct

		if e.Amount.LessThan(s.Min) {
			s.Min = e.Amount
		}
		if e.Amount.GreaterThan(s.Max) {
			s.Max = e.Amount
		}
		if e.Date.Before(s.Earliest) {
			s.Earliest = e.Date
		}
		if e.Date.After(s.Latest) {
			s.Latest = e.Date
		}
	}
	s.Average = s.Total.DivRound(decimal.NewFromInt(int64(s.Count)), 2)
	return s
}
