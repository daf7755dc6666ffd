package main

import (
	"github.com/shopspring/decimal"

	"github.com/zombor/expense-tracker/internal/ledger"
	"github.com/zombor/expense-tracker/internal/receipt"
)

type expenseView struct {
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    ledger.Category `json:"category"`
	Vendor      string          `json:"vendor"`
	Description string          `json:"description"`
}

func expenseViews(expenses []ledger.Expense) []expenseView {
	views := make([]expenseView, 0, len(expenses))
	for _, e := range expenses {
		views = append(views, expenseView{
			Date:        e.DateString(),
			Amount:      e.Amount,
			Category:    e.Category,
			Vendor:      e.Vendor,
			Description: e.Description,
		})
	}
	return views
}

type categoryView struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type summaryView struct {
	Total      decimal.Decimal                  `json:"total"`
	Count      int                              `json:"count"`
	Average    decimal.Decimal                  `json:"average"`
	Min        decimal.Decimal                  `json:"min"`
	Max        decimal.Decimal                  `json:"max"`
	Earliest   string                           `json:"earliest,omitempty"`
	Latest     string                           `json:"latest,omitempty"`
	Categories map[ledger.Category]categoryView `json:"categories"`
}

func newSummaryView(s ledger.Summary) summaryView {
	v := summaryView{
		Total:      s.Total,
		Count:      s.Count,
		Average:    s.Average,
		Min:        s.Min,
		Max:        s.Max,
		Categories: make(map[ledger.Category]categoryView, len(s.Categories)),
	}
	if s.Count > 0 {
		v.Earliest = s.Earliest.Format(ledger.DateLayout)
		v.Latest = s.Latest.Format(ledger.DateLayout)
	}
	for c, ct := range s.Categories {
		v.Categories[c] = categoryView{Total: ct.Total, Count: ct.Count}
	}
	return v
}

type receiptView struct {
	Image       string          `json:"image"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Vendor      string          `json:"vendor"`
	Category    ledger.Category `json:"category"`
	NeedsReview bool            `json:"needs_review"`
}

func newReceiptView(path string, res *receipt.Result, category ledger.Category) receiptView {
	return receiptView{
		Image:       path,
		Amount:      res.Amount,
		Date:        res.Date.Format(ledger.DateLayout),
		Vendor:      res.Vendor,
		Category:    category,
		NeedsReview: res.NeedsReview(),
	}
}
