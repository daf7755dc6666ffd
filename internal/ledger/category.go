package ledger

import "fmt"

// Category is one entry of the fixed expense taxonomy
type Category string

const (
	FoodAndDining     Category = "Food & Dining"
	Transportation    Category = "Transportation"
	Shopping          Category = "Shopping"
	Entertainment     Category = "Entertainment"
	BillsAndUtilities Category = "Bills & Utilities"
	Healthcare        Category = "Healthcare"
	Travel            Category = "Travel"
	Education         Category = "Education"
	Business          Category = "Business"
	PersonalCare      Category = "Personal Care"
	Groceries         Category = "Groceries"
	Gas               Category = "Gas"
	Other             Category = "Other"
)

// AllCategories lists the taxonomy in display order
var AllCategories = []Category{
	FoodAndDining,
	Transportation,
	Shopping,
	Entertainment,
	BillsAndUtilities,
	Healthcare,
	Travel,
	Education,
	Business,
	PersonalCare,
	Groceries,
	Gas,
	Other,
}

// Valid reports whether c belongs to the taxonomy
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory converts s into a Category, rejecting anything outside the taxonomy
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}
