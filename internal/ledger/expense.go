package ledger

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical ISO-8601 calendar date layout
const DateLayout = "2006-01-02"

// Expense is a single validated ledger record
type Expense struct {
	Date        time.Time
	Amount      decimal.Decimal
	Category    Category
	Vendor      string
	Description string
}

// NewExpense holds the caller-supplied fields for AddExpense.
// An empty Date means today.
type NewExpense struct {
	Amount      decimal.Decimal
	Category    Category
	Vendor      string
	Description string
	Date        string
}

// crlf matches carriage returns that end a line
var crlf = regexp.MustCompile(`\r+\n`)

// normalizeNewlines rewrites CRLF line breaks as LF. CSV readers fold a
// quoted CRLF into LF, so stored text must not contain one.
func normalizeNewlines(s string) string {
	return crlf.ReplaceAllString(s, "\n")
}

// DateString returns the record date in DateLayout
func (e Expense) DateString() string {
	return e.Date.Format(DateLayout)
}

// Equal compares two records field by field, amounts by value
func (e Expense) Equal(other Expense) bool {
	return e.Date.Equal(other.Date) &&
		e.Amount.Equal(other.Amount) &&
		e.Category == other.Category &&
		e.Vendor == other.Vendor &&
		e.Description == other.Description
}

// ParseDate parses a canonical YYYY-MM-DD string into a UTC date
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q must be in YYYY-MM-DD format", ErrInvalidDate, s)
	}
	return d, nil
}

// Validate checks the record invariants
func (e Expense) Validate() error {
	if e.Amount.IsNegative() {
		return fmt.Errorf("%w: %s cannot be negative", ErrInvalidAmount, e.Amount.String())
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, e.Category)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}
	if strings.TrimSpace(e.Vendor) == "" {
		return fmt.Errorf("%w: vendor cannot be empty", ErrInvalidVendor)
	}
	return nil
}
