package ledger

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// SystemTime is the TimeSource backed by the wall clock
type SystemTime struct{}

func (SystemTime) Now() time.Time {
	return time.Now()
}

// Today returns the current calendar date of ts as a UTC midnight time
func Today(ts TimeSource) time.Time {
	y, m, d := ts.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Ledger is the validated, persisted, insertion-ordered collection of expenses.
// Calls within one process are sequentially consistent; writers in other
// processes sharing the same file must be serialized by the caller.
type Ledger struct {
	store      Store
	timeSource TimeSource

	mu       sync.Mutex
	expenses []Expense
}

// Open creates a Ledger for the file at path in the given format
func Open(path string, format Format) (*Ledger, error) {
	store, err := NewStore(path, format)
	if err != nil {
		return nil, err
	}
	return New(store)
}

// New creates a Ledger over store with the default time source
func New(store Store) (*Ledger, error) {
	return NewWithDeps(store, SystemTime{})
}

// NewWithDeps creates a Ledger with custom dependencies for testing
func NewWithDeps(store Store, timeSrc TimeSource) (*Ledger, error) {
	expenses, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	return &Ledger{
		store:      store,
		timeSource: timeSrc,
		expenses:   expenses,
	}, nil
}

// AddExpense validates and appends a new record, then rewrites the backing file.
// On any error the ledger is left exactly as it was.
func (l *Ledger) AddExpense(in NewExpense) (Expense, error) {
	// checked before rounding so sub-cent negatives are not rounded to zero
	if in.Amount.IsNegative() {
		return Expense{}, fmt.Errorf("%w: %s cannot be negative", ErrInvalidAmount, in.Amount.String())
	}

	date := Today(l.timeSource)
	if strings.TrimSpace(in.Date) != "" {
		d, err := ParseDate(in.Date)
		if err != nil {
			return Expense{}, err
		}
		date = d
	}

	e := Expense{
		Date:        date,
		Amount:      in.Amount.Round(2),
		Category:    in.Category,
		Vendor:      strings.TrimSpace(normalizeNewlines(in.Vendor)),
		Description: normalizeNewlines(in.Description),
	}
	if err := e.Validate(); err != nil {
		return Expense{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Read-modify-write of the whole file picks up records written by other
	// processes since our last load.
	current, err := l.store.Load()
	if err != nil {
		return Expense{}, fmt.Errorf("reloading ledger: %w", err)
	}
	next := make([]Expense, len(current), len(current)+1)
	copy(next, current)
	next = append(next, e)

	if err := l.store.Save(next); err != nil {
		return Expense{}, fmt.Errorf("saving ledger: %w", err)
	}
	l.expenses = next

	slog.Debug("Expense added",
		"path", l.store.Path(),
		"count", len(next),
		"category", e.Category,
		"amount", e.Amount.StringFixed(2),
	)
	return e, nil
}

// ViewExpenses returns the records matching f in insertion order
func (l *Ledger) ViewExpenses(f Filter) ([]Expense, error) {
	m, err := f.matcher()
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]Expense, 0, len(l.expenses))
	for _, e := range l.expenses {
		if m(e) {
			result = append(result, e)
		}
	}
	return result, nil
}

// TotalExpenses sums the amounts of the records matching f
func (l *Ledger) TotalExpenses(f Filter) (decimal.Decimal, error) {
	expenses, err := l.ViewExpenses(f)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total, nil
}

// ExpensesByCategory groups records by category, keeping insertion order in each group.
// Only categories that have records are present.
func (l *Ledger) ExpensesByCategory() map[Category][]Expense {
	l.mu.Lock()
	defer l.mu.Unlock()

	groups := make(map[Category][]Expense)
	for _, e := range l.expenses {
		groups[e.Category] = append(groups[e.Category], e)
	}
	return groups
}

// Summary aggregates the whole ledger
func (l *Ledger) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	return summarize(l.expenses)
}

// Len returns the number of stored records
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.expenses)
}
