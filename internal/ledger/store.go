package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

// Format selects the on-disk representation of a ledger
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// columns is the fixed field order shared by both formats
var columns = []string{"date", "amount", "category", "vendor", "description"}

// Store defines the interface for ledger persistence
type Store interface {
	// Load reads every record from the backing file, in insertion order.
	// A missing file is an empty ledger.
	Load() ([]Expense, error)
	// Save replaces the backing file with the given records
	Save(expenses []Expense) error
	// Path returns the backing file path
	Path() string
}

// ParseFormat converts a user-supplied format name, case-insensitively
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported storage format: %q", s)
	}
}

// NewStore creates the Store for the given format
func NewStore(path string, format Format) (Store, error) {
	switch format {
	case FormatCSV:
		return NewCSVStore(path), nil
	case FormatJSON:
		return NewJSONStore(path), nil
	default:
		return nil, fmt.Errorf("unsupported storage format: %q", format)
	}
}

// readLedgerFile returns nil data when the file does not exist yet
func readLedgerFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading file: %w", ErrStorage, err)
	}
	return data, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it over path,
// so a crash mid-write never leaves a truncated ledger behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: creating ledger directory: %w", ErrStorage, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %w", ErrStorage, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing file: %w", ErrStorage, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: syncing file: %w", ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: closing file: %w", ErrStorage, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("%w: setting file mode: %w", ErrStorage, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: replacing file: %w", ErrStorage, err)
	}
	return nil
}

// decodeRecord builds an Expense from the five serialized fields.
// Any violation means the file is not a ledger of the declared format.
func decodeRecord(date, amount, category, vendor, description string) (Expense, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Expense{}, fmt.Errorf("%w: %w", ErrFormatMismatch, err)
	}
	a, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Expense{}, fmt.Errorf("%w: amount %q: %w", ErrFormatMismatch, amount, err)
	}
	e := Expense{
		Date:        d,
		Amount:      a.Round(2),
		Category:    Category(category),
		Vendor:      vendor,
		Description: description,
	}
	if err := e.Validate(); err != nil {
		return Expense{}, fmt.Errorf("%w: %w", ErrFormatMismatch, err)
	}
	return e, nil
}
