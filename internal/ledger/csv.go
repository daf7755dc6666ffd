package ledger

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"slices"
)

// CSVStore implements Store with a header-prefixed CSV file
type CSVStore struct {
	path string
}

// NewCSVStore creates a new CSVStore backed by path
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the backing file path
func (s *CSVStore) Path() string {
	return s.path
}

// Load reads all records from the CSV file
func (s *CSVStore) Load() ([]Expense, error) {
	data, err := readLedgerFile(s.path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return []Expense{}, nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = len(columns)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parsing csv: %w", ErrFormatMismatch, err)
	}
	if !slices.Equal(rows[0], columns) {
		return nil, fmt.Errorf("%w: unexpected csv header %v", ErrFormatMismatch, rows[0])
	}

	expenses := make([]Expense, 0, len(rows)-1)
	for i, row := range rows[1:] {
		e, err := decodeRecord(row[0], row[1], row[2], row[3], row[4])
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", i+2, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

// Save rewrites the CSV file with a header row and one line per record
func (s *CSVStore) Save(expenses []Expense) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("%w: encoding csv header: %w", ErrStorage, err)
	}
	for _, e := range expenses {
		row := []string{
			e.DateString(),
			e.Amount.StringFixed(2),
			string(e.Category),
			e.Vendor,
			e.Description,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("%w: encoding csv row: %w", ErrStorage, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: encoding csv: %w", ErrStorage, err)
	}
	return writeFileAtomic(s.path, buf.Bytes())
}
