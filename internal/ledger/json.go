package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// jsonRecord is the on-disk shape of one JSON ledger entry
type jsonRecord struct {
	Date        string          `json:"date"`
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	Vendor      string          `json:"vendor"`
	Description string          `json:"description"`
}

// JSONStore implements Store with a JSON array of objects
type JSONStore struct {
	path string
}

// NewJSONStore creates a new JSONStore backed by path
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the backing file path
func (s *JSONStore) Path() string {
	return s.path
}

// Load reads all records from the JSON file
func (s *JSONStore) Load() ([]Expense, error) {
	data, err := readLedgerFile(s.path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []Expense{}, nil
	}

	var records []jsonRecord
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: parsing json: %w", ErrFormatMismatch, err)
	}

	expenses := make([]Expense, 0, len(records))
	for i, rec := range records {
		amount := bytes.TrimSpace(rec.Amount)
		if len(amount) == 0 || amount[0] == '"' {
			return nil, fmt.Errorf("json record %d: %w: amount must be a number, got %s", i, ErrFormatMismatch, amount)
		}
		e, err := decodeRecord(rec.Date, string(amount), rec.Category, rec.Vendor, rec.Description)
		if err != nil {
			return nil, fmt.Errorf("json record %d: %w", i, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

// Save rewrites the JSON file as an indented array
func (s *JSONStore) Save(expenses []Expense) error {
	records := make([]jsonRecord, 0, len(expenses))
	for _, e := range expenses {
		records = append(records, jsonRecord{
			Date:        e.DateString(),
			Amount:      json.RawMessage(e.Amount.StringFixed(2)),
			Category:    string(e.Category),
			Vendor:      e.Vendor,
			Description: e.Description,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("%w: encoding json: %w", ErrStorage, err)
	}
	return writeFileAtomic(s.path, buf.Bytes())
}
