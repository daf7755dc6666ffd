package receipt

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Field names a value the parser extracts from receipt text
type Field string

const (
	FieldAmount Field = "amount"
	FieldDate   Field = "date"
	FieldVendor Field = "vendor"
)

var (
	// ErrParseNotFound is matched by every *NotFoundError
	ErrParseNotFound = errors.New("no candidate found")
	// ErrExtraction means the OCR collaborator failed or timed out
	ErrExtraction = errors.New("text extraction failed")
)

// NotFoundError reports that a parser found no candidate for Field
type NotFoundError struct {
	Field Field
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, ErrParseNotFound)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrParseNotFound
}

const (
	defaultMaxVendorLength = 64
)

// defaultMaxAmount bounds plausible receipt totals; larger figures are
// treated as OCR misreads.
var defaultMaxAmount = decimal.NewFromInt(100000)

// Parser extracts amount, date and vendor from raw receipt text.
// The three extractions are independent of each other.
type Parser struct {
	MaxAmount       decimal.Decimal
	MaxVendorLength int
}

// NewParser creates a Parser with default bounds
func NewParser() *Parser {
	return &Parser{
		MaxAmount:       defaultMaxAmount,
		MaxVendorLength: defaultMaxVendorLength,
	}
}
