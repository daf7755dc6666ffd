package receipt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zombor/expense-tracker/internal/ledger"
	"github.com/zombor/expense-tracker/internal/scanning"
)

// UnknownVendor replaces a vendor the parser could not find
const UnknownVendor = "Unknown"

// DefaultExtractTimeout bounds a single OCR call
const DefaultExtractTimeout = 60 * time.Second

// ExpenseAdder is the ledger operation the pipeline writes through
type ExpenseAdder interface {
	AddExpense(in ledger.NewExpense) (ledger.Expense, error)
}

// ConfirmFunc receives the suggested category and returns the one to store.
// Its return value is used verbatim.
type ConfirmFunc func(suggested ledger.Category) ledger.Category

// Inferred marks fields that were filled in by a fallback instead of parsed
type Inferred struct {
	Date   bool `json:"date"`
	Vendor bool `json:"vendor"`
}

// Result is the structured outcome of processing one receipt
type Result struct {
	Amount            decimal.Decimal `json:"amount"`
	Date              time.Time       `json:"date"`
	Vendor            string          `json:"vendor"`
	SuggestedCategory ledger.Category `json:"suggested_category"`
	Inferred          Inferred        `json:"inferred"`
	Text              string          `json:"extracted_text"`
}

// NeedsReview reports whether any field came from a fallback
func (r *Result) NeedsReview() bool {
	return r.Inferred.Date || r.Inferred.Vendor
}

// Service runs the receipt pipeline: extract text, parse, suggest, and
// optionally insert into the ledger.
type Service struct {
	extractor  scanning.TextExtractor
	parser     *Parser
	suggester  *Suggester
	ledger     ExpenseAdder
	timeSource ledger.TimeSource
	timeout    time.Duration
}

// NewService creates a new Service with the default parser, rules and timeout
func NewService(extractor scanning.TextExtractor, suggester *Suggester, l ExpenseAdder) *Service {
	return NewServiceWithDeps(extractor, NewParser(), suggester, l, ledger.SystemTime{}, DefaultExtractTimeout)
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(extractor scanning.TextExtractor, parser *Parser, suggester *Suggester, l ExpenseAdder, timeSrc ledger.TimeSource, timeout time.Duration) *Service {
	return &Service{
		extractor:  extractor,
		parser:     parser,
		suggester:  suggester,
		ledger:     l,
		timeSource: timeSrc,
		timeout:    timeout,
	}
}

// ProcessReceipt extracts and parses one receipt image without touching the ledger.
// A missing amount is fatal; a missing date or vendor falls back to today and
// UnknownVendor and is flagged in Result.Inferred.
func (s *Service) ProcessReceipt(ctx context.Context, imagePath string) (*Result, error) {
	text, err := s.extract(ctx, imagePath)
	if err != nil {
		return nil, err
	}

	amount, amountErr := s.parser.ParseAmount(text)
	date, dateErr := s.parser.ParseDate(text)
	vendor, vendorErr := s.parser.ParseVendor(text)

	if amountErr != nil {
		slog.Warn("No amount found on receipt", "image_path", imagePath)
		return nil, fmt.Errorf("parsing receipt %s: %w", filepath.Base(imagePath), amountErr)
	}

	result := &Result{
		Amount: amount,
		Date:   date,
		Vendor: vendor,
		Text:   text,
	}
	if dateErr != nil {
		result.Date = ledger.Today(s.timeSource)
		result.Inferred.Date = true
	}
	if vendorErr != nil {
		result.Vendor = UnknownVendor
		result.Inferred.Vendor = true
	}
	result.SuggestedCategory = s.suggester.SuggestCategory(result.Vendor)

	slog.Info("Receipt processed",
		"image_path", imagePath,
		"amount", result.Amount.StringFixed(2),
		"date", result.Date.Format(ledger.DateLayout),
		"vendor", result.Vendor,
		"category", result.SuggestedCategory,
		"needs_review", result.NeedsReview(),
	)
	return result, nil
}

// AddExpenseFromReceipt processes a receipt and inserts it into the ledger.
// When confirm is nil the suggested category is stored.
func (s *Service) AddExpenseFromReceipt(ctx context.Context, imagePath string, confirm ConfirmFunc) (*Result, ledger.Expense, error) {
	result, err := s.ProcessReceipt(ctx, imagePath)
	if err != nil {
		return nil, ledger.Expense{}, err
	}

	category := result.SuggestedCategory
	if confirm != nil {
		category = confirm(category)
	}

	expense, err := s.ledger.AddExpense(ledger.NewExpense{
		Amount:      result.Amount,
		Category:    category,
		Vendor:      result.Vendor,
		Description: fmt.Sprintf("Receipt processed: %s", filepath.Base(imagePath)),
		Date:        result.Date.Format(ledger.DateLayout),
	})
	if err != nil {
		return result, ledger.Expense{}, fmt.Errorf("adding expense: %w", err)
	}
	return result, expense, nil
}

// extract calls the OCR collaborator under the configured timeout
func (s *Service) extract(ctx context.Context, imagePath string) (string, error) {
	if _, err := os.Stat(imagePath); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.extractor.ExtractText(ctx, imagePath)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		slog.Error("Failed to extract receipt text",
			"image_path", imagePath,
			"timed_out", errors.Is(err, context.DeadlineExceeded),
			"error", err,
		)
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	return scanning.NormalizeText(text), nil
}
