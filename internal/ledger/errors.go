package ledger

import "errors"

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidVendor   = errors.New("invalid vendor")

	// ErrStorage wraps I/O failures on the backing file
	ErrStorage = errors.New("ledger storage failure")
	// ErrFormatMismatch means the backing file does not hold the declared format
	ErrFormatMismatch = errors.New("ledger format mismatch")
)
