package payroll

import "errors"

// Sentinel errors for structural misuse of the ledger. Malformed numeric
// VALUES are never errors anywhere in this package; they parse to zero.
var (
	// ErrUnknownCategory is returned for a category outside the closed set.
	ErrUnknownCategory = errors.New("unknown payment category")

	// ErrUnknownField is returned for an item field no setter exists for.
	ErrUnknownField = errors.New("unknown item field")

	// ErrItemNotFound is returned when an item id is absent from a category.
	ErrItemNotFound = errors.New("payment item not found")
)
