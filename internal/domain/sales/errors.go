package sales

import "errors"

var (
	// ErrEmptyProductName indicates a product reference with a blank name.
	ErrEmptyProductName = errors.New("product name is empty")

	// ErrInvalidUser indicates a product owner id of zero.
	ErrInvalidUser = errors.New("invalid user id")

	// ErrEmptySaleID indicates a fact without a platform sale id.
	ErrEmptySaleID = errors.New("platform sale id is empty")

	// ErrUnsupportedEvent indicates a fact whose event type has no ledger transition.
	ErrUnsupportedEvent = errors.New("event type does not map to a sale status")

	// ErrSaleVanished indicates a conflicting insert whose winner could not be read back.
	ErrSaleVanished = errors.New("sale not found after conflicting insert")

	// ErrProductVanished indicates a conflicting insert whose winner could not be read back.
	ErrProductVanished = errors.New("product not found after conflicting insert")
)
