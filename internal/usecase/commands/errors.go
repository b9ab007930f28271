package commands

import (
	"fmt"

	"marketfill/internal/pkg/errs"
)

var (
	ErrProductNotFound         = errs.New("product not found")
	ErrInsufficientStock       = errs.New("insufficient stock")
	ErrEmptyCart               = errs.New("cart is empty")
	ErrInvalidCredentials      = errs.New("invalid credentials")
	ErrEmailAlreadyUsed        = errs.New("email already used")
	ErrIdempotencyInProgress   = errs.New("idempotency in progress")
	ErrIdempotencyCheckFailed  = errs.New("idempotency check failed")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// NoProductFoundError reports an unknown SKU. Marked with
// ErrProductNotFound for errors.Is checks.
type NoProductFoundError struct {
	SKU string
}

func (e *NoProductFoundError) Error() string {
	return fmt.Sprintf("no product found for sku %s", e.SKU)
}

// InsufficientStockError reports that no offer could cover the
// requested quantity. The message is user-facing.
type InsufficientStockError struct {
	SKU      string
	Quantity int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"Insufficient stock for product %s. Requested quantity: %d. Please reduce the quantity or check back later.",
		e.SKU, e.Quantity,
	)
}
