package apperr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidSignature is returned when a webhook payload fails signature
	// verification. The handler must not leak verification detail to callers.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrDuplicateEvent marks a payment notification that was already applied.
	// Callers treat it as success; the ledger stays untouched.
	ErrDuplicateEvent = errors.New("duplicate payment event")

	// ErrGenerationFailed wraps provider-side failures. No credits are
	// consumed when it is returned.
	ErrGenerationFailed = errors.New("image generation failed")

	ErrNotFound     = errors.New("record not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// InsufficientBalanceError reports a rejected debit together with the amounts
// the caller needs to display.
type InsufficientBalanceError struct {
	Required decimal.Decimal
	Current  decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %s, current %s",
		e.Required.StringFixed(2), e.Current.StringFixed(2))
}

// IsInsufficientBalance reports whether err is an InsufficientBalanceError.
func IsInsufficientBalance(err error) (*InsufficientBalanceError, bool) {
	var ib *InsufficientBalanceError
	if errors.As(err, &ib) {
		return ib, true
	}
	return nil, false
}
