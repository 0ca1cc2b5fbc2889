// Package inventory holds the pure stock rules shared by the ledger and its tests.
package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/yarn-inventory/internal/domain"
)

// Scale is the number of fractional digits the quantity columns keep.
const Scale = 3

// FitsScale reports whether q is stored without rounding.
func FitsScale(q decimal.Decimal) bool {
	return q.Equal(q.Truncate(Scale))
}

// CheckWithdrawal validates taking requested out of available.
// Returns ErrInvalidInput for a non-positive request and ErrInsufficientStock when
// the lot cannot cover it.
func CheckWithdrawal(available, requested decimal.Decimal) error {
	if !requested.IsPositive() {
		return fmt.Errorf("%w: used quantity must be greater than zero", domain.ErrInvalidInput)
	}
	if !FitsScale(requested) {
		return fmt.Errorf("%w: used quantity allows at most %d decimal places", domain.ErrInvalidInput, Scale)
	}
	if available.LessThan(requested) {
		return domain.ErrInsufficientStock
	}
	return nil
}

// Remaining returns the quantity left after a checked withdrawal.
func Remaining(available, requested decimal.Decimal) (decimal.Decimal, error) {
	if err := CheckWithdrawal(available, requested); err != nil {
		return available, err
	}
	return available.Sub(requested), nil
}
