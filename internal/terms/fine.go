package terms

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type FineStatus string

const (
	FinePending FineStatus = "pending"
	FinePaid    FineStatus = "paid"
)

// Fine is a percentage-of-amount late penalty, separate from the
// credit-score impact of the same event.
type Fine struct {
	OriginalAmount decimal.Decimal
	DaysLate       int
	// Percent is the fee in percent units (5 means 5%).
	Percent decimal.Decimal
	Amount  decimal.Decimal
	Status  FineStatus
}

// ComputeFine derives the pending fine for a payment daysLate overdue.
// Callers must not invoke it for on-time payments; daysLate < 1 is a bug.
func ComputeFine(originalAmount decimal.Decimal, daysLate int) (Fine, error) {
	if daysLate < 1 {
		return Fine{}, fmt.Errorf("%w: days late must be at least 1", ErrInvalidInput)
	}
	if !originalAmount.IsPositive() {
		return Fine{}, fmt.Errorf("%w: original amount must be positive", ErrInvalidInput)
	}
	percent := finePercent(daysLate)
	return Fine{
		OriginalAmount: originalAmount,
		DaysLate:       daysLate,
		Percent:        percent,
		Amount:         originalAmount.Mul(percent).Div(decimal.NewFromInt(100)).Round(2),
		Status:         FinePending,
	}, nil
}

func finePercent(daysLate int) decimal.Decimal {
	switch {
	case daysLate <= 7:
		return decimal.NewFromInt(2)
	case daysLate <= 14:
		return decimal.NewFromInt(5)
	case daysLate <= 30:
		return decimal.NewFromInt(8)
	default:
		return decimal.NewFromInt(10)
	}
}
