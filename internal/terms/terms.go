// Package terms is the loan terms engine: interest, repayment schedules,
// credit-score deltas and late fines as pure functions. Persistence and
// orchestration live in the usecases; nothing here touches a store.
package terms

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidLoanTerms rejects malformed principal/rate/duration/milestone
	// combinations before any schedule math runs.
	ErrInvalidLoanTerms = errors.New("invalid loan terms")
	// ErrInvalidInput marks a caller bug (negative amounts or days) in the
	// scoring and fine policies.
	ErrInvalidInput = errors.New("invalid input")
)

type RepaymentType string

const (
	RepaymentOneTime   RepaymentType = "one_time"
	RepaymentMilestone RepaymentType = "milestone"
)

// Insured borrowers get a 15% cut on the nominal annual rate.
var insuranceRateFactor = decimal.RequireFromString("0.85")

const daysPerYear = 365

type LoanTerms struct {
	Principal         decimal.Decimal
	AnnualRatePercent decimal.Decimal
	DurationDays      int
	RepaymentType     RepaymentType
	// MilestoneCount must be >= 2 exactly when RepaymentType is milestone.
	MilestoneCount   int
	InsuranceApplied bool
}

func (t LoanTerms) Validate() error {
	if !t.Principal.IsPositive() {
		return fmt.Errorf("%w: principal must be positive", ErrInvalidLoanTerms)
	}
	if t.AnnualRatePercent.IsNegative() {
		return fmt.Errorf("%w: annual rate must not be negative", ErrInvalidLoanTerms)
	}
	if t.DurationDays <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidLoanTerms)
	}
	switch t.RepaymentType {
	case RepaymentOneTime:
		if t.MilestoneCount != 0 {
			return fmt.Errorf("%w: milestone count set on one-time loan", ErrInvalidLoanTerms)
		}
	case RepaymentMilestone:
		if t.MilestoneCount < 2 {
			return fmt.Errorf("%w: milestone loans need at least 2 milestones", ErrInvalidLoanTerms)
		}
	default:
		return fmt.Errorf("%w: unknown repayment type %q", ErrInvalidLoanTerms, t.RepaymentType)
	}
	return nil
}

// EffectiveRatePercent is the annual rate after the insurance discount.
func (t LoanTerms) EffectiveRatePercent() decimal.Decimal {
	if t.InsuranceApplied {
		return t.AnnualRatePercent.Mul(insuranceRateFactor)
	}
	return t.AnnualRatePercent
}

// ComputeInterest returns the simple interest accrued over the loan duration:
// principal * effectiveRate/100 * durationDays/365, rounded to 2 places.
func ComputeInterest(principal, annualRatePercent decimal.Decimal, durationDays int, insuranceApplied bool) (decimal.Decimal, error) {
	t := LoanTerms{
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		DurationDays:      durationDays,
		RepaymentType:     RepaymentOneTime,
		InsuranceApplied:  insuranceApplied,
	}
	if err := t.Validate(); err != nil {
		return decimal.Zero, err
	}
	return t.Interest(), nil
}

// Interest computes the interest amount for already-validated terms.
func (t LoanTerms) Interest() decimal.Decimal {
	return t.Principal.
		Mul(t.EffectiveRatePercent()).
		Mul(decimal.NewFromInt(int64(t.DurationDays))).
		Div(decimal.NewFromInt(100 * daysPerYear)).
		Round(2)
}

// TotalRepayment is principal plus interest.
func (t LoanTerms) TotalRepayment() decimal.Decimal {
	return t.Principal.Add(t.Interest())
}
