package terms

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Credit scores live in [MinScore, MaxScore]; new accounts start at DefaultScore.
const (
	MinScore     = 0
	MaxScore     = 100
	DefaultScore = 50
)

// DefaultPenalty is applied on top of the late-tier penalty when a loan is
// written off as defaulted.
const DefaultPenalty = -30

type amountTier struct {
	min   int64 // inclusive, currency units
	delta int
}

// Lender and borrower tables share bands but differ in the top tier
// (+15 vs +12). The asymmetry is deliberate risk-weighting; keep them
// separate.
var lendingTiers = []amountTier{
	{500, 1},
	{1_000, 2},
	{5_000, 3},
	{10_000, 5},
	{50_000, 8},
	{100_000, 15},
}

var repaymentTiers = []amountTier{
	{500, 1},
	{1_000, 2},
	{5_000, 3},
	{10_000, 5},
	{50_000, 8},
	{100_000, 12},
}

func tierDelta(tiers []amountTier, amount decimal.Decimal) int {
	delta := 0
	for _, t := range tiers {
		if amount.Cmp(decimal.NewFromInt(t.min)) >= 0 {
			delta = t.delta
		}
	}
	return delta
}

// ScoreDeltaForLending is the lender's reward for a successful disbursement.
// Always >= 0.
func ScoreDeltaForLending(amount decimal.Decimal) (int, error) {
	if amount.IsNegative() {
		return 0, fmt.Errorf("%w: negative lending amount", ErrInvalidInput)
	}
	return tierDelta(lendingTiers, amount), nil
}

// ScoreDeltaForRepayment maps a repayment event to the borrower's score
// delta: a positive amount-tier reward when on time, a lateness-tier
// penalty otherwise.
func ScoreDeltaForRepayment(amount decimal.Decimal, daysLate int) (int, error) {
	if amount.IsNegative() {
		return 0, fmt.Errorf("%w: negative repayment amount", ErrInvalidInput)
	}
	if daysLate < 0 {
		return 0, fmt.Errorf("%w: negative days late", ErrInvalidInput)
	}
	if daysLate == 0 {
		return tierDelta(repaymentTiers, amount), nil
	}
	return latePenalty(daysLate), nil
}

// ScoreDeltaForDefault is the borrower's penalty for missing a repayment
// entirely: the late tier plus a flat write-off penalty.
func ScoreDeltaForDefault(daysLate int) (int, error) {
	if daysLate < 0 {
		return 0, fmt.Errorf("%w: negative days late", ErrInvalidInput)
	}
	return latePenalty(daysLate) + DefaultPenalty, nil
}

func latePenalty(daysLate int) int {
	switch {
	case daysLate <= 7:
		return -10
	case daysLate <= 14:
		return -20
	case daysLate <= 30:
		return -30
	default:
		return -50
	}
}

// ClampScore applies a delta and keeps the result inside [MinScore, MaxScore].
func ClampScore(score, delta int) int {
	s := score + delta
	if s < MinScore {
		return MinScore
	}
	if s > MaxScore {
		return MaxScore
	}
	return s
}
