package terms

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type EntryStatus string

const (
	EntryPending EntryStatus = "pending"
	EntryPaid    EntryStatus = "paid"
)

// ScheduleEntry is one due-date/amount pair in a repayment schedule.
// SequenceIndex is 1-based and due dates are non-decreasing in it.
type ScheduleEntry struct {
	SequenceIndex int
	DueDate       time.Time
	AmountDue     decimal.Decimal
	Status        EntryStatus
}

// GenerateSchedule expands a total repayment amount into the loan's due
// entries, anchored at start. One-time loans get a single entry at
// start+duration; milestone loans get MilestoneCount equal entries at
// start + duration*i/n. The last milestone absorbs the division remainder
// so the entries always sum exactly to total.
func GenerateSchedule(t LoanTerms, total decimal.Decimal, start time.Time) ([]ScheduleEntry, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: total repayment must be positive", ErrInvalidLoanTerms)
	}

	if t.RepaymentType == RepaymentOneTime {
		return []ScheduleEntry{{
			SequenceIndex: 1,
			DueDate:       start.Add(days(float64(t.DurationDays))),
			AmountDue:     total,
			Status:        EntryPending,
		}}, nil
	}

	n := t.MilestoneCount
	per := total.DivRound(decimal.NewFromInt(int64(n)), 2)
	entries := make([]ScheduleEntry, 0, n)
	for i := 1; i <= n; i++ {
		amount := per
		if i == n {
			amount = total.Sub(per.Mul(decimal.NewFromInt(int64(n - 1))))
		}
		offset := float64(t.DurationDays) * float64(i) / float64(n)
		entries = append(entries, ScheduleEntry{
			SequenceIndex: i,
			DueDate:       start.Add(days(offset)),
			AmountDue:     amount,
			Status:        EntryPending,
		})
	}
	return entries, nil
}

func days(d float64) time.Duration {
	return time.Duration(d * 24 * float64(time.Hour))
}
