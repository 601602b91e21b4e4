package payment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lendmarket/internal/domain/fine"
	domainLoan "lendmarket/internal/domain/loan"
	domainRepayment "lendmarket/internal/domain/repayment"
	domainUser "lendmarket/internal/domain/user"
	"lendmarket/internal/domain/uow"
	"lendmarket/internal/gateway"
	"lendmarket/internal/terms"
	"lendmarket/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrNeedsReconciliation is the soft-failure outcome: the gateway confirmed
// the payment but our record never turned up within the retry budget. The
// money moved, so this is surfaced as "recorded, reconciliation may be
// needed" rather than an error page.
var ErrNeedsReconciliation = errors.New("payment recorded, manual reconciliation may be needed")

type Usecase struct {
	repayments domainRepayment.Repository
	uow        uow.UnitOfWork
	log        *slog.Logger

	// The gateway redirect can land before the funding tx commits; the
	// lookup is retried RetryAttempts times RetryInterval apart.
	RetryAttempts int
	RetryInterval time.Duration

	now func() time.Time
}

func NewUsecase(repayments domainRepayment.Repository, tx uow.UnitOfWork, log *slog.Logger) *Usecase {
	return &Usecase{
		repayments:    repayments,
		uow:           tx,
		log:           log,
		RetryAttempts: 3,
		RetryInterval: 2 * time.Second,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

type ResultDTO struct {
	TransactionUUID string          `json:"transaction_uuid"`
	LoanID          string          `json:"loan_id"`
	SequenceIndex   int             `json:"sequence_index"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	DaysLate        int             `json:"days_late"`
	ScoreDelta      int             `json:"score_delta"`
	NewCreditScore  int             `json:"new_credit_score"`
	FineID          string          `json:"fine_id,omitempty"`
	FineAmount      decimal.Decimal `json:"fine_amount,omitempty"`
	LoanState       string          `json:"loan_state"`
	AlreadyPaid     bool            `json:"already_paid,omitempty"`
}

// HandleGatewayReturn processes the gateway's success redirect payload:
// the repayment entry is marked paid, the borrower's credit score moves by
// the on-time/late tier, and a late payment opens a pending fine. When the
// last entry settles the loan flips to repaid.
func (u *Usecase) HandleGatewayReturn(ctx context.Context, rawPayload string) (*ResultDTO, error) {
	p, err := gateway.DecodeSuccessPayload(rawPayload)
	if err != nil {
		return nil, err
	}

	if err := u.waitForEntry(ctx, p.TransactionUUID); err != nil {
		return nil, err
	}
	return u.settle(ctx, p)
}

// waitForEntry absorbs the redirect-before-commit race: the record may not
// exist yet when the payer bounces back to us.
func (u *Usecase) waitForEntry(ctx context.Context, txUUID string) error {
	attempts := u.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	for i := 1; ; i++ {
		_, err := u.repayments.GetByTransactionUUID(ctx, txUUID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if i >= attempts {
			u.log.Warn("repayment entry never appeared for gateway return",
				"transaction_uuid", txUUID, "attempts", attempts)
			return ErrNeedsReconciliation
		}
		u.log.Info("repayment entry not found yet, retrying",
			"transaction_uuid", txUUID, "attempt", i)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(u.RetryInterval):
		}
	}
}

func (u *Usecase) settle(ctx context.Context, p *gateway.SuccessPayload) (*ResultDTO, error) {
	var dto *ResultDTO

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		entry, err := r.Repayments.GetByTransactionUUID(ctx, p.TransactionUUID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNeedsReconciliation
			}
			return err
		}

		l, err := r.Loans.GetByID(ctx, entry.LoanID)
		if err != nil {
			return err
		}

		// Replayed redirect: the gateway retries its success callback, so a
		// settled entry just echoes the previous outcome.
		if entry.Status == domainRepayment.StatusPaid {
			dto = &ResultDTO{
				TransactionUUID: entry.TransactionUUID,
				LoanID:          l.LoanID,
				SequenceIndex:   entry.SequenceIndex,
				AmountPaid:      entry.AmountDue,
				LoanState:       string(l.State),
				AlreadyPaid:     true,
			}
			return nil
		}

		borrower, err := r.Users.GetByUserIDForUpdate(ctx, l.BorrowerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainUser.ErrNotFound
			}
			return err
		}

		now := u.now()
		daysLate := daysBetween(entry.DueDate, now)
		paidAt := now
		entry.Status = domainRepayment.StatusPaid
		entry.PaidAt = &paidAt
		if err := r.Repayments.Save(ctx, entry); err != nil {
			return err
		}

		dto = &ResultDTO{
			TransactionUUID: entry.TransactionUUID,
			LoanID:          l.LoanID,
			SequenceIndex:   entry.SequenceIndex,
			AmountPaid:      entry.AmountDue,
			DaysLate:        daysLate,
		}

		delta, err := terms.ScoreDeltaForRepayment(entry.AmountDue, daysLate)
		if err != nil {
			// Caller bug by contract; never apply a wrong delta.
			u.log.Error("repayment score delta rejected, skipping mutation",
				"transaction_uuid", entry.TransactionUUID, "err", err)
		} else {
			borrower.CreditScore = terms.ClampScore(borrower.CreditScore, delta)
			if err := r.Users.Save(ctx, borrower); err != nil {
				return err
			}
			dto.ScoreDelta = delta
		}
		dto.NewCreditScore = borrower.CreditScore

		if daysLate > 0 {
			computed, err := terms.ComputeFine(entry.AmountDue, daysLate)
			if err != nil {
				u.log.Error("fine computation rejected, skipping fine",
					"transaction_uuid", entry.TransactionUUID, "err", err)
			} else {
				f := &fine.Fine{
					FineID:           id.NewID32(),
					LoanID:           l.ID,
					RepaymentEntryID: entry.ID,
					OriginalAmount:   computed.OriginalAmount,
					DaysLate:         computed.DaysLate,
					FinePercent:      computed.Percent,
					FineAmount:       computed.Amount,
					Status:           fine.StatusPending,
				}
				if err := r.Fines.Create(ctx, f); err != nil {
					return err
				}
				dto.FineID = f.FineID
				dto.FineAmount = f.FineAmount
			}
		}

		pending, err := r.Repayments.CountPending(ctx, l.ID)
		if err != nil {
			return err
		}
		if pending == 0 && l.State == domainLoan.StateActive {
			l.State = domainLoan.StateRepaid
			l.StateUpdatedAt = now
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
		}
		dto.LoanState = string(l.State)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

type DefaultDTO struct {
	LoanID         string `json:"loan_id"`
	DaysLate       int    `json:"days_late"`
	ScoreDelta     int    `json:"score_delta"`
	NewCreditScore int    `json:"new_credit_score"`
	LoanState      string `json:"loan_state"`
}

// MarkDefaulted writes off an active loan whose next installment is past
// terminal grace: the late-tier penalty plus the flat write-off penalty hit
// the borrower and the loan state flips to defaulted.
func (u *Usecase) MarkDefaulted(ctx context.Context, loanID string) (*DefaultDTO, error) {
	var dto *DefaultDTO

	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.State != domainLoan.StateActive {
			return domainLoan.ErrInvalidTransition
		}
		next, err := r.Repayments.GetNextPending(ctx, l.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainLoan.ErrInvalidTransition
			}
			return err
		}
		now := u.now()
		daysLate := daysBetween(next.DueDate, now)
		if daysLate < 1 {
			return errors.New("loan is not overdue")
		}

		borrower, err := r.Users.GetByUserIDForUpdate(ctx, l.BorrowerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainUser.ErrNotFound
			}
			return err
		}
		delta, err := terms.ScoreDeltaForDefault(daysLate)
		if err != nil {
			u.log.Error("default score delta rejected, skipping mutation",
				"loan_id", l.LoanID, "err", err)
			delta = 0
		} else {
			borrower.CreditScore = terms.ClampScore(borrower.CreditScore, delta)
			if err := r.Users.Save(ctx, borrower); err != nil {
				return err
			}
		}

		l.State = domainLoan.StateDefaulted
		l.StateUpdatedAt = now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		dto = &DefaultDTO{
			LoanID:         l.LoanID,
			DaysLate:       daysLate,
			ScoreDelta:     delta,
			NewCreditScore: borrower.CreditScore,
			LoanState:      string(l.State),
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

type FineDTO struct {
	FineID          string          `json:"fine_id"`
	FineAmount      decimal.Decimal `json:"fine_amount"`
	Status          string          `json:"status"`
	TransactionUUID string          `json:"transaction_uuid,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
}

// PayFine settles a pending fine from a completed gateway payment.
// Pending → paid is one-way; a paid fine is immutable.
func (u *Usecase) PayFine(ctx context.Context, fineID, transactionUUID string) (*FineDTO, error) {
	var dto *FineDTO

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		f, err := r.Fines.GetByFineIDForUpdate(ctx, fineID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fine.ErrNotFound
			}
			return err
		}
		if f.Status == fine.StatusPaid {
			return fine.ErrAlreadyPaid
		}
		paidAt := u.now()
		f.Status = fine.StatusPaid
		f.PaidAt = &paidAt
		f.TransactionUUID = transactionUUID
		if err := r.Fines.Save(ctx, f); err != nil {
			return err
		}
		dto = &FineDTO{
			FineID:          f.FineID,
			FineAmount:      f.FineAmount,
			Status:          string(f.Status),
			TransactionUUID: f.TransactionUUID,
			PaidAt:          f.PaidAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// daysBetween counts started days past due; on-time and early both yield 0,
// any lateness counts as at least one day.
func daysBetween(due, now time.Time) int {
	if !now.After(due) {
		return 0
	}
	const day = 24 * time.Hour
	d := now.Sub(due)
	n := int(d / day)
	if d%day > 0 {
		n++
	}
	return n
}
