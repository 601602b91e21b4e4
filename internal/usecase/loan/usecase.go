package loan

import (
	"context"
	"errors"
	"time"

	domainLoan "lendmarket/internal/domain/loan"
	domainRepayment "lendmarket/internal/domain/repayment"
	domainUser "lendmarket/internal/domain/user"
	"lendmarket/internal/domain/uow"
	"lendmarket/internal/terms"
	"lendmarket/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Usecase struct {
	loans domainLoan.Repository
	uow   uow.UnitOfWork
	now   func() time.Time
}

func NewUsecase(loans domainLoan.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{loans: loans, uow: tx, now: func() time.Time { return time.Now().UTC() }}
}

type ApplyInput struct {
	BorrowerID       string          `json:"borrower_id"`
	Principal        decimal.Decimal `json:"principal"`
	AnnualRate       decimal.Decimal `json:"annual_rate"`
	DurationDays     int             `json:"duration_days"`
	RepaymentType    string          `json:"repayment_type"`
	MilestoneCount   int             `json:"milestone_count"`
	InsuranceApplied bool            `json:"insurance_applied"`
}

type ScheduleEntryDTO struct {
	SequenceIndex   int             `json:"sequence_index"`
	DueDate         time.Time       `json:"due_date"`
	AmountDue       decimal.Decimal `json:"amount_due"`
	Status          string          `json:"status"`
	TransactionUUID string          `json:"transaction_uuid,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
}

type LoanDTO struct {
	LoanID           string             `json:"loan_id"`
	BorrowerID       string             `json:"borrower_id"`
	LenderID         string             `json:"lender_id,omitempty"`
	Principal        decimal.Decimal    `json:"principal"`
	AnnualRate       decimal.Decimal    `json:"annual_rate"`
	DurationDays     int                `json:"duration_days"`
	RepaymentType    string             `json:"repayment_type"`
	MilestoneCount   int                `json:"milestone_count,omitempty"`
	InsuranceApplied bool               `json:"insurance_applied"`
	InterestAmount   decimal.Decimal    `json:"interest_amount"`
	TotalRepayment   decimal.Decimal    `json:"total_repayment"`
	State            string             `json:"state"`
	FundedAt         *time.Time         `json:"funded_at,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	Schedule         []ScheduleEntryDTO `json:"schedule,omitempty"`
}

func loanTerms(l *domainLoan.Loan) terms.LoanTerms {
	return terms.LoanTerms{
		Principal:         l.Principal,
		AnnualRatePercent: l.AnnualRate,
		DurationDays:      l.DurationDays,
		RepaymentType:     terms.RepaymentType(l.RepaymentType),
		MilestoneCount:    l.MilestoneCount,
		InsuranceApplied:  l.InsuranceApplied,
	}
}

func toDTO(l *domainLoan.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:           l.LoanID,
		BorrowerID:       l.BorrowerID,
		LenderID:         l.LenderID,
		Principal:        l.Principal,
		AnnualRate:       l.AnnualRate,
		DurationDays:     l.DurationDays,
		RepaymentType:    string(l.RepaymentType),
		MilestoneCount:   l.MilestoneCount,
		InsuranceApplied: l.InsuranceApplied,
		InterestAmount:   l.InterestAmount,
		TotalRepayment:   l.TotalRepayment,
		State:            string(l.State),
		FundedAt:         l.FundedAt,
		CreatedAt:        l.CreatedAt,
	}
}

func entryDTOs(entries []domainRepayment.Entry) []ScheduleEntryDTO {
	out := make([]ScheduleEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, ScheduleEntryDTO{
			SequenceIndex:   e.SequenceIndex,
			DueDate:         e.DueDate,
			AmountDue:       e.AmountDue,
			Status:          string(e.Status),
			TransactionUUID: e.TransactionUUID,
			PaidAt:          e.PaidAt,
		})
	}
	return out
}

// Apply validates the requested terms, prices the loan and lists it on the
// marketplace. The schedule itself is anchored at funding time, so the DTO
// carries a preview computed from now.
func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (*LoanDTO, error) {
	t := terms.LoanTerms{
		Principal:         in.Principal,
		AnnualRatePercent: in.AnnualRate,
		DurationDays:      in.DurationDays,
		RepaymentType:     terms.RepaymentType(in.RepaymentType),
		MilestoneCount:    in.MilestoneCount,
		InsuranceApplied:  in.InsuranceApplied,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	var dto *LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		borrower, err := r.Users.GetByUserID(ctx, in.BorrowerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainUser.ErrNotFound
			}
			return err
		}
		if borrower.Banned {
			return domainUser.ErrBanned
		}
		if borrower.KYCStatus != domainUser.KYCVerified {
			return domainUser.ErrNotVerified
		}

		// One live request per borrower.
		_, err = r.Loans.GetOpenLoanByBorrowerID(ctx, in.BorrowerID)
		switch {
		case err == nil:
			return domainLoan.ErrOpenLoanExists
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		interest := t.Interest()
		l := &domainLoan.Loan{
			LoanID:           id.NewID32(),
			BorrowerID:       in.BorrowerID,
			Principal:        in.Principal,
			AnnualRate:       in.AnnualRate,
			DurationDays:     in.DurationDays,
			RepaymentType:    domainLoan.RepaymentType(in.RepaymentType),
			MilestoneCount:   in.MilestoneCount,
			InsuranceApplied: in.InsuranceApplied,
			InterestAmount:   interest,
			TotalRepayment:   in.Principal.Add(interest),
			State:            domainLoan.StateOpen,
			StateUpdatedAt:   u.now(),
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}

		dto = toDTO(l)
		preview, err := terms.GenerateSchedule(t, l.TotalRepayment, u.now())
		if err != nil {
			return err
		}
		for _, e := range preview {
			dto.Schedule = append(dto.Schedule, ScheduleEntryDTO{
				SequenceIndex: e.SequenceIndex,
				DueDate:       e.DueDate,
				AmountDue:     e.AmountDue,
				Status:        string(e.Status),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Fund disburses a lender's money into an open loan: the loan goes active,
// the repayment schedule is written anchored at the funding instant, and
// the lender's credit score is rewarded by amount tier.
func (u *Usecase) Fund(ctx context.Context, loanID, lenderID string) (*LoanDTO, error) {
	var dto *LoanDTO

	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.State != domainLoan.StateOpen {
			if l.State == domainLoan.StateActive {
				return domainLoan.ErrAlreadyFunded
			}
			return domainLoan.ErrInvalidTransition
		}
		if l.BorrowerID == lenderID {
			return errors.New("borrower cannot fund their own loan")
		}

		lender, err := r.Users.GetByUserIDForUpdate(ctx, lenderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainUser.ErrNotFound
			}
			return err
		}
		if lender.Role != domainUser.RoleLender {
			return errors.New("only lenders can fund loans")
		}
		if lender.Banned {
			return domainUser.ErrBanned
		}
		if lender.KYCStatus != domainUser.KYCVerified {
			return domainUser.ErrNotVerified
		}

		fundedAt := u.now()
		schedule, err := terms.GenerateSchedule(loanTerms(l), l.TotalRepayment, fundedAt)
		if err != nil {
			return err
		}
		entries := make([]domainRepayment.Entry, 0, len(schedule))
		for _, e := range schedule {
			entries = append(entries, domainRepayment.Entry{
				LoanID:          l.ID,
				SequenceIndex:   e.SequenceIndex,
				DueDate:         e.DueDate,
				AmountDue:       e.AmountDue,
				Status:          domainRepayment.StatusPending,
				TransactionUUID: id.NewTransactionUUID(),
			})
		}
		if err := r.Repayments.BulkCreate(ctx, entries); err != nil {
			return err
		}

		l.LenderID = lenderID
		l.FundedAt = &fundedAt
		l.State = domainLoan.StateActive
		l.StateUpdatedAt = fundedAt
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		delta, err := terms.ScoreDeltaForLending(l.Principal)
		if err != nil {
			return err
		}
		lender.CreditScore = terms.ClampScore(lender.CreditScore, delta)
		if err := r.Users.Save(ctx, lender); err != nil {
			return err
		}

		dto = toDTO(l)
		dto.Schedule = entryDTOs(entries)
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

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainLoan.ErrNotFound
			}
			return err
		}
		dto = toDTO(l)
		entries, err := r.Repayments.ListByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		dto.Schedule = entryDTOs(entries)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) ListOpen(ctx context.Context, limit, offset int) ([]LoanDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	loans, err := u.loans.ListOpen(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, *toDTO(&loans[i]))
	}
	return out, nil
}
