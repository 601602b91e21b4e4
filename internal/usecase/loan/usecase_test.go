package loan

import (
	"context"
	"strings"
	"testing"
	"time"

	domainLoan "lendmarket/internal/domain/loan"
	domainRepayment "lendmarket/internal/domain/repayment"
	domainUser "lendmarket/internal/domain/user"
	"lendmarket/internal/domain/uow"
	"lendmarket/internal/terms"
	"lendmarket/internal/testutil/loanmock"
	"lendmarket/internal/testutil/repaymentmock"
	"lendmarket/internal/testutil/usermock"
	"lendmarket/internal/testutil/uowmock"

	"github.com/shopspring/decimal"
)

const (
	borrowerID = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	lenderID   = "cccccccccccccccccccccccccccccccc"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func verifiedUser(publicID string, role domainUser.Role) *domainUser.User {
	return &domainUser.User{
		ID:          7,
		UserID:      publicID,
		Role:        role,
		KYCStatus:   domainUser.KYCVerified,
		CreditScore: 50,
	}
}

func validApply() ApplyInput {
	return ApplyInput{
		BorrowerID:    borrowerID,
		Principal:     dec("10000"),
		AnnualRate:    dec("12"),
		DurationDays:  30,
		RepaymentType: "one_time",
	}
}

func newApplyUsecase(users *usermock.Repo, loans *loanmock.Repo) *Usecase {
	u := NewUsecase(loans, uowmock.New(uow.Repos{Users: users, Loans: loans}))
	u.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return u
}

func TestApply_Success(t *testing.T) {
	var created *domainLoan.Loan
	loans := &loanmock.Repo{
		CreateFn: func(ctx context.Context, l *domainLoan.Loan) error {
			created = l
			return nil
		},
	}
	users := &usermock.Repo{
		GetByUserIDFn: func(ctx context.Context, id string) (*domainUser.User, error) {
			return verifiedUser(borrowerID, domainUser.RoleBorrower), nil
		},
	}

	dto, err := newApplyUsecase(users, loans).Apply(context.Background(), validApply())
	if err != nil {
		t.Fatalf("Apply err: %v", err)
	}
	if created == nil {
		t.Fatal("loan was not persisted")
	}
	if len(dto.LoanID) != 32 {
		t.Fatalf("LoanID length: %d", len(dto.LoanID))
	}
	if dto.State != string(domainLoan.StateOpen) {
		t.Fatalf("state = %s, want open", dto.State)
	}
	if !dto.InterestAmount.Equal(dec("98.63")) {
		t.Fatalf("interest = %s, want 98.63", dto.InterestAmount)
	}
	if !dto.TotalRepayment.Equal(dec("10098.63")) {
		t.Fatalf("total = %s, want 10098.63", dto.TotalRepayment)
	}
	if len(dto.Schedule) != 1 {
		t.Fatalf("schedule preview entries = %d, want 1", len(dto.Schedule))
	}
}

func TestApply_RejectsInvalidTerms(t *testing.T) {
	uc := newApplyUsecase(&usermock.Repo{}, &loanmock.Repo{})

	in := validApply()
	in.Principal = dec("0")
	if _, err := uc.Apply(context.Background(), in); err == nil {
		t.Fatal("expected error for zero principal")
	}

	in = validApply()
	in.RepaymentType = "milestone"
	in.MilestoneCount = 1
	if _, err := uc.Apply(context.Background(), in); err == nil {
		t.Fatal("expected error for milestone count 1")
	}
}

func TestApply_RejectsWhenOpenLoanExists(t *testing.T) {
	loans := &loanmock.Repo{
		GetOpenLoanByBorrowerIDFn: func(ctx context.Context, id string) (*domainLoan.Loan, error) {
			return &domainLoan.Loan{LoanID: strings.Repeat("a", 32), BorrowerID: id, State: domainLoan.StateOpen}, nil
		},
		CreateFn: func(ctx context.Context, l *domainLoan.Loan) error {
			t.Fatal("Create must not be called when an open loan exists")
			return nil
		},
	}
	users := &usermock.Repo{
		GetByUserIDFn: func(ctx context.Context, id string) (*domainUser.User, error) {
			return verifiedUser(borrowerID, domainUser.RoleBorrower), nil
		},
	}

	_, err := newApplyUsecase(users, loans).Apply(context.Background(), validApply())
	if err != domainLoan.ErrOpenLoanExists {
		t.Fatalf("err = %v, want ErrOpenLoanExists", err)
	}
}

func TestApply_RejectsUnverifiedAndBanned(t *testing.T) {
	cases := []struct {
		name string
		mut  func(u *domainUser.User)
		want error
	}{
		{"unverified", func(u *domainUser.User) { u.KYCStatus = domainUser.KYCPending }, domainUser.ErrNotVerified},
		{"banned", func(u *domainUser.User) { u.Banned = true }, domainUser.ErrBanned},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &usermock.Repo{
				GetByUserIDFn: func(ctx context.Context, id string) (*domainUser.User, error) {
					u := verifiedUser(borrowerID, domainUser.RoleBorrower)
					tc.mut(u)
					return u, nil
				},
			}
			_, err := newApplyUsecase(users, &loanmock.Repo{}).Apply(context.Background(), validApply())
			if err != tc.want {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func openLoan() *domainLoan.Loan {
	return &domainLoan.Loan{
		ID:             42,
		LoanID:         strings.Repeat("d", 32),
		BorrowerID:     borrowerID,
		Principal:      dec("9000"),
		AnnualRate:     dec("0"),
		DurationDays:   60,
		RepaymentType:  domainLoan.RepaymentMilestone,
		MilestoneCount: 3,
		InterestAmount: dec("0"),
		TotalRepayment: dec("9000"),
		State:          domainLoan.StateOpen,
	}
}

func TestFund_Success(t *testing.T) {
	l := openLoan()
	lender := verifiedUser(lenderID, domainUser.RoleLender)

	var createdEntries []domainRepayment.Entry
	repayments := &repaymentmock.Repo{
		BulkCreateFn: func(ctx context.Context, entries []domainRepayment.Entry) error {
			createdEntries = entries
			return nil
		},
	}
	loans := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(ctx context.Context, loanID string) (*domainLoan.Loan, error) {
			return l, nil
		},
	}
	users := &usermock.Repo{
		GetByUserIDForUpdateFn: func(ctx context.Context, id string) (*domainUser.User, error) {
			return lender, nil
		},
	}

	uc := NewUsecase(loans, uowmock.New(uow.Repos{Users: users, Loans: loans, Repayments: repayments}))
	uc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	dto, err := uc.Fund(context.Background(), l.LoanID, lenderID)
	if err != nil {
		t.Fatalf("Fund err: %v", err)
	}
	if dto.State != string(domainLoan.StateActive) {
		t.Fatalf("state = %s, want active", dto.State)
	}
	if len(createdEntries) != 3 {
		t.Fatalf("entries = %d, want 3", len(createdEntries))
	}
	for i, e := range createdEntries {
		if e.SequenceIndex != i+1 {
			t.Fatalf("entry %d sequence = %d", i, e.SequenceIndex)
		}
		if !e.AmountDue.Equal(dec("3000")) {
			t.Fatalf("entry %d amount = %s, want 3000", i, e.AmountDue)
		}
		if e.TransactionUUID == "" {
			t.Fatalf("entry %d missing transaction uuid", i)
		}
	}
	// 9000 principal lands in the 5000-9999 lending tier
	if lender.CreditScore != 50+3 {
		t.Fatalf("lender score = %d, want 53", lender.CreditScore)
	}
}

func TestFund_StateGuards(t *testing.T) {
	l := openLoan()
	l.State = domainLoan.StateActive
	loans := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(ctx context.Context, loanID string) (*domainLoan.Loan, error) {
			return l, nil
		},
	}
	uc := NewUsecase(loans, uowmock.New(uow.Repos{Loans: loans}))

	_, err := uc.Fund(context.Background(), l.LoanID, lenderID)
	if err != domainLoan.ErrAlreadyFunded {
		t.Fatalf("err = %v, want ErrAlreadyFunded", err)
	}

	l.State = domainLoan.StateRepaid
	_, err = uc.Fund(context.Background(), l.LoanID, lenderID)
	if err != domainLoan.ErrInvalidTransition {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestFund_RejectsSelfFunding(t *testing.T) {
	l := openLoan()
	loans := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(ctx context.Context, loanID string) (*domainLoan.Loan, error) {
			return l, nil
		},
	}
	uc := NewUsecase(loans, uowmock.New(uow.Repos{Loans: loans}))

	if _, err := uc.Fund(context.Background(), l.LoanID, borrowerID); err == nil {
		t.Fatal("expected error when borrower funds own loan")
	}
}

func TestFund_NotFound(t *testing.T) {
	loans := &loanmock.Repo{} // empty table
	uc := NewUsecase(loans, uowmock.New(uow.Repos{Loans: loans}))

	_, err := uc.Fund(context.Background(), strings.Repeat("e", 32), lenderID)
	if err != domainLoan.ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFund_ScoreClampedAt100(t *testing.T) {
	l := openLoan()
	l.Principal = dec("100000")
	l.TotalRepayment = dec("100000")
	lender := verifiedUser(lenderID, domainUser.RoleLender)
	lender.CreditScore = 95

	loans := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(ctx context.Context, loanID string) (*domainLoan.Loan, error) {
			return l, nil
		},
	}
	users := &usermock.Repo{
		GetByUserIDForUpdateFn: func(ctx context.Context, id string) (*domainUser.User, error) {
			return lender, nil
		},
	}
	uc := NewUsecase(loans, uowmock.New(uow.Repos{Users: users, Loans: loans, Repayments: &repaymentmock.Repo{}}))

	if _, err := uc.Fund(context.Background(), l.LoanID, lenderID); err != nil {
		t.Fatalf("Fund err: %v", err)
	}
	if lender.CreditScore != terms.MaxScore {
		t.Fatalf("lender score = %d, want clamped to %d", lender.CreditScore, terms.MaxScore)
	}
}

func TestGet_ReturnsSchedule(t *testing.T) {
	l := openLoan()
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domainLoan.Loan, error) {
			return l, nil
		},
	}
	repayments := &repaymentmock.Repo{
		ListByLoanIDFn: func(ctx context.Context, loanID uint64) ([]domainRepayment.Entry, error) {
			if loanID != l.ID {
				t.Fatalf("unexpected loan id %d", loanID)
			}
			return []domainRepayment.Entry{
				{SequenceIndex: 1, AmountDue: dec("3000"), Status: domainRepayment.StatusPaid},
				{SequenceIndex: 2, AmountDue: dec("3000"), Status: domainRepayment.StatusPending},
			}, nil
		},
	}
	uc := NewUsecase(loans, uowmock.New(uow.Repos{Loans: loans, Repayments: repayments}))

	dto, err := uc.Get(context.Background(), l.LoanID)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if len(dto.Schedule) != 2 {
		t.Fatalf("schedule entries = %d, want 2", len(dto.Schedule))
	}
	if dto.Schedule[0].Status != string(domainRepayment.StatusPaid) {
		t.Fatalf("entry 1 status = %s", dto.Schedule[0].Status)
	}
}

func TestListOpen_ClampsLimit(t *testing.T) {
	var gotLimit int
	loans := &loanmock.Repo{
		ListOpenFn: func(ctx context.Context, limit, offset int) ([]domainLoan.Loan, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	uc := NewUsecase(loans, uowmock.New(uow.Repos{Loans: loans}))

	if _, err := uc.ListOpen(context.Background(), 0, -5); err != nil {
		t.Fatalf("ListOpen err: %v", err)
	}
	if gotLimit != 20 {
		t.Fatalf("limit = %d, want default 20", gotLimit)
	}
}
