package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetByID(ctx context.Context, id uint64) (*Loan, error)
	// GetOpenLoanByBorrowerID enforces the one-live-request-per-borrower rule.
	GetOpenLoanByBorrowerID(ctx context.Context, borrowerID string) (*Loan, error)
	ListOpen(ctx context.Context, limit, offset int) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
}
