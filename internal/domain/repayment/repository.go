package repayment

import "context"

type Repository interface {
	BulkCreate(ctx context.Context, entries []Entry) error
	ListByLoanID(ctx context.Context, loanID uint64) ([]Entry, error)
	GetByTransactionUUID(ctx context.Context, txUUID string) (*Entry, error)
	// GetNextPending returns the lowest-sequence unpaid entry for a loan.
	GetNextPending(ctx context.Context, loanID uint64) (*Entry, error)
	CountPending(ctx context.Context, loanID uint64) (int64, error)
	Save(ctx context.Context, e *Entry) error
}
