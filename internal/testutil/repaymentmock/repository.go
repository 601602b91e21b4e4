package repaymentmock

import (
	"context"

	domain "lendmarket/internal/domain/repayment"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unfilled getters behave like an empty table.
type Repo struct {
	BulkCreateFn           func(ctx context.Context, entries []domain.Entry) error
	ListByLoanIDFn         func(ctx context.Context, loanID uint64) ([]domain.Entry, error)
	GetByTransactionUUIDFn func(ctx context.Context, txUUID string) (*domain.Entry, error)
	GetNextPendingFn       func(ctx context.Context, loanID uint64) (*domain.Entry, error)
	CountPendingFn         func(ctx context.Context, loanID uint64) (int64, error)
	SaveFn                 func(ctx context.Context, e *domain.Entry) error
}

func (m *Repo) BulkCreate(ctx context.Context, entries []domain.Entry) error {
	if m.BulkCreateFn != nil {
		return m.BulkCreateFn(ctx, entries)
	}
	return nil
}

func (m *Repo) ListByLoanID(ctx context.Context, loanID uint64) ([]domain.Entry, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, nil
}

func (m *Repo) GetByTransactionUUID(ctx context.Context, txUUID string) (*domain.Entry, error) {
	if m.GetByTransactionUUIDFn != nil {
		return m.GetByTransactionUUIDFn(ctx, txUUID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetNextPending(ctx context.Context, loanID uint64) (*domain.Entry, error) {
	if m.GetNextPendingFn != nil {
		return m.GetNextPendingFn(ctx, loanID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) CountPending(ctx context.Context, loanID uint64) (int64, error) {
	if m.CountPendingFn != nil {
		return m.CountPendingFn(ctx, loanID)
	}
	return 0, nil
}

func (m *Repo) Save(ctx context.Context, e *domain.Entry) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, e)
	}
	return nil
}
