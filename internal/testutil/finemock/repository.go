package finemock

import (
	"context"

	domain "lendmarket/internal/domain/fine"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unfilled getters behave like an empty table.
type Repo struct {
	CreateFn               func(ctx context.Context, f *domain.Fine) error
	GetByFineIDFn          func(ctx context.Context, fineID string) (*domain.Fine, error)
	GetByFineIDForUpdateFn func(ctx context.Context, fineID string) (*domain.Fine, error)
	ListByLoanIDFn         func(ctx context.Context, loanID uint64) ([]domain.Fine, error)
	SaveFn                 func(ctx context.Context, f *domain.Fine) error
}

func (m *Repo) Create(ctx context.Context, f *domain.Fine) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, f)
	}
	return nil
}

func (m *Repo) GetByFineID(ctx context.Context, fineID string) (*domain.Fine, error) {
	if m.GetByFineIDFn != nil {
		return m.GetByFineIDFn(ctx, fineID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByFineIDForUpdate(ctx context.Context, fineID string) (*domain.Fine, error) {
	if m.GetByFineIDForUpdateFn != nil {
		return m.GetByFineIDForUpdateFn(ctx, fineID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListByLoanID(ctx context.Context, loanID uint64) ([]domain.Fine, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, f *domain.Fine) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, f)
	}
	return nil
}
