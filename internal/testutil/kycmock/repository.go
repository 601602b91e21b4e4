package kycmock

import (
	"context"

	domain "lendmarket/internal/domain/kyc"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unfilled getters behave like an empty table.
type Repo struct {
	CreateFn                     func(ctx context.Context, s *domain.Submission) error
	GetBySubmissionIDFn          func(ctx context.Context, submissionID string) (*domain.Submission, error)
	GetBySubmissionIDForUpdateFn func(ctx context.Context, submissionID string) (*domain.Submission, error)
	GetPendingByUserIDFn         func(ctx context.Context, userID uint64) (*domain.Submission, error)
	ListPendingFn                func(ctx context.Context, limit, offset int) ([]domain.Submission, error)
	SaveFn                       func(ctx context.Context, s *domain.Submission) error
}

func (m *Repo) Create(ctx context.Context, s *domain.Submission) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}

func (m *Repo) GetBySubmissionID(ctx context.Context, submissionID string) (*domain.Submission, error) {
	if m.GetBySubmissionIDFn != nil {
		return m.GetBySubmissionIDFn(ctx, submissionID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetBySubmissionIDForUpdate(ctx context.Context, submissionID string) (*domain.Submission, error) {
	if m.GetBySubmissionIDForUpdateFn != nil {
		return m.GetBySubmissionIDForUpdateFn(ctx, submissionID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetPendingByUserID(ctx context.Context, userID uint64) (*domain.Submission, error) {
	if m.GetPendingByUserIDFn != nil {
		return m.GetPendingByUserIDFn(ctx, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListPending(ctx context.Context, limit, offset int) ([]domain.Submission, error) {
	if m.ListPendingFn != nil {
		return m.ListPendingFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *Repo) Save(ctx context.Context, s *domain.Submission) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}
