package kyc

import "context"

type Repository interface {
	Create(ctx context.Context, s *Submission) error
	GetBySubmissionID(ctx context.Context, submissionID string) (*Submission, error)
	GetBySubmissionIDForUpdate(ctx context.Context, submissionID string) (*Submission, error)
	GetPendingByUserID(ctx context.Context, userID uint64) (*Submission, error)
	ListPending(ctx context.Context, limit, offset int) ([]Submission, error)
	Save(ctx context.Context, s *Submission) error
}
