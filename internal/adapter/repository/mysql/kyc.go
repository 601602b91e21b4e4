package mysql

import (
	"context"

	kycDomain "lendmarket/internal/domain/kyc"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KYCRepository struct{ db *gorm.DB }

func NewKYCRepository(db *gorm.DB) *KYCRepository { return &KYCRepository{db: db} }

func (r *KYCRepository) Create(ctx context.Context, s *kycDomain.Submission) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *KYCRepository) Save(ctx context.Context, s *kycDomain.Submission) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *KYCRepository) GetBySubmissionID(ctx context.Context, submissionID string) (*kycDomain.Submission, error) {
	var out kycDomain.Submission
	res := r.db.WithContext(ctx).Where("submission_id = ?", submissionID).First(&out)
	return &out, res.Error
}

func (r *KYCRepository) GetBySubmissionIDForUpdate(ctx context.Context, submissionID string) (*kycDomain.Submission, error) {
	var out kycDomain.Submission
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("submission_id = ?", submissionID).
		First(&out)
	return &out, res.Error
}

func (r *KYCRepository) GetPendingByUserID(ctx context.Context, userID uint64) (*kycDomain.Submission, error) {
	var out kycDomain.Submission
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND state = ?", userID, kycDomain.StatePending).
		Order("id DESC").
		First(&out)
	return &out, res.Error
}

func (r *KYCRepository) ListPending(ctx context.Context, limit, offset int) ([]kycDomain.Submission, error) {
	var out []kycDomain.Submission
	res := r.db.WithContext(ctx).
		Where("state = ?", kycDomain.StatePending).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&out)
	return out, res.Error
}
