package mysql

import (
	"context"

	repaymentDomain "lendmarket/internal/domain/repayment"

	"gorm.io/gorm"
)

type RepaymentRepository struct{ db *gorm.DB }

func NewRepaymentRepository(db *gorm.DB) *RepaymentRepository {
	return &RepaymentRepository{db: db}
}

func (r *RepaymentRepository) BulkCreate(ctx context.Context, entries []repaymentDomain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *RepaymentRepository) ListByLoanID(ctx context.Context, loanID uint64) ([]repaymentDomain.Entry, error) {
	var out []repaymentDomain.Entry
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("sequence_index ASC").
		Find(&out)
	return out, res.Error
}

func (r *RepaymentRepository) GetByTransactionUUID(ctx context.Context, txUUID string) (*repaymentDomain.Entry, error) {
	var out repaymentDomain.Entry
	res := r.db.WithContext(ctx).Where("transaction_uuid = ?", txUUID).First(&out)
	return &out, res.Error
}

func (r *RepaymentRepository) GetNextPending(ctx context.Context, loanID uint64) (*repaymentDomain.Entry, error) {
	var out repaymentDomain.Entry
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND status = ?", loanID, repaymentDomain.StatusPending).
		Order("sequence_index ASC").
		First(&out)
	return &out, res.Error
}

func (r *RepaymentRepository) CountPending(ctx context.Context, loanID uint64) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&repaymentDomain.Entry{}).
		Where("loan_id = ? AND status = ?", loanID, repaymentDomain.StatusPending).
		Count(&n)
	return n, res.Error
}

func (r *RepaymentRepository) Save(ctx context.Context, e *repaymentDomain.Entry) error {
	return r.db.WithContext(ctx).Save(e).Error
}
