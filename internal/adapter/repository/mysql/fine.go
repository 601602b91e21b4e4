package mysql

import (
	"context"

	fineDomain "lendmarket/internal/domain/fine"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FineRepository struct{ db *gorm.DB }

func NewFineRepository(db *gorm.DB) *FineRepository { return &FineRepository{db: db} }

func (r *FineRepository) Create(ctx context.Context, f *fineDomain.Fine) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FineRepository) Save(ctx context.Context, f *fineDomain.Fine) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *FineRepository) GetByFineID(ctx context.Context, fineID string) (*fineDomain.Fine, error) {
	var out fineDomain.Fine
	res := r.db.WithContext(ctx).Where("fine_id = ?", fineID).First(&out)
	return &out, res.Error
}

func (r *FineRepository) GetByFineIDForUpdate(ctx context.Context, fineID string) (*fineDomain.Fine, error) {
	var out fineDomain.Fine
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("fine_id = ?", fineID).
		First(&out)
	return &out, res.Error
}

func (r *FineRepository) ListByLoanID(ctx context.Context, loanID uint64) ([]fineDomain.Fine, error) {
	var out []fineDomain.Fine
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}
