package fine

import "context"

type Repository interface {
	Create(ctx context.Context, f *Fine) error
	GetByFineID(ctx context.Context, fineID string) (*Fine, error)
	GetByFineIDForUpdate(ctx context.Context, fineID string) (*Fine, error)
	ListByLoanID(ctx context.Context, loanID uint64) ([]Fine, error)
	Save(ctx context.Context, f *Fine) error
}
