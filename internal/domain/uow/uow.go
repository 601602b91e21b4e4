package uow

import (
	"context"

	"lendmarket/internal/domain/fine"
	"lendmarket/internal/domain/kyc"
	"lendmarket/internal/domain/loan"
	"lendmarket/internal/domain/repayment"
	"lendmarket/internal/domain/user"
)

type Repos struct {
	Users      user.Repository
	Loans      loan.Repository
	Repayments repayment.Repository
	Fines      fine.Repository
	KYC        kyc.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
