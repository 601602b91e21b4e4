package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	loanDomain "lendmarket/internal/domain/loan"
	repaymentDomain "lendmarket/internal/domain/repayment"
	"lendmarket/internal/domain/uow"
	"lendmarket/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openUowTestDB migrates every table, so UoW can orchestrate all repos.
func openUowTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&userSQLite{}, &loanSQLite{}, &repaymentSQLite{}, &fineSQLite{}, &kycSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openUowTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	repaymentRepo := NewRepaymentRepository(db)

	loanID := id.NewID32()
	txUUID := id.NewTransactionUUID()

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		l := makeLoan(loanID, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if l.ID == 0 {
			t.Fatalf("loan auto ID not set")
		}
		return r.Repayments.BulkCreate(ctx, []repaymentDomain.Entry{{
			LoanID:          l.ID,
			SequenceIndex:   1,
			DueDate:         time.Now().UTC().AddDate(0, 0, 60),
			AmountDue:       decimal.RequireFromString("5098.63"),
			Status:          repaymentDomain.StatusPending,
			TransactionUUID: txUUID,
		}})
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	if _, err := loanRepo.GetByLoanID(ctx, loanID); err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
	if _, err := repaymentRepo.GetByTransactionUUID(ctx, txUUID); err != nil {
		t.Fatalf("repayment entry not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openUowTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)

	loanID := id.NewID32()
	sentinel := errors.New("boom")

	_ = guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, makeLoan(loanID, "22222222222222222222222222222222")); err != nil {
			return err
		}
		return sentinel // force rollback
	})

	_, err := loanRepo.GetByLoanID(ctx, loanID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found after rollback, got %v", err)
	}
}

func TestGormUoW_WithinLoanTx_Commit(t *testing.T) {
	db := openUowTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)

	loanID := id.NewID32()
	if err := loanRepo.Create(ctx, makeLoan(loanID, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")); err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	if err := guow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if l == nil || l.LoanID != loanID || l.State != loanDomain.StateOpen {
			t.Fatalf("unexpected loan passed to fn: %+v", l)
		}
		fundedAt := time.Now().UTC()
		l.LenderID = "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"
		l.FundedAt = &fundedAt
		l.State = loanDomain.StateActive
		l.StateUpdatedAt = fundedAt
		return r.Loans.Save(ctx, l)
	}); err != nil {
		t.Fatalf("WithinLoanTx commit err: %v", err)
	}

	got, err := loanRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID post-commit: %v", err)
	}
	if got.State != loanDomain.StateActive {
		t.Fatalf("loan state not updated, got=%s", got.State)
	}
}

func TestGormUoW_WithinLoanTx_Rollback(t *testing.T) {
	db := openUowTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)

	loanID := id.NewID32()
	if err := loanRepo.Create(ctx, makeLoan(loanID, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")); err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	sentinel := errors.New("stop")
	_ = guow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		l.State = loanDomain.StateActive
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		return sentinel // force rollback
	})

	got, err := loanRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("post-rollback GetByLoanID: %v", err)
	}
	if got.State != loanDomain.StateOpen {
		t.Fatalf("expected open after rollback, got %s", got.State)
	}
}

func TestGormUoW_WithinLoanTx_LoanNotFound(t *testing.T) {
	db := openUowTestDB(t)

	guow := NewGormUoW(db)
	err := guow.WithinLoanTx(context.Background(), id.NewID32(), func(r uow.Repos, l *loanDomain.Loan) error {
		t.Fatalf("callback should not be called when loan missing")
		return nil
	})
	if err == nil {
		t.Fatalf("expected error when loan not found")
	}
}
