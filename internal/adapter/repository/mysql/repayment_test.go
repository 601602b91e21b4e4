package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "lendmarket/internal/domain/repayment"
	"lendmarket/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type repaymentSQLite struct {
	ID              uint64         `gorm:"primaryKey;column:id"`
	LoanID          uint64         `gorm:"column:loan_id"`
	SequenceIndex   int            `gorm:"column:sequence_index"`
	DueDate         time.Time      `gorm:"column:due_date"`
	AmountDue       string         `gorm:"type:text;column:amount_due"`
	Status          string         `gorm:"type:text;column:status"` // ← no enum
	TransactionUUID string         `gorm:"size:36;column:transaction_uuid"`
	PaidAt          *time.Time     `gorm:"column:paid_at"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (repaymentSQLite) TableName() string { return "repayment_entries" }

func openRepaymentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&repaymentSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func seedSchedule(t *testing.T, repo *RepaymentRepository, loanID uint64, n int) []domain.Entry {
	t.Helper()
	base := time.Now().UTC()
	entries := make([]domain.Entry, 0, n)
	for i := 1; i <= n; i++ {
		entries = append(entries, domain.Entry{
			LoanID:          loanID,
			SequenceIndex:   i,
			DueDate:         base.AddDate(0, 0, 20*i),
			AmountDue:       decimal.NewFromInt(3000),
			Status:          domain.StatusPending,
			TransactionUUID: id.NewTransactionUUID(),
		})
	}
	if err := repo.BulkCreate(context.Background(), entries); err != nil {
		t.Fatalf("BulkCreate: %v", err)
	}
	return entries
}

func TestBulkCreateAndListByLoanID(t *testing.T) {
	db := openRepaymentTestDB(t)
	repo := NewRepaymentRepository(db)
	ctx := context.Background()

	seedSchedule(t, repo, 42, 3)
	seedSchedule(t, repo, 99, 1) // another loan, must not leak into the listing

	out, err := repo.ListByLoanID(ctx, 42)
	if err != nil {
		t.Fatalf("ListByLoanID: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	for i, e := range out {
		if e.SequenceIndex != i+1 {
			t.Fatalf("entries not ordered by sequence: %+v", out)
		}
	}
}

func TestGetByTransactionUUID(t *testing.T) {
	db := openRepaymentTestDB(t)
	repo := NewRepaymentRepository(db)
	ctx := context.Background()

	entries := seedSchedule(t, repo, 42, 2)

	got, err := repo.GetByTransactionUUID(ctx, entries[1].TransactionUUID)
	if err != nil {
		t.Fatalf("GetByTransactionUUID: %v", err)
	}
	if got.SequenceIndex != 2 {
		t.Fatalf("wrong entry: %+v", got)
	}

	_, err = repo.GetByTransactionUUID(ctx, id.NewTransactionUUID())
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestGetNextPendingAndCountPending(t *testing.T) {
	db := openRepaymentTestDB(t)
	repo := NewRepaymentRepository(db)
	ctx := context.Background()

	entries := seedSchedule(t, repo, 42, 3)

	// settle the first entry
	paidAt := time.Now().UTC()
	first := entries[0]
	first.Status = domain.StatusPaid
	first.PaidAt = &paidAt
	if err := repo.Save(ctx, &first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	next, err := repo.GetNextPending(ctx, 42)
	if err != nil {
		t.Fatalf("GetNextPending: %v", err)
	}
	if next.SequenceIndex != 2 {
		t.Fatalf("next pending = %d, want 2", next.SequenceIndex)
	}

	n, err := repo.CountPending(ctx, 42)
	if err != nil {
		t.Fatalf("CountPending: %v", err)
	}
	if n != 2 {
		t.Fatalf("pending = %d, want 2", n)
	}
}
