package repayment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("repayment entry not found")
	ErrAlreadyPaid = errors.New("repayment entry already paid")
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Entry is one row of a loan's repayment schedule. TransactionUUID is
// assigned up front so the gateway's success redirect can be correlated
// back to the entry it settles.
type Entry struct {
	ID              uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LoanID          uint64          `gorm:"column:loan_id;not null;index:idx_repayments_loan;uniqueIndex:ux_repayments_loan_seq,priority:1" json:"-"`
	SequenceIndex   int             `gorm:"column:sequence_index;not null;uniqueIndex:ux_repayments_loan_seq,priority:2" json:"sequence_index"`
	DueDate         time.Time       `gorm:"column:due_date;not null" json:"due_date"`
	AmountDue       decimal.Decimal `gorm:"column:amount_due;type:decimal(18,2);not null" json:"amount_due"`
	Status          Status          `gorm:"column:status;type:enum('pending','paid');default:'pending'" json:"status"`
	TransactionUUID string          `gorm:"column:transaction_uuid;type:char(36);not null;uniqueIndex:ux_repayments_tx" json:"transaction_uuid"`
	PaidAt          *time.Time      `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"column:deleted_at;index" json:"-"`
}

func (Entry) TableName() string { return "repayment_entries" }
