package fine

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("fine not found")
	ErrAlreadyPaid = errors.New("fine already paid")
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Fine is a late-payment penalty. Once paid it is immutable.
type Fine struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Public identifier (32-char lowercase hex)
	FineID           string          `gorm:"column:fine_id;type:char(32);not null;uniqueIndex:ux_fines_fine_id_active" json:"fine_id"`
	LoanID           uint64          `gorm:"column:loan_id;not null;index:idx_fines_loan" json:"-"`
	RepaymentEntryID uint64          `gorm:"column:repayment_entry_id;not null;index:idx_fines_entry" json:"-"`
	OriginalAmount   decimal.Decimal `gorm:"column:original_amount;type:decimal(18,2);not null" json:"original_amount"`
	DaysLate         int             `gorm:"column:days_late;not null" json:"days_late"`
	FinePercent      decimal.Decimal `gorm:"column:fine_percent;type:decimal(5,2);not null" json:"fine_percent"`
	FineAmount       decimal.Decimal `gorm:"column:fine_amount;type:decimal(18,2);not null" json:"fine_amount"`
	Status           Status          `gorm:"column:status;type:enum('pending','paid');default:'pending'" json:"status"`
	PaidAt           *time.Time      `gorm:"column:paid_at" json:"paid_at,omitempty"`
	TransactionUUID  string          `gorm:"column:transaction_uuid;type:char(36)" json:"transaction_uuid,omitempty"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"column:deleted_at;index" json:"-"`
}

func (Fine) TableName() string { return "fines" }
