package loan

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidTransition = errors.New("invalid loan state transition")
	ErrAlreadyFunded     = errors.New("loan already funded")
	ErrOpenLoanExists    = errors.New("borrower already has an open loan request")
)

type State string

const (
	// StateOpen: listed on the marketplace, waiting for a lender.
	StateOpen State = "open"
	// StateActive: funded and disbursed; the repayment schedule is live.
	StateActive    State = "active"
	StateRepaid    State = "repaid"
	StateDefaulted State = "defaulted"
)

type RepaymentType string

const (
	RepaymentOneTime   RepaymentType = "one_time"
	RepaymentMilestone RepaymentType = "milestone"
)

type Loan struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Public identifier (32-char lowercase hex)
	LoanID           string          `gorm:"column:loan_id;type:char(32);not null;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	BorrowerID       string          `gorm:"column:borrower_id;type:char(32);not null;index:idx_loans_borrower_active" json:"borrower_id"`
	LenderID         string          `gorm:"column:lender_id;type:char(32)" json:"lender_id,omitempty"`
	Principal        decimal.Decimal `gorm:"column:principal;type:decimal(18,2);not null" json:"principal"`
	AnnualRate       decimal.Decimal `gorm:"column:annual_rate;type:decimal(6,2);not null" json:"annual_rate"`
	DurationDays     int             `gorm:"column:duration_days;not null" json:"duration_days"`
	RepaymentType    RepaymentType   `gorm:"column:repayment_type;type:enum('one_time','milestone');not null" json:"repayment_type"`
	MilestoneCount   int             `gorm:"column:milestone_count;not null;default:0" json:"milestone_count,omitempty"`
	InsuranceApplied bool            `gorm:"column:insurance_applied;not null;default:false" json:"insurance_applied"`
	InterestAmount   decimal.Decimal `gorm:"column:interest_amount;type:decimal(18,2);not null" json:"interest_amount"`
	TotalRepayment   decimal.Decimal `gorm:"column:total_repayment;type:decimal(18,2);not null" json:"total_repayment"`
	State            State           `gorm:"column:state;type:enum('open','active','repaid','defaulted');default:'open'" json:"state"`
	StateUpdatedAt   time.Time       `gorm:"column:state_updated_at;autoCreateTime" json:"state_updated_at"`
	FundedAt         *time.Time      `gorm:"column:funded_at" json:"funded_at,omitempty"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"column:deleted_at;index" json:"-"`
}

func (Loan) TableName() string { return "loans" }
