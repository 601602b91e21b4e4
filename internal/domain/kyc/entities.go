package kyc

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("kyc submission not found")
	ErrAlreadyReviewed = errors.New("kyc submission already reviewed")
	ErrPendingExists   = errors.New("user already has a pending kyc submission")
)

type State string

const (
	StatePending  State = "pending"
	StateApproved State = "approved"
	StateRejected State = "rejected"
)

type Submission struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Public identifier (32-char lowercase hex)
	SubmissionID string `gorm:"column:submission_id;type:char(32);not null;uniqueIndex:ux_kyc_submission_id_active" json:"submission_id"`
	// FK to users.id (numeric)
	UserID      uint64         `gorm:"column:user_id;not null;index:idx_kyc_user" json:"-"`
	DocumentURL string         `gorm:"column:document_url;type:text;not null" json:"document_url"`
	State       State          `gorm:"column:state;type:enum('pending','approved','rejected');default:'pending'" json:"state"`
	ReviewerID  string         `gorm:"column:reviewer_id;type:char(32)" json:"reviewer_id,omitempty"`
	ReviewNote  string         `gorm:"column:review_note;type:text" json:"review_note,omitempty"`
	ReviewedAt  *time.Time     `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Submission) TableName() string { return "kyc_submissions" }
