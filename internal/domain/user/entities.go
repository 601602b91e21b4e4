package user

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailTaken  = errors.New("email already registered")
	ErrBanned      = errors.New("user is banned")
	ErrNotVerified = errors.New("user has not completed identity verification")
)

type Role string

const (
	RoleBorrower Role = "borrower"
	RoleLender   Role = "lender"
	RoleAdmin    Role = "admin"
)

type KYCStatus string

const (
	KYCUnverified KYCStatus = "unverified"
	KYCPending    KYCStatus = "pending"
	KYCVerified   KYCStatus = "verified"
	KYCRejected   KYCStatus = "rejected"
)

type User struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Public identifier (32-char lowercase hex)
	UserID       string         `gorm:"column:user_id;type:char(32);not null;uniqueIndex:ux_users_user_id_active" json:"user_id"`
	Email        string         `gorm:"column:email;size:255;not null;uniqueIndex:ux_users_email_active" json:"email"`
	DisplayName  string         `gorm:"column:display_name;size:128;not null" json:"display_name"`
	PasswordHash string         `gorm:"column:password_hash;size:128;not null" json:"-"`
	Role         Role           `gorm:"column:role;type:enum('borrower','lender','admin');default:'borrower'" json:"role"`
	KYCStatus    KYCStatus      `gorm:"column:kyc_status;type:enum('unverified','pending','verified','rejected');default:'unverified'" json:"kyc_status"`
	CreditScore  int            `gorm:"column:credit_score;not null;default:50" json:"credit_score"`
	Banned       bool           `gorm:"column:banned;not null;default:false" json:"banned"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (User) TableName() string { return "users" }
