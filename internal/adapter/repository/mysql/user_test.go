package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "lendmarket/internal/domain/user"
	"lendmarket/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type userSQLite struct {
	ID           uint64         `gorm:"primaryKey;column:id"`
	UserID       string         `gorm:"size:32;column:user_id"`
	Email        string         `gorm:"size:255;column:email"`
	DisplayName  string         `gorm:"size:128;column:display_name"`
	PasswordHash string         `gorm:"size:128;column:password_hash"`
	Role         string         `gorm:"type:text;column:role"`       // ← no enum
	KYCStatus    string         `gorm:"type:text;column:kyc_status"` // ← no enum
	CreditScore  int            `gorm:"column:credit_score"`
	Banned       bool           `gorm:"column:banned"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (userSQLite) TableName() string { return "users" }

func openUserTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&userSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeUser(userID, email string) *domain.User {
	return &domain.User{
		UserID:      userID,
		Email:       email,
		DisplayName: "Ana",
		Role:        domain.RoleBorrower,
		KYCStatus:   domain.KYCUnverified,
		CreditScore: 50,
	}
}

func TestUserCreateAndGetByUserID(t *testing.T) {
	db := openUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	userID := id.NewID32()
	u := makeUser(userID, "ana@example.com")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got.Email != "ana@example.com" || got.CreditScore != 50 {
		t.Errorf("unexpected user: %+v", got)
	}

	byID, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.UserID != userID {
		t.Errorf("GetByID mismatch: %+v", byID)
	}
}

func TestUserGetByEmail(t *testing.T) {
	db := openUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := makeUser(id.NewID32(), "taken@example.com")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.GetByEmail(ctx, "taken@example.com"); err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	_, err := repo.GetByEmail(ctx, "free@example.com")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestUserSaveUpdatesScore(t *testing.T) {
	db := openUserTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	userID := id.NewID32()
	u := makeUser(userID, "ana@example.com")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	u.CreditScore = 53
	u.KYCStatus = domain.KYCVerified
	if err := repo.Save(ctx, u); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got.CreditScore != 53 || got.KYCStatus != domain.KYCVerified {
		t.Errorf("user not updated: %+v", got)
	}
}
