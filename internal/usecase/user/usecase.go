package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainKYC "lendmarket/internal/domain/kyc"
	domainUser "lendmarket/internal/domain/user"
	"lendmarket/internal/domain/uow"
	"lendmarket/internal/terms"
	"lendmarket/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	repo domainUser.Repository
	kyc  domainKYC.Repository
	uow  uow.UnitOfWork
}

func NewUsecase(users domainUser.Repository, kyc domainKYC.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: users, kyc: kyc, uow: tx}
}

type RegisterInput struct {
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

type UserDTO struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	KYCStatus   string    `json:"kyc_status"`
	CreditScore int       `json:"credit_score"`
	Banned      bool      `json:"banned"`
	CreatedAt   time.Time `json:"created_at"`
}

func toDTO(u *domainUser.User) *UserDTO {
	return &UserDTO{
		UserID:      u.UserID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		KYCStatus:   string(u.KYCStatus),
		CreditScore: u.CreditScore,
		Banned:      u.Banned,
		CreatedAt:   u.CreatedAt,
	}
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	role := domainUser.Role(in.Role)
	if role != domainUser.RoleBorrower && role != domainUser.RoleLender {
		return nil, fmt.Errorf("invalid role %q", in.Role)
	}

	_, err := u.repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, domainUser.ErrEmailTaken
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	usr := &domainUser.User{
		UserID:       id.NewID32(),
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		PasswordHash: in.PasswordHash,
		Role:         role,
		KYCStatus:    domainUser.KYCUnverified,
		CreditScore:  terms.DefaultScore,
	}
	if err := u.repo.Create(ctx, usr); err != nil {
		return nil, err
	}
	return toDTO(usr), nil
}

func (u *Usecase) Get(ctx context.Context, userID string) (*UserDTO, error) {
	usr, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainUser.ErrNotFound
		}
		return nil, err
	}
	return toDTO(usr), nil
}

type SubmitKYCInput struct {
	UserID      string `json:"user_id"`
	DocumentURL string `json:"document_url"`
}

type KYCSubmissionDTO struct {
	SubmissionID string    `json:"submission_id"`
	UserID       string    `json:"user_id"`
	DocumentURL  string    `json:"document_url"`
	State        string    `json:"state"`
	CreatedAt    time.Time `json:"created_at"`
}

// SubmitKYC files a verification document for review and flips the user's
// KYC status to pending. One pending submission per user.
func (u *Usecase) SubmitKYC(ctx context.Context, in SubmitKYCInput) (*KYCSubmissionDTO, error) {
	var dto *KYCSubmissionDTO

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		usr, err := r.Users.GetByUserIDForUpdate(ctx, in.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainUser.ErrNotFound
			}
			return err
		}
		if usr.Banned {
			return domainUser.ErrBanned
		}
		if usr.KYCStatus == domainUser.KYCVerified {
			return fmt.Errorf("user %s is already verified", usr.UserID)
		}

		_, err = r.KYC.GetPendingByUserID(ctx, usr.ID)
		switch {
		case err == nil:
			return domainKYC.ErrPendingExists
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		sub := &domainKYC.Submission{
			SubmissionID: id.NewID32(),
			UserID:       usr.ID,
			DocumentURL:  in.DocumentURL,
			State:        domainKYC.StatePending,
		}
		if err := r.KYC.Create(ctx, sub); err != nil {
			return err
		}

		usr.KYCStatus = domainUser.KYCPending
		if err := r.Users.Save(ctx, usr); err != nil {
			return err
		}

		dto = &KYCSubmissionDTO{
			SubmissionID: sub.SubmissionID,
			UserID:       usr.UserID,
			DocumentURL:  sub.DocumentURL,
			State:        string(sub.State),
			CreatedAt:    sub.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// SetBanned is the admin ban/unban switch. Open loans are untouched; the
// ban only blocks new applications and fundings.
func (u *Usecase) SetBanned(ctx context.Context, userID string, banned bool) (*UserDTO, error) {
	usr, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainUser.ErrNotFound
		}
		return nil, err
	}
	if usr.Banned == banned {
		return toDTO(usr), nil
	}
	usr.Banned = banned
	if err := u.repo.Save(ctx, usr); err != nil {
		return nil, err
	}
	return toDTO(usr), nil
}
