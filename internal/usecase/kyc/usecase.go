package kyc

import (
	"context"
	"errors"
	"time"

	domainKYC "lendmarket/internal/domain/kyc"
	domainUser "lendmarket/internal/domain/user"
	"lendmarket/internal/domain/uow"

	"gorm.io/gorm"
)

type Usecase struct {
	repo domainKYC.Repository
	uow  uow.UnitOfWork
	now  func() time.Time
}

func NewUsecase(submissions domainKYC.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: submissions, uow: tx, now: func() time.Time { return time.Now().UTC() }}
}

type ReviewInput struct {
	SubmissionID string `json:"submission_id"`
	Approve      bool   `json:"approve"`
	ReviewerID   string `json:"reviewer_id"`
	Note         string `json:"note"`
}

type SubmissionDTO struct {
	SubmissionID string     `json:"submission_id"`
	DocumentURL  string     `json:"document_url"`
	State        string     `json:"state"`
	ReviewerID   string     `json:"reviewer_id,omitempty"`
	ReviewNote   string     `json:"review_note,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toDTO(s *domainKYC.Submission) *SubmissionDTO {
	return &SubmissionDTO{
		SubmissionID: s.SubmissionID,
		DocumentURL:  s.DocumentURL,
		State:        string(s.State),
		ReviewerID:   s.ReviewerID,
		ReviewNote:   s.ReviewNote,
		ReviewedAt:   s.ReviewedAt,
		CreatedAt:    s.CreatedAt,
	}
}

// Review settles a pending submission and moves the submitter's KYC status
// to verified or rejected in the same transaction.
func (u *Usecase) Review(ctx context.Context, in ReviewInput) (*SubmissionDTO, error) {
	var dto *SubmissionDTO

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		sub, err := r.KYC.GetBySubmissionIDForUpdate(ctx, in.SubmissionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainKYC.ErrNotFound
			}
			return err
		}
		if sub.State != domainKYC.StatePending {
			return domainKYC.ErrAlreadyReviewed
		}

		reviewedAt := u.now()
		if in.Approve {
			sub.State = domainKYC.StateApproved
		} else {
			sub.State = domainKYC.StateRejected
		}
		sub.ReviewerID = in.ReviewerID
		sub.ReviewNote = in.Note
		sub.ReviewedAt = &reviewedAt
		if err := r.KYC.Save(ctx, sub); err != nil {
			return err
		}

		usr, err := r.Users.GetByID(ctx, sub.UserID)
		if err != nil {
			return err
		}
		if in.Approve {
			usr.KYCStatus = domainUser.KYCVerified
		} else {
			usr.KYCStatus = domainUser.KYCRejected
		}
		if err := r.Users.Save(ctx, usr); err != nil {
			return err
		}

		dto = toDTO(sub)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) ListPending(ctx context.Context, limit, offset int) ([]SubmissionDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	subs, err := u.repo.ListPending(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]SubmissionDTO, 0, len(subs))
	for i := range subs {
		out = append(out, *toDTO(&subs[i]))
	}
	return out, nil
}
