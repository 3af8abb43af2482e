// internal/application/usecase/kyc_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	kycdom "github.com/palukuba/proofchain-schools/internal/domain/kyc"
)

// ============================================================
// Ports
// ============================================================

type kycRepo interface {
	Create(ctx context.Context, r kycdom.Request) (kycdom.Request, error)
	GetLatestBySchoolID(ctx context.Context, schoolID string) (kycdom.Request, error)
}

// ============================================================
// KYCUsecase
// ============================================================

// KYCUsecase records KYC submissions and reads back the verdict. Review
// itself happens out-of-band by platform staff.
type KYCUsecase struct {
	requests kycRepo
	now      func() time.Time
}

func NewKYCUsecase(requests kycRepo) *KYCUsecase {
	return &KYCUsecase{requests: requests, now: time.Now}
}

// Submit files a new KYC request. Rejected while an earlier request is
// still pending.
func (u *KYCUsecase) Submit(ctx context.Context, schoolID string, documents []string) (kycdom.Request, error) {
	schoolID = strings.TrimSpace(schoolID)
	if schoolID == "" {
		return kycdom.Request{}, kycdom.ErrInvalidSchoolID
	}

	latest, err := u.requests.GetLatestBySchoolID(ctx, schoolID)
	if err == nil && latest.Status == kycdom.StatusPending {
		return kycdom.Request{}, kycdom.ErrAlreadyPending
	}
	if err != nil && !errors.Is(err, kycdom.ErrNotFound) {
		return kycdom.Request{}, err
	}

	req, err := kycdom.New(schoolID, documents, u.now())
	if err != nil {
		return kycdom.Request{}, err
	}
	return u.requests.Create(ctx, req)
}

// Latest returns the most recent request for the school.
func (u *KYCUsecase) Latest(ctx context.Context, schoolID string) (kycdom.Request, error) {
	return u.requests.GetLatestBySchoolID(ctx, schoolID)
}
