// internal/application/usecase/policy_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	policydom "github.com/palukuba/proofchain-schools/internal/domain/policy"
)

// ============================================================
// Ports
// ============================================================

type policyRepo interface {
	GetBySchoolID(ctx context.Context, schoolID string) (policydom.MintingPolicy, error)
	Create(ctx context.Context, p policydom.MintingPolicy) (policydom.MintingPolicy, error)
	GetByPolicyID(ctx context.Context, policyID string) (policydom.MintingPolicy, error)
}

// policyIDSource derives the policy identifier from the configured mint
// authority.
type policyIDSource interface {
	PolicyID() string
}

// ============================================================
// PolicyUsecase
// ============================================================

// PolicyUsecase manages the school's minting policy. The policy id is
// stable per school: once created it is never regenerated, so every
// diploma the school ever issues verifies under the same namespace.
type PolicyUsecase struct {
	policies policyRepo
	source   policyIDSource
	now      func() time.Time
}

func NewPolicyUsecase(policies policyRepo, source policyIDSource) *PolicyUsecase {
	return &PolicyUsecase{policies: policies, source: source, now: time.Now}
}

// GetOrCreate returns the school's policy, creating it on first use.
func (u *PolicyUsecase) GetOrCreate(ctx context.Context, schoolID string) (policydom.MintingPolicy, error) {
	schoolID = strings.TrimSpace(schoolID)
	if schoolID == "" {
		return policydom.MintingPolicy{}, policydom.ErrInvalidSchoolID
	}

	p, err := u.policies.GetBySchoolID(ctx, schoolID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, policydom.ErrNotFound) {
		return policydom.MintingPolicy{}, err
	}

	authority := u.source.PolicyID()
	fresh, err := policydom.New(schoolID, authority, authority, u.now())
	if err != nil {
		return policydom.MintingPolicy{}, err
	}
	return u.policies.Create(ctx, fresh)
}

// Verify reports whether the given policy id belongs to a registered
// school.
func (u *PolicyUsecase) Verify(ctx context.Context, policyID string) (policydom.MintingPolicy, error) {
	return u.policies.GetByPolicyID(ctx, policyID)
}
