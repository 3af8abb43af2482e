// internal/domain/policy/entity.go
package policy

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrInvalidSchoolID = errors.New("policy: invalid schoolId")
	ErrInvalidPolicyID = errors.New("policy: invalid policyId")
	ErrNotFound        = errors.New("policy: not found")
)

// MintingPolicy is the persistent, verifiable identifier namespace under
// which all of a school's diplomas are minted. The policy id itself is
// derived by the chain SDK (here: the mint authority public key); this
// entity only records the association.
type MintingPolicy struct {
	SchoolID  string    `json:"schoolId"`
	PolicyID  string    `json:"policyId"`
	Authority string    `json:"authority"` // base58 public key holding mint rights
	CreatedAt time.Time `json:"createdAt"`
}

func New(schoolID, policyID, authority string, now time.Time) (MintingPolicy, error) {
	p := MintingPolicy{
		SchoolID:  strings.TrimSpace(schoolID),
		PolicyID:  strings.TrimSpace(policyID),
		Authority: strings.TrimSpace(authority),
		CreatedAt: now.UTC(),
	}
	if p.SchoolID == "" {
		return MintingPolicy{}, ErrInvalidSchoolID
	}
	if p.PolicyID == "" {
		return MintingPolicy{}, ErrInvalidPolicyID
	}
	return p, nil
}
