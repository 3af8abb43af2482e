// internal/domain/kyc/entity.go
package kyc

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrInvalidSchoolID = errors.New("kyc: invalid schoolId")
	ErrInvalidStatus   = errors.New("kyc: invalid status")
	ErrNotFound        = errors.New("kyc: not found")
	ErrAlreadyPending  = errors.New("kyc: a request is already pending")
)

// Status of a KYC review request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func isValidStatus(s Status) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Request is a school's KYC submission. Review happens out-of-band; this
// service only records submissions and reads back the verdict.
type Request struct {
	ID            string     `json:"id"`
	SchoolID      string     `json:"schoolId"`
	Status        Status     `json:"status"`
	Documents     []string   `json:"documents"` // staged document object refs
	Justification string     `json:"justification,omitempty"`
	SubmittedAt   time.Time  `json:"submittedAt"`
	ReviewedAt    *time.Time `json:"reviewedAt,omitempty"`
	ReviewerID    string     `json:"reviewerId,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func New(schoolID string, documents []string, now time.Time) (Request, error) {
	r := Request{
		SchoolID:    strings.TrimSpace(schoolID),
		Status:      StatusPending,
		Documents:   documents,
		SubmittedAt: now.UTC(),
		UpdatedAt:   now.UTC(),
	}
	if r.SchoolID == "" {
		return Request{}, ErrInvalidSchoolID
	}
	return r, nil
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.SchoolID) == "" {
		return ErrInvalidSchoolID
	}
	if !isValidStatus(r.Status) {
		return ErrInvalidStatus
	}
	return nil
}
