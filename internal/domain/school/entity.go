// internal/domain/school/entity.go
package school

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrInvalidUserID    = errors.New("school: invalid userId")
	ErrInvalidName      = errors.New("school: invalid name")
	ErrInvalidEmail     = errors.New("school: invalid email")
	ErrInvalidKYCStatus = errors.New("school: invalid kycStatus")
	ErrInvalidCreatedAt = errors.New("school: invalid createdAt")
	ErrNotFound         = errors.New("school: not found")
)

// KYCStatus mirrors the stored values: 'pending' | 'approved' | 'rejected'.
type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCApproved KYCStatus = "approved"
	KYCRejected KYCStatus = "rejected"
)

func isValidKYCStatus(s KYCStatus) bool {
	return s == KYCPending || s == KYCApproved || s == KYCRejected
}

// Profile is the school's administrative profile. The Balance field is the
// authoritative account balance; transaction history is a display-only
// audit trail and is never summed to derive it.
type Profile struct {
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Website      string    `json:"website,omitempty"`
	LogoURL      string    `json:"logoUrl,omitempty"`
	Address      string    `json:"address,omitempty"`
	PublicWallet string    `json:"publicWallet"`
	KYCStatus    KYCStatus `json:"kycStatus"`
	Balance      float64   `json:"balance"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// New constructs a Profile for a freshly signed-up school. KYC starts
// pending and the balance at zero.
func New(userID, name, email, publicWallet string, now time.Time) (Profile, error) {
	p := Profile{
		UserID:       strings.TrimSpace(userID),
		Name:         strings.TrimSpace(name),
		Email:        strings.TrimSpace(email),
		PublicWallet: strings.TrimSpace(publicWallet),
		KYCStatus:    KYCPending,
		Balance:      0,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (p Profile) Validate() error {
	if p.UserID == "" {
		return ErrInvalidUserID
	}
	if p.Name == "" {
		return ErrInvalidName
	}
	if !strings.Contains(p.Email, "@") {
		return ErrInvalidEmail
	}
	if !isValidKYCStatus(p.KYCStatus) {
		return ErrInvalidKYCStatus
	}
	if p.CreatedAt.IsZero() {
		return ErrInvalidCreatedAt
	}
	return nil
}

// SetKYCStatus updates the review status and UpdatedAt.
func (p *Profile) SetKYCStatus(s KYCStatus, now time.Time) error {
	if !isValidKYCStatus(s) {
		return ErrInvalidKYCStatus
	}
	p.KYCStatus = s
	p.UpdatedAt = now.UTC()
	return nil
}
