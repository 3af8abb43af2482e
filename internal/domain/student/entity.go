// internal/domain/student/entity.go
package student

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Domain errors
var (
	ErrInvalidUserID = errors.New("student: invalid userId")
	ErrInvalidName   = errors.New("student: invalid fullName")
	ErrInvalidEmail  = errors.New("student: invalid email")
	ErrInvalidWallet = errors.New("student: invalid publicWallet")
	ErrNotFound      = errors.New("student: not found")
)

// Solana-like base58 address format (approximation).
var base58Re = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

// Profile is a diploma recipient. PublicWallet is the address the minted
// diploma NFT is delivered to.
type Profile struct {
	UserID       string    `json:"userId"`
	SchoolID     string    `json:"schoolId"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PublicWallet string    `json:"publicWallet"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func New(userID, schoolID, fullName, email, publicWallet string, now time.Time) (Profile, error) {
	p := Profile{
		UserID:       strings.TrimSpace(userID),
		SchoolID:     strings.TrimSpace(schoolID),
		FullName:     strings.TrimSpace(fullName),
		Email:        strings.TrimSpace(email),
		PublicWallet: strings.TrimSpace(publicWallet),
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
	if p.FullName == "" {
		return ErrInvalidName
	}
	if !strings.Contains(p.Email, "@") {
		return ErrInvalidEmail
	}
	if p.PublicWallet != "" && !base58Re.MatchString(p.PublicWallet) {
		return ErrInvalidWallet
	}
	return nil
}
