// internal/application/usecase/auth/bootstrap.go
package auth

import (
	"context"
	"errors"
	"time"

	schooldom "github.com/palukuba/proofchain-schools/internal/domain/school"
)

// SchoolRepository is the application-layer port for school profiles.
type SchoolRepository interface {
	GetByUserID(ctx context.Context, userID string) (schooldom.Profile, error)
	Create(ctx context.Context, p schooldom.Profile) (schooldom.Profile, error)
}

// SignUpProfile is what the frontend sends along with the first
// authenticated request after sign-up.
type SignUpProfile struct {
	SchoolName   string `json:"schoolName"`
	Website      string `json:"website"`
	Address      string `json:"address"`
	PublicWallet string `json:"publicWallet"`
}

// BootstrapService provisions the school profile for a freshly
// signed-up account. Auth itself (account creation, credentials) lives
// in Firebase; this only creates the profile document.
type BootstrapService struct {
	Schools SchoolRepository
}

// Bootstrap creates the school profile. Idempotent: when a profile
// already exists for uid it is returned unchanged.
func (s *BootstrapService) Bootstrap(
	ctx context.Context,
	uid string,
	email string,
	profile *SignUpProfile,
) (schooldom.Profile, error) {
	existing, err := s.Schools.GetByUserID(ctx, uid)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, schooldom.ErrNotFound) {
		return schooldom.Profile{}, err
	}

	var p SignUpProfile
	if profile != nil {
		p = *profile
	}

	now := time.Now().UTC()
	entity, err := schooldom.New(uid, p.SchoolName, email, p.PublicWallet, now)
	if err != nil {
		return schooldom.Profile{}, err
	}
	entity.Website = p.Website
	entity.Address = p.Address

	return s.Schools.Create(ctx, entity)
}
