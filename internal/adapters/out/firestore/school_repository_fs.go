// internal/adapters/out/firestore/school_repository_fs.go
package firestore

import (
	"context"
	"strings"
	"time"

	schooldom "github.com/palukuba/proofchain-schools/internal/domain/school"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// SchoolRepositoryFS is the Firestore implementation of school.Repository.
type SchoolRepositoryFS struct {
	client *firestore.Client
}

var _ schooldom.Repository = (*SchoolRepositoryFS)(nil)

func NewSchoolRepositoryFS(client *firestore.Client) *SchoolRepositoryFS {
	return &SchoolRepositoryFS{client: client}
}

// Firestore document shape
type schoolDoc struct {
	UserID       string    `firestore:"userId"`
	Name         string    `firestore:"name"`
	Email        string    `firestore:"email"`
	Website      string    `firestore:"website"`
	LogoURL      string    `firestore:"logoUrl"`
	Address      string    `firestore:"address"`
	PublicWallet string    `firestore:"publicWallet"`
	KYCStatus    string    `firestore:"kycStatus"`
	Balance      float64   `firestore:"balance"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

func (r *SchoolRepositoryFS) collection() *firestore.CollectionRef {
	return r.client.Collection("schoolProfiles")
}

func (r *SchoolRepositoryFS) GetByUserID(ctx context.Context, userID string) (schooldom.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return schooldom.Profile{}, schooldom.ErrNotFound
	}

	snap, err := r.collection().Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return schooldom.Profile{}, schooldom.ErrNotFound
		}
		return schooldom.Profile{}, err
	}

	var d schoolDoc
	if err := snap.DataTo(&d); err != nil {
		return schooldom.Profile{}, err
	}
	if strings.TrimSpace(d.UserID) == "" {
		d.UserID = snap.Ref.ID
	}
	return schoolDocToDomain(d)
}

func (r *SchoolRepositoryFS) Create(ctx context.Context, p schooldom.Profile) (schooldom.Profile, error) {
	if err := p.Validate(); err != nil {
		return schooldom.Profile{}, err
	}
	if _, err := r.collection().Doc(p.UserID).Create(ctx, schoolDomainToDoc(p)); err != nil {
		return schooldom.Profile{}, err
	}
	return p, nil
}

func (r *SchoolRepositoryFS) Update(ctx context.Context, p schooldom.Profile) (schooldom.Profile, error) {
	if err := p.Validate(); err != nil {
		return schooldom.Profile{}, err
	}

	// existence check (update, not upsert)
	if _, err := r.collection().Doc(p.UserID).Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return schooldom.Profile{}, schooldom.ErrNotFound
		}
		return schooldom.Profile{}, err
	}

	if _, err := r.collection().Doc(p.UserID).Set(ctx, schoolDomainToDoc(p)); err != nil {
		return schooldom.Profile{}, err
	}
	return p, nil
}

// AdjustBalance applies a signed delta inside a transaction so concurrent
// charges cannot lose updates. The stored balance stays authoritative.
func (r *SchoolRepositoryFS) AdjustBalance(ctx context.Context, userID string, delta float64) (schooldom.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return schooldom.Profile{}, schooldom.ErrNotFound
	}

	ref := r.collection().Doc(userID)
	var updated schooldom.Profile

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return schooldom.ErrNotFound
			}
			return err
		}

		var d schoolDoc
		if err := snap.DataTo(&d); err != nil {
			return err
		}
		if strings.TrimSpace(d.UserID) == "" {
			d.UserID = snap.Ref.ID
		}

		d.Balance += delta
		d.UpdatedAt = time.Now().UTC()

		p, err := schoolDocToDomain(d)
		if err != nil {
			return err
		}
		updated = p

		return tx.Set(ref, d)
	})
	if err != nil {
		return schooldom.Profile{}, err
	}
	return updated, nil
}

// ===============================
// Mapping helpers
// ===============================

func schoolDocToDomain(d schoolDoc) (schooldom.Profile, error) {
	p := schooldom.Profile{
		UserID:       strings.TrimSpace(d.UserID),
		Name:         strings.TrimSpace(d.Name),
		Email:        strings.TrimSpace(d.Email),
		Website:      strings.TrimSpace(d.Website),
		LogoURL:      strings.TrimSpace(d.LogoURL),
		Address:      strings.TrimSpace(d.Address),
		PublicWallet: strings.TrimSpace(d.PublicWallet),
		KYCStatus:    schooldom.KYCStatus(strings.TrimSpace(d.KYCStatus)),
		Balance:      d.Balance,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	if err := p.Validate(); err != nil {
		return schooldom.Profile{}, err
	}
	return p, nil
}

func schoolDomainToDoc(p schooldom.Profile) schoolDoc {
	return schoolDoc{
		UserID:       p.UserID,
		Name:         p.Name,
		Email:        p.Email,
		Website:      p.Website,
		LogoURL:      p.LogoURL,
		Address:      p.Address,
		PublicWallet: p.PublicWallet,
		KYCStatus:    string(p.KYCStatus),
		Balance:      p.Balance,
		CreatedAt:    p.CreatedAt.UTC(),
		UpdatedAt:    p.UpdatedAt.UTC(),
	}
}
