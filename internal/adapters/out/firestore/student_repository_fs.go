// internal/adapters/out/firestore/student_repository_fs.go
package firestore

import (
	"context"
	"strings"
	"time"

	common "github.com/palukuba/proofchain-schools/internal/adapters/out/firestore/common"
	studentdom "github.com/palukuba/proofchain-schools/internal/domain/student"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StudentRepositoryFS is the Firestore implementation of student.Repository.
type StudentRepositoryFS struct {
	client *firestore.Client
}

var _ studentdom.Repository = (*StudentRepositoryFS)(nil)

func NewStudentRepositoryFS(client *firestore.Client) *StudentRepositoryFS {
	return &StudentRepositoryFS{client: client}
}

type studentDoc struct {
	UserID       string    `firestore:"userId"`
	SchoolID     string    `firestore:"schoolId"`
	FullName     string    `firestore:"fullName"`
	Email        string    `firestore:"email"`
	PublicWallet string    `firestore:"publicWallet"`
	AvatarURL    string    `firestore:"avatarUrl"`
	CreatedAt    time.Time `firestore:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt"`
}

func (r *StudentRepositoryFS) collection() *firestore.CollectionRef {
	return r.client.Collection("studentProfiles")
}

func (r *StudentRepositoryFS) GetByUserID(ctx context.Context, userID string) (studentdom.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return studentdom.Profile{}, studentdom.ErrNotFound
	}

	snap, err := r.collection().Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return studentdom.Profile{}, studentdom.ErrNotFound
		}
		return studentdom.Profile{}, err
	}

	var d studentDoc
	if err := snap.DataTo(&d); err != nil {
		return studentdom.Profile{}, err
	}
	if strings.TrimSpace(d.UserID) == "" {
		d.UserID = snap.Ref.ID
	}
	return studentDocToDomain(d)
}

func (r *StudentRepositoryFS) ListBySchoolID(ctx context.Context, schoolID string) ([]studentdom.Profile, error) {
	schoolID = strings.TrimSpace(schoolID)
	if schoolID == "" {
		return []studentdom.Profile{}, nil
	}

	iter := r.collection().
		Where("schoolId", "==", schoolID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var out []studentdom.Profile
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var d studentDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, err
		}
		if strings.TrimSpace(d.UserID) == "" {
			d.UserID = snap.Ref.ID
		}

		p, err := studentDocToDomain(d)
		if err != nil {
			// malformed rows are logged upstream and skipped, not propagated
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *StudentRepositoryFS) Create(ctx context.Context, p studentdom.Profile) (studentdom.Profile, error) {
	if err := p.Validate(); err != nil {
		return studentdom.Profile{}, err
	}
	if _, err := r.collection().Doc(p.UserID).Create(ctx, studentDomainToDoc(p)); err != nil {
		return studentdom.Profile{}, err
	}
	return p, nil
}

// ListByUserIDs resolves recipients in chunked "in" queries (Firestore
// caps "in" at 10 values).
func (r *StudentRepositoryFS) ListByUserIDs(ctx context.Context, userIDs []string) ([]studentdom.Profile, error) {
	normalized := common.NormalizeIDs(userIDs)
	if len(normalized) == 0 {
		return []studentdom.Profile{}, nil
	}

	var out []studentdom.Profile
	for _, chunk := range common.Chunk(normalized, 10) {
		iter := r.collection().
			Where("userId", "in", chunk).
			Documents(ctx)

		for {
			snap, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				iter.Stop()
				return nil, err
			}

			var d studentDoc
			if err := snap.DataTo(&d); err != nil {
				iter.Stop()
				return nil, err
			}
			if strings.TrimSpace(d.UserID) == "" {
				d.UserID = snap.Ref.ID
			}

			p, err := studentDocToDomain(d)
			if err != nil {
				continue
			}
			out = append(out, p)
		}
		iter.Stop()
	}
	return out, nil
}

// ===============================
// Mapping helpers
// ===============================

func studentDocToDomain(d studentDoc) (studentdom.Profile, error) {
	p := studentdom.Profile{
		UserID:       strings.TrimSpace(d.UserID),
		SchoolID:     strings.TrimSpace(d.SchoolID),
		FullName:     strings.TrimSpace(d.FullName),
		Email:        strings.TrimSpace(d.Email),
		PublicWallet: strings.TrimSpace(d.PublicWallet),
		AvatarURL:    strings.TrimSpace(d.AvatarURL),
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	if err := p.Validate(); err != nil {
		return studentdom.Profile{}, err
	}
	return p, nil
}

func studentDomainToDoc(p studentdom.Profile) studentDoc {
	return studentDoc{
		UserID:       p.UserID,
		SchoolID:     p.SchoolID,
		FullName:     p.FullName,
		Email:        p.Email,
		PublicWallet: p.PublicWallet,
		AvatarURL:    p.AvatarURL,
		CreatedAt:    p.CreatedAt.UTC(),
		UpdatedAt:    p.UpdatedAt.UTC(),
	}
}
