// internal/adapters/out/firestore/kyc_repository_fs.go
package firestore

import (
	"context"
	"strings"
	"time"

	kycdom "github.com/palukuba/proofchain-schools/internal/domain/kyc"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// KYCRepositoryFS is the Firestore implementation of kyc.Repository.
type KYCRepositoryFS struct {
	client *firestore.Client
}

var _ kycdom.Repository = (*KYCRepositoryFS)(nil)

func NewKYCRepositoryFS(client *firestore.Client) *KYCRepositoryFS {
	return &KYCRepositoryFS{client: client}
}

type kycDoc struct {
	ID            string     `firestore:"id"`
	SchoolID      string     `firestore:"schoolId"`
	Status        string     `firestore:"status"`
	Documents     []string   `firestore:"documents"`
	Justification string     `firestore:"justification"`
	SubmittedAt   time.Time  `firestore:"submittedAt"`
	ReviewedAt    *time.Time `firestore:"reviewedAt"`
	ReviewerID    string     `firestore:"reviewerId"`
	UpdatedAt     time.Time  `firestore:"updatedAt"`
}

func (r *KYCRepositoryFS) collection() *firestore.CollectionRef {
	return r.client.Collection("kycRequests")
}

func (r *KYCRepositoryFS) Create(ctx context.Context, req kycdom.Request) (kycdom.Request, error) {
	if err := req.Validate(); err != nil {
		return kycdom.Request{}, err
	}

	ref := r.collection().NewDoc()
	req.ID = ref.ID

	if _, err := ref.Create(ctx, kycDoc{
		ID:            req.ID,
		SchoolID:      req.SchoolID,
		Status:        string(req.Status),
		Documents:     req.Documents,
		Justification: req.Justification,
		SubmittedAt:   req.SubmittedAt.UTC(),
		ReviewedAt:    req.ReviewedAt,
		ReviewerID:    req.ReviewerID,
		UpdatedAt:     req.UpdatedAt.UTC(),
	}); err != nil {
		return kycdom.Request{}, err
	}
	return req, nil
}

func (r *KYCRepositoryFS) GetLatestBySchoolID(ctx context.Context, schoolID string) (kycdom.Request, error) {
	schoolID = strings.TrimSpace(schoolID)
	if schoolID == "" {
		return kycdom.Request{}, kycdom.ErrNotFound
	}

	iter := r.collection().
		Where("schoolId", "==", schoolID).
		OrderBy("submittedAt", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return kycdom.Request{}, kycdom.ErrNotFound
	}
	if err != nil {
		return kycdom.Request{}, err
	}

	var d kycDoc
	if err := snap.DataTo(&d); err != nil {
		return kycdom.Request{}, err
	}
	if strings.TrimSpace(d.ID) == "" {
		d.ID = snap.Ref.ID
	}

	req := kycdom.Request{
		ID:            strings.TrimSpace(d.ID),
		SchoolID:      strings.TrimSpace(d.SchoolID),
		Status:        kycdom.Status(strings.TrimSpace(d.Status)),
		Documents:     d.Documents,
		Justification: strings.TrimSpace(d.Justification),
		SubmittedAt:   d.SubmittedAt.UTC(),
		ReviewedAt:    d.ReviewedAt,
		ReviewerID:    strings.TrimSpace(d.ReviewerID),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
	if err := req.Validate(); err != nil {
		return kycdom.Request{}, err
	}
	return req, nil
}
