// internal/adapters/out/firestore/policy_repository_fs.go
package firestore

import (
	"context"
	"strings"
	"time"

	policydom "github.com/palukuba/proofchain-schools/internal/domain/policy"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// PolicyRepositoryFS is the Firestore implementation of policy.Repository.
type PolicyRepositoryFS struct {
	client *firestore.Client
}

var _ policydom.Repository = (*PolicyRepositoryFS)(nil)

func NewPolicyRepositoryFS(client *firestore.Client) *PolicyRepositoryFS {
	return &PolicyRepositoryFS{client: client}
}

type policyDoc struct {
	SchoolID  string    `firestore:"schoolId"`
	PolicyID  string    `firestore:"policyId"`
	Authority string    `firestore:"authority"`
	CreatedAt time.Time `firestore:"createdAt"`
}

func (r *PolicyRepositoryFS) collection() *firestore.CollectionRef {
	return r.client.Collection("mintingPolicies")
}

func (r *PolicyRepositoryFS) GetBySchoolID(ctx context.Context, schoolID string) (policydom.MintingPolicy, error) {
	schoolID = strings.TrimSpace(schoolID)
	if schoolID == "" {
		return policydom.MintingPolicy{}, policydom.ErrNotFound
	}

	snap, err := r.collection().Doc(schoolID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return policydom.MintingPolicy{}, policydom.ErrNotFound
		}
		return policydom.MintingPolicy{}, err
	}

	var d policyDoc
	if err := snap.DataTo(&d); err != nil {
		return policydom.MintingPolicy{}, err
	}
	if strings.TrimSpace(d.SchoolID) == "" {
		d.SchoolID = snap.Ref.ID
	}
	return policyDocToDomain(d)
}

func (r *PolicyRepositoryFS) Create(ctx context.Context, p policydom.MintingPolicy) (policydom.MintingPolicy, error) {
	if _, err := r.collection().Doc(p.SchoolID).Create(ctx, policyDoc{
		SchoolID:  p.SchoolID,
		PolicyID:  p.PolicyID,
		Authority: p.Authority,
		CreatedAt: p.CreatedAt.UTC(),
	}); err != nil {
		return policydom.MintingPolicy{}, err
	}
	return p, nil
}

func (r *PolicyRepositoryFS) GetByPolicyID(ctx context.Context, policyID string) (policydom.MintingPolicy, error) {
	policyID = strings.TrimSpace(policyID)
	if policyID == "" {
		return policydom.MintingPolicy{}, policydom.ErrNotFound
	}

	iter := r.collection().
		Where("policyId", "==", policyID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return policydom.MintingPolicy{}, policydom.ErrNotFound
	}
	if err != nil {
		return policydom.MintingPolicy{}, err
	}

	var d policyDoc
	if err := snap.DataTo(&d); err != nil {
		return policydom.MintingPolicy{}, err
	}
	if strings.TrimSpace(d.SchoolID) == "" {
		d.SchoolID = snap.Ref.ID
	}
	return policyDocToDomain(d)
}

func policyDocToDomain(d policyDoc) (policydom.MintingPolicy, error) {
	p := policydom.MintingPolicy{
		SchoolID:  strings.TrimSpace(d.SchoolID),
		PolicyID:  strings.TrimSpace(d.PolicyID),
		Authority: strings.TrimSpace(d.Authority),
		CreatedAt: d.CreatedAt.UTC(),
	}
	if p.SchoolID == "" {
		return policydom.MintingPolicy{}, policydom.ErrInvalidSchoolID
	}
	if p.PolicyID == "" {
		return policydom.MintingPolicy{}, policydom.ErrInvalidPolicyID
	}
	return p, nil
}
