// internal/adapters/out/firestore/diploma_repository_fs.go
package firestore

import (
	"context"
	"strings"
	"time"

	diplomadom "github.com/palukuba/proofchain-schools/internal/domain/diploma"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// DiplomaRepositoryFS is the Firestore implementation of the append-only
// diploma.Repository. No Set/Delete anywhere: issued records are
// immutable.
type DiplomaRepositoryFS struct {
	client *firestore.Client
}

var _ diplomadom.Repository = (*DiplomaRepositoryFS)(nil)

func NewDiplomaRepositoryFS(client *firestore.Client) *DiplomaRepositoryFS {
	return &DiplomaRepositoryFS{client: client}
}

type diplomaDoc struct {
	ID              string            `firestore:"id"`
	SchoolID        string            `firestore:"schoolId"`
	StudentID       string            `firestore:"studentId"`
	StudentName     string            `firestore:"studentName"`
	TemplateID      string            `firestore:"templateId"`
	IPFSHash        string            `firestore:"ipfsHash"`
	TransactionHash string            `firestore:"transactionHash"`
	Metadata        map[string]string `firestore:"metadata"`
	IssuedAt        time.Time         `firestore:"issuedAt"`
}

func (r *DiplomaRepositoryFS) collection() *firestore.CollectionRef {
	return r.client.Collection("diplomas")
}

func (r *DiplomaRepositoryFS) Create(ctx context.Context, rec diplomadom.Record) (diplomadom.Record, error) {
	if err := rec.Validate(); err != nil {
		return diplomadom.Record{}, err
	}

	ref := r.collection().NewDoc()
	rec.ID = ref.ID

	if _, err := ref.Create(ctx, diplomaDomainToDoc(rec)); err != nil {
		return diplomadom.Record{}, err
	}
	return rec, nil
}

func (r *DiplomaRepositoryFS) ListBySchoolID(ctx context.Context, schoolID string) ([]diplomadom.Record, error) {
	return r.list(ctx, "schoolId", schoolID)
}

func (r *DiplomaRepositoryFS) ListByStudentID(ctx context.Context, studentID string) ([]diplomadom.Record, error) {
	return r.list(ctx, "studentId", studentID)
}

func (r *DiplomaRepositoryFS) list(ctx context.Context, field, value string) ([]diplomadom.Record, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return []diplomadom.Record{}, nil
	}

	iter := r.collection().
		Where(field, "==", value).
		OrderBy("issuedAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var out []diplomadom.Record
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var d diplomaDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, err
		}
		if strings.TrimSpace(d.ID) == "" {
			d.ID = snap.Ref.ID
		}

		rec, err := diplomaDocToDomain(d)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// CountBySchoolID feeds priorIssuedCount into the fee calculator.
func (r *DiplomaRepositoryFS) CountBySchoolID(ctx context.Context, schoolID string) (int, error) {
	schoolID = strings.TrimSpace(schoolID)
	if schoolID == "" {
		return 0, nil
	}

	// Firestore aggregation queries exist, but iterating document refs
	// keeps this consistent with the rest of the adapter and the counts
	// involved are small (per school).
	iter := r.collection().
		Where("schoolId", "==", schoolID).
		Select().
		Documents(ctx)
	defer iter.Stop()

	n := 0
	for {
		_, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

// ===============================
// Mapping helpers
// ===============================

func diplomaDocToDomain(d diplomaDoc) (diplomadom.Record, error) {
	rec := diplomadom.Record{
		ID:              strings.TrimSpace(d.ID),
		SchoolID:        strings.TrimSpace(d.SchoolID),
		StudentID:       strings.TrimSpace(d.StudentID),
		StudentName:     strings.TrimSpace(d.StudentName),
		TemplateID:      strings.TrimSpace(d.TemplateID),
		IPFSHash:        strings.TrimSpace(d.IPFSHash),
		TransactionHash: strings.TrimSpace(d.TransactionHash),
		Metadata:        d.Metadata,
		IssuedAt:        d.IssuedAt.UTC(),
	}
	if err := rec.Validate(); err != nil {
		return diplomadom.Record{}, err
	}
	return rec, nil
}

func diplomaDomainToDoc(rec diplomadom.Record) diplomaDoc {
	return diplomaDoc{
		ID:              rec.ID,
		SchoolID:        rec.SchoolID,
		StudentID:       rec.StudentID,
		StudentName:     rec.StudentName,
		TemplateID:      rec.TemplateID,
		IPFSHash:        rec.IPFSHash,
		TransactionHash: rec.TransactionHash,
		Metadata:        rec.Metadata,
		IssuedAt:        rec.IssuedAt.UTC(),
	}
}
