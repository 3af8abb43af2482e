// internal/adapters/out/firestore/transaction_repository_fs.go
package firestore

import (
	"context"
	"strings"
	"time"

	txdom "github.com/palukuba/proofchain-schools/internal/domain/transaction"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// TransactionRepositoryFS is the Firestore implementation of
// transaction.Repository.
type TransactionRepositoryFS struct {
	client *firestore.Client
}

var _ txdom.Repository = (*TransactionRepositoryFS)(nil)

func NewTransactionRepositoryFS(client *firestore.Client) *TransactionRepositoryFS {
	return &TransactionRepositoryFS{client: client}
}

type transactionDoc struct {
	ID          string    `firestore:"id"`
	SchoolID    string    `firestore:"schoolId"`
	Kind        string    `firestore:"kind"`
	Amount      float64   `firestore:"amount"`
	Description string    `firestore:"description"`
	Status      string    `firestore:"status"`
	InvoiceURL  string    `firestore:"invoiceUrl"`
	Date        time.Time `firestore:"date"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

func (r *TransactionRepositoryFS) collection() *firestore.CollectionRef {
	return r.client.Collection("transactions")
}

func (r *TransactionRepositoryFS) Create(ctx context.Context, t txdom.Transaction) (txdom.Transaction, error) {
	ref := r.collection().NewDoc()
	t.ID = ref.ID

	if _, err := ref.Create(ctx, transactionDoc{
		ID:          t.ID,
		SchoolID:    t.SchoolID,
		Kind:        string(t.Kind),
		Amount:      t.Amount,
		Description: t.Description,
		Status:      string(t.Status),
		InvoiceURL:  t.InvoiceURL,
		Date:        t.Date.UTC(),
		CreatedAt:   t.CreatedAt.UTC(),
	}); err != nil {
		return txdom.Transaction{}, err
	}
	return t, nil
}

func (r *TransactionRepositoryFS) ListBySchoolID(ctx context.Context, schoolID string) ([]txdom.Transaction, error) {
	schoolID = strings.TrimSpace(schoolID)
	if schoolID == "" {
		return []txdom.Transaction{}, nil
	}

	iter := r.collection().
		Where("schoolId", "==", schoolID).
		OrderBy("date", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var out []txdom.Transaction
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var d transactionDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, err
		}
		if strings.TrimSpace(d.ID) == "" {
			d.ID = snap.Ref.ID
		}

		out = append(out, txdom.Transaction{
			ID:          strings.TrimSpace(d.ID),
			SchoolID:    strings.TrimSpace(d.SchoolID),
			Kind:        txdom.Kind(strings.TrimSpace(d.Kind)),
			Amount:      d.Amount,
			Description: strings.TrimSpace(d.Description),
			Status:      txdom.Status(strings.TrimSpace(d.Status)),
			InvoiceURL:  strings.TrimSpace(d.InvoiceURL),
			Date:        d.Date.UTC(),
			CreatedAt:   d.CreatedAt.UTC(),
		})
	}
	return out, nil
}
