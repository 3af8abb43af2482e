// internal/adapters/out/db/transaction_repository_pg.go
package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	txdom "github.com/palukuba/proofchain-schools/internal/domain/transaction"
)

// TransactionRepositoryPG is a PostgreSQL implementation of
// transaction.Repository. It targets deployments where the billing
// ledger lives in Cloud SQL instead of Firestore.
type TransactionRepositoryPG struct {
	db *sql.DB
}

var _ txdom.Repository = (*TransactionRepositoryPG)(nil)

func NewTransactionRepositoryPG(db *sql.DB) *TransactionRepositoryPG {
	return &TransactionRepositoryPG{db: db}
}

func (r *TransactionRepositoryPG) Create(ctx context.Context, t txdom.Transaction) (txdom.Transaction, error) {
	q := `
INSERT INTO transactions (
  id, school_id, kind, amount, description, status, invoice_url, date, created_at
) VALUES (
  gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8
)
RETURNING
  id, school_id, kind, amount, description, status, invoice_url, date, created_at
`
	if t.Date.IsZero() {
		t.Date = time.Now().UTC()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	row := r.db.QueryRowContext(ctx, q,
		t.SchoolID, string(t.Kind), t.Amount, t.Description, string(t.Status),
		t.InvoiceURL, t.Date.UTC(), t.CreatedAt.UTC(),
	)
	return scanTransactionRow(row)
}

func (r *TransactionRepositoryPG) ListBySchoolID(ctx context.Context, schoolID string) ([]txdom.Transaction, error) {
	schoolID = strings.TrimSpace(schoolID)
	if schoolID == "" {
		return []txdom.Transaction{}, nil
	}

	q := `
SELECT
  id, school_id, kind, amount, description, status, invoice_url, date, created_at
FROM transactions
WHERE school_id = $1
ORDER BY date DESC, id DESC
`
	rows, err := r.db.QueryContext(ctx, q, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []txdom.Transaction
	for rows.Next() {
		t, err := scanTransactionRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// --- Helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransactionRow(s rowScanner) (txdom.Transaction, error) {
	var (
		id, schoolID, kind, description, status string
		amount                                  float64
		invoiceURLNS                            sql.NullString
		date, createdAt                         time.Time
	)

	err := s.Scan(&id, &schoolID, &kind, &amount, &description, &status, &invoiceURLNS, &date, &createdAt)
	if err != nil {
		return txdom.Transaction{}, err
	}

	t := txdom.Transaction{
		ID:          id,
		SchoolID:    schoolID,
		Kind:        txdom.Kind(kind),
		Amount:      amount,
		Description: description,
		Status:      txdom.Status(status),
		Date:        date.UTC(),
		CreatedAt:   createdAt.UTC(),
	}
	if invoiceURLNS.Valid {
		t.InvoiceURL = invoiceURLNS.String
	}
	return t, nil
}
