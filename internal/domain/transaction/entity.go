// internal/domain/transaction/entity.go
package transaction

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrInvalidSchoolID = errors.New("transaction: invalid schoolId")
	ErrInvalidAmount   = errors.New("transaction: invalid amount")
	ErrInvalidStatus   = errors.New("transaction: invalid status")
	ErrNotFound        = errors.New("transaction: not found")
)

// Status mirrors the stored values: 'paid' | 'pending' | 'failed'.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
	StatusFailed  Status = "failed"
)

func isValidStatus(s Status) bool {
	return s == StatusPaid || s == StatusPending || s == StatusFailed
}

// Kind distinguishes the two fee components of an issuance charge.
type Kind string

const (
	KindNetworkFee Kind = "network_fee"
	KindStorageFee Kind = "storage_fee"
)

// Transaction is one billing ledger entry. Entries are a display-only
// audit trail; the authoritative balance lives on the school profile.
type Transaction struct {
	ID          string    `json:"id"`
	SchoolID    string    `json:"schoolId"`
	Kind        Kind      `json:"kind"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	InvoiceURL  string    `json:"invoiceUrl,omitempty"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

func New(schoolID string, kind Kind, amount float64, description string, status Status, now time.Time) (Transaction, error) {
	t := Transaction{
		SchoolID:    strings.TrimSpace(schoolID),
		Kind:        kind,
		Amount:      amount,
		Description: strings.TrimSpace(description),
		Status:      status,
		Date:        now.UTC(),
		CreatedAt:   now.UTC(),
	}
	if t.SchoolID == "" {
		return Transaction{}, ErrInvalidSchoolID
	}
	if t.Amount < 0 {
		return Transaction{}, ErrInvalidAmount
	}
	if !isValidStatus(t.Status) {
		return Transaction{}, ErrInvalidStatus
	}
	return t, nil
}
