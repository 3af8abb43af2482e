// internal/domain/transaction/repository_port.go
package transaction

import "context"

// Repository is the storage port for billing transactions. Two
// implementations exist (Firestore and Postgres); the DI container picks
// one at boot.
type Repository interface {
	Create(ctx context.Context, t Transaction) (Transaction, error)
	ListBySchoolID(ctx context.Context, schoolID string) ([]Transaction, error)
}
