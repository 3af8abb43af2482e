// internal/domain/diploma/repository_port.go
package diploma

import "context"

// Repository is the append-only storage port for issued diplomas. Issued
// records are immutable; there is intentionally no Update or Delete.
type Repository interface {
	Create(ctx context.Context, r Record) (Record, error)
	ListBySchoolID(ctx context.Context, schoolID string) ([]Record, error)
	ListByStudentID(ctx context.Context, studentID string) ([]Record, error)

	// CountBySchoolID returns how many diplomas the school has issued so
	// far. Used as priorIssuedCount for fee calculation.
	CountBySchoolID(ctx context.Context, schoolID string) (int, error)
}
