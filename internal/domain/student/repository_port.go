// internal/domain/student/repository_port.go
package student

import "context"

// Repository is the storage port for student profiles.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Profile, error)
	ListBySchoolID(ctx context.Context, schoolID string) ([]Profile, error)
	Create(ctx context.Context, p Profile) (Profile, error)

	// ListByUserIDs resolves a set of recipients in one call. Missing ids
	// are simply absent from the result; the caller decides whether that
	// is an error.
	ListByUserIDs(ctx context.Context, userIDs []string) ([]Profile, error)
}
