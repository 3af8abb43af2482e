// internal/domain/school/repository_port.go
package school

import "context"

// Repository is the storage port for school profiles, keyed by the auth
// user id. Balance writes go through AdjustBalance so the stored value
// stays authoritative.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Profile, error)
	Create(ctx context.Context, p Profile) (Profile, error)
	Update(ctx context.Context, p Profile) (Profile, error)

	// AdjustBalance applies a signed delta to the stored balance and
	// returns the updated profile.
	AdjustBalance(ctx context.Context, userID string, delta float64) (Profile, error)
}
