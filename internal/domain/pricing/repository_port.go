// internal/domain/pricing/repository_port.go
package pricing

import "context"

// Repository is the storage port for price configs. Updates append a new
// snapshot; GetLatest returns the most recent one (ErrNotFound when none
// has ever been stored).
type Repository interface {
	GetLatest(ctx context.Context) (PriceConfig, error)
	Append(ctx context.Context, cfg PriceConfig) (PriceConfig, error)
}
