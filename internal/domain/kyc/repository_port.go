// internal/domain/kyc/repository_port.go
package kyc

import "context"

// Repository is the storage port for KYC requests.
type Repository interface {
	Create(ctx context.Context, r Request) (Request, error)
	GetLatestBySchoolID(ctx context.Context, schoolID string) (Request, error)
}
