// internal/domain/policy/repository_port.go
package policy

import "context"

// Repository is the storage port for minting policies.
type Repository interface {
	GetBySchoolID(ctx context.Context, schoolID string) (MintingPolicy, error)
	Create(ctx context.Context, p MintingPolicy) (MintingPolicy, error)

	// GetByPolicyID supports diploma verification: is this policy one of
	// ours? Returns ErrNotFound when unknown.
	GetByPolicyID(ctx context.Context, policyID string) (MintingPolicy, error)
}
