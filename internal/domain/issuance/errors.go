// internal/domain/issuance/errors.go
package issuance

import (
	"errors"
	"fmt"
)

// ------------------------------------------------------
// Error taxonomy
// ------------------------------------------------------
//
// ValidationError / PreconditionError are caught at the workflow boundary
// and surfaced as actionable user messages before any external call is
// made. ExternalServiceError aborts the batch from the failing recipient
// onward. ErrConfirmationTimeout is non-fatal: the submission cannot be
// withdrawn, so the batch completes with a warning instead.

// ValidationError: bad user input (no recipients, no asset, bad batch size).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "issuance: " + e.Reason
}

// PreconditionError: an environmental requirement is not met (wallet not
// connected, insufficient balance). Not retryable as-is; the user must fix
// the condition first.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "issuance: " + e.Reason
}

// Collaborator names the external service that failed.
type Collaborator string

const (
	CollaboratorAuth    Collaborator = "auth"
	CollaboratorStorage Collaborator = "storage"
	CollaboratorWallet  Collaborator = "wallet"
	CollaboratorContent Collaborator = "content-storage"
)

// ExternalServiceError wraps a collaborator failure with enough context
// (sub-step, recipient index) for support-ticket triage.
type ExternalServiceError struct {
	Collaborator   Collaborator
	Step           string // "upload" | "submit" | "persist" | "charge"
	RecipientIndex int    // 1-based position in the batch; 0 when not recipient-scoped
	Err            error
}

func (e *ExternalServiceError) Error() string {
	if e.RecipientIndex > 0 {
		return fmt.Sprintf("issuance: %s failed at step %q (recipient %d): %v",
			e.Collaborator, e.Step, e.RecipientIndex, e.Err)
	}
	return fmt.Sprintf("issuance: %s failed at step %q: %v", e.Collaborator, e.Step, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

var (
	// ErrConfirmationTimeout: the bounded confirmation poll gave up. The
	// mint was already submitted and may confirm later out-of-band.
	ErrConfirmationTimeout = errors.New("issuance: confirmation timed out")

	// ErrMintInFlight: resubmission attempted while a mint is running.
	// At most one mint operation may be in flight per batch.
	ErrMintInFlight = errors.New("issuance: a mint is already in flight for this batch")
)
