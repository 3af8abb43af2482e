// internal/domain/issuance/batch.go
package issuance

import (
	"strings"
	"time"
)

// ------------------------------------------------------
// Workflow states
// ------------------------------------------------------
//
//	SelectingRecipients -> SelectingAsset -> ReadyToMint
//	  -> MintingUpload -> MintingSubmit -> MintingConfirm -> Completed
//
// Failed is terminal and reachable from any Minting* state. Cancelled is
// reachable from the three pre-mint states only: once minting has begun
// the in-flight submission cannot be withdrawn.
type State string

const (
	StateSelectingRecipients State = "selectingRecipients"
	StateSelectingAsset      State = "selectingAsset"
	StateReadyToMint         State = "readyToMint"
	StateMintingUpload       State = "mintingUpload"
	StateMintingSubmit       State = "mintingSubmit"
	StateMintingConfirm      State = "mintingConfirm"
	StateCompleted           State = "completed"
	StateFailed              State = "failed"
	StateCancelled           State = "cancelled"
)

// IsMinting reports whether s is one of the three minting sub-states.
func (s State) IsMinting() bool {
	return s == StateMintingUpload || s == StateMintingSubmit || s == StateMintingConfirm
}

// IsTerminal reports whether the batch run has ended.
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// AssetKind discriminates the two mutually exclusive asset sources.
type AssetKind string

const (
	AssetTemplate AssetKind = "template"
	AssetImage    AssetKind = "image"
)

// AssetSource is the diploma visual chosen for the whole batch: either a
// stored template or an uploaded image, never both.
type AssetSource struct {
	Kind       AssetKind `json:"kind"`
	TemplateID string    `json:"templateId,omitempty"`
	ImageRef   string    `json:"imageRef,omitempty"` // staged object ref of the uploaded image
}

// MintedDiploma is one confirmed-submitted recipient of the batch.
type MintedDiploma struct {
	StudentID   string `json:"studentId"`
	TxSignature string `json:"txSignature"`
	AssetHash   string `json:"assetHash"`
}

// Batch is one issuance workflow run. Session-scoped and in-memory: it is
// created when a school enters the workflow, owned exclusively by the
// workflow store, and destroyed on completion or navigation away. Not safe
// for concurrent use; the owning usecase serializes access.
type Batch struct {
	SchoolID  string
	CreatedAt time.Time

	state      State
	recipients []string
	seen       map[string]struct{}
	asset      *AssetSource
	minted     []MintedDiploma
	warning    string
	failure    error
}

// NewBatch opens a workflow run in SelectingRecipients with an empty
// recipient set.
func NewBatch(schoolID string, now time.Time) *Batch {
	return &Batch{
		SchoolID:  strings.TrimSpace(schoolID),
		CreatedAt: now.UTC(),
		state:     StateSelectingRecipients,
		seen:      make(map[string]struct{}),
	}
}

// ------------------------------------------------------
// Read accessors
// ------------------------------------------------------

func (b *Batch) State() State { return b.state }

// Recipients returns the recipient ids in insertion order.
func (b *Batch) Recipients() []string {
	out := make([]string, len(b.recipients))
	copy(out, b.recipients)
	return out
}

func (b *Batch) Asset() *AssetSource {
	if b.asset == nil {
		return nil
	}
	a := *b.asset
	return &a
}

// Minted returns the (recipientId, txSignature, assetHash) tuples actually
// persisted so far. On Failed this is the partial result list.
func (b *Batch) Minted() []MintedDiploma {
	out := make([]MintedDiploma, len(b.minted))
	copy(out, b.minted)
	return out
}

func (b *Batch) Warning() string { return b.warning }
func (b *Batch) Failure() error  { return b.failure }

// ------------------------------------------------------
// Recipient selection
// ------------------------------------------------------

// AddRecipient adds a student id to the set. Duplicates are ignored.
func (b *Batch) AddRecipient(studentID string) error {
	if b.state != StateSelectingRecipients {
		return &ValidationError{Reason: "recipients can only be edited while selecting recipients"}
	}
	id := strings.TrimSpace(studentID)
	if id == "" {
		return &ValidationError{Reason: "empty student id"}
	}
	if _, ok := b.seen[id]; ok {
		return nil
	}
	b.seen[id] = struct{}{}
	b.recipients = append(b.recipients, id)
	return nil
}

func (b *Batch) RemoveRecipient(studentID string) error {
	if b.state != StateSelectingRecipients {
		return &ValidationError{Reason: "recipients can only be edited while selecting recipients"}
	}
	id := strings.TrimSpace(studentID)
	if _, ok := b.seen[id]; !ok {
		return nil
	}
	delete(b.seen, id)
	out := b.recipients[:0]
	for _, r := range b.recipients {
		if r != id {
			out = append(out, r)
		}
	}
	b.recipients = out
	return nil
}

// ConfirmRecipients advances SelectingRecipients -> SelectingAsset.
// Guard: at least one recipient. On guard failure the state is unchanged.
func (b *Batch) ConfirmRecipients() error {
	if b.state != StateSelectingRecipients {
		return &ValidationError{Reason: "not selecting recipients"}
	}
	if len(b.recipients) == 0 {
		return &ValidationError{Reason: "no recipients selected"}
	}
	b.state = StateSelectingAsset
	return nil
}

// ------------------------------------------------------
// Asset selection
// ------------------------------------------------------

// ChooseTemplate selects a stored template, displacing any uploaded image.
func (b *Batch) ChooseTemplate(templateID string) error {
	if b.state != StateSelectingAsset {
		return &ValidationError{Reason: "not selecting an asset"}
	}
	id := strings.TrimSpace(templateID)
	if id == "" {
		return &ValidationError{Reason: "empty template id"}
	}
	b.asset = &AssetSource{Kind: AssetTemplate, TemplateID: id}
	return nil
}

// ChooseImage selects an uploaded image by its staged object ref. The
// caller must have successfully read and staged the payload already.
func (b *Batch) ChooseImage(imageRef string) error {
	if b.state != StateSelectingAsset {
		return &ValidationError{Reason: "not selecting an asset"}
	}
	ref := strings.TrimSpace(imageRef)
	if ref == "" {
		return &ValidationError{Reason: "empty image ref"}
	}
	b.asset = &AssetSource{Kind: AssetImage, ImageRef: ref}
	return nil
}

// ConfirmAsset advances SelectingAsset -> ReadyToMint.
// Guard: exactly one asset source chosen.
func (b *Batch) ConfirmAsset() error {
	if b.state != StateSelectingAsset {
		return &ValidationError{Reason: "not selecting an asset"}
	}
	if b.asset == nil {
		return &ValidationError{Reason: "no asset chosen"}
	}
	b.state = StateReadyToMint
	return nil
}

// ------------------------------------------------------
// Minting transitions (driven by the issuance usecase)
// ------------------------------------------------------

// BeginMint advances ReadyToMint -> MintingUpload. Rejects resubmission
// while any minting sub-state is active.
func (b *Batch) BeginMint() error {
	if b.state.IsMinting() {
		return ErrMintInFlight
	}
	if b.state != StateReadyToMint {
		return &ValidationError{Reason: "batch is not ready to mint"}
	}
	b.state = StateMintingUpload
	return nil
}

// MarkSubmitting advances MintingUpload -> MintingSubmit.
func (b *Batch) MarkSubmitting() error {
	if b.state != StateMintingUpload {
		return &ValidationError{Reason: "not in upload step"}
	}
	b.state = StateMintingSubmit
	return nil
}

// MarkConfirming advances MintingSubmit -> MintingConfirm.
func (b *Batch) MarkConfirming() error {
	if b.state != StateMintingSubmit {
		return &ValidationError{Reason: "not in submit step"}
	}
	b.state = StateMintingConfirm
	return nil
}

// RecordMinted appends a persisted recipient result during the submit step.
func (b *Batch) RecordMinted(m MintedDiploma) {
	b.minted = append(b.minted, m)
}

// Complete advances MintingConfirm -> Completed. A non-empty warning marks
// a confirmation timeout that was downgraded per policy.
func (b *Batch) Complete(warning string) error {
	if b.state != StateMintingConfirm {
		return &ValidationError{Reason: "not in confirm step"}
	}
	b.state = StateCompleted
	b.warning = strings.TrimSpace(warning)
	return nil
}

// Fail moves any minting sub-state to Failed, keeping the partial minted
// list for the caller.
func (b *Batch) Fail(cause error) error {
	if !b.state.IsMinting() {
		return &ValidationError{Reason: "batch is not minting"}
	}
	b.state = StateFailed
	b.failure = cause
	return nil
}

// ------------------------------------------------------
// Cancel / reset
// ------------------------------------------------------

// Cancel abandons the workflow. Allowed only before minting begins.
func (b *Batch) Cancel() error {
	switch b.state {
	case StateSelectingRecipients, StateSelectingAsset, StateReadyToMint:
		b.state = StateCancelled
		return nil
	default:
		return &PreconditionError{Reason: "cannot cancel once minting has begun"}
	}
}

// Reset clears the batch after a terminal state and returns to
// SelectingRecipients.
func (b *Batch) Reset(now time.Time) error {
	if !b.state.IsTerminal() {
		return &ValidationError{Reason: "batch is still running"}
	}
	b.state = StateSelectingRecipients
	b.recipients = nil
	b.seen = make(map[string]struct{})
	b.asset = nil
	b.minted = nil
	b.warning = ""
	b.failure = nil
	b.CreatedAt = now.UTC()
	return nil
}
