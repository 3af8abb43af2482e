// internal/domain/issuance/batch_test.go
package issuance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func now() time.Time {
	return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
}

func readyBatch(t *testing.T) *Batch {
	t.Helper()
	b := NewBatch("school-1", now())
	require.NoError(t, b.AddRecipient("stu-1"))
	require.NoError(t, b.AddRecipient("stu-2"))
	require.NoError(t, b.ConfirmRecipients())
	require.NoError(t, b.ChooseTemplate("tpl-1"))
	require.NoError(t, b.ConfirmAsset())
	return b
}

func TestBatch_HappyPathTransitions(t *testing.T) {
	b := readyBatch(t)
	assert.Equal(t, StateReadyToMint, b.State())

	require.NoError(t, b.BeginMint())
	assert.Equal(t, StateMintingUpload, b.State())

	require.NoError(t, b.MarkSubmitting())
	b.RecordMinted(MintedDiploma{StudentID: "stu-1", TxSignature: "sig-1", AssetHash: "ipfs://a"})
	b.RecordMinted(MintedDiploma{StudentID: "stu-2", TxSignature: "sig-2", AssetHash: "ipfs://a"})

	require.NoError(t, b.MarkConfirming())
	require.NoError(t, b.Complete(""))

	assert.Equal(t, StateCompleted, b.State())
	assert.Len(t, b.Minted(), 2)
	assert.Empty(t, b.Warning())
}

func TestBatch_ConfirmRecipientsRequiresAtLeastOne(t *testing.T) {
	b := NewBatch("school-1", now())

	err := b.ConfirmRecipients()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	// guard failure leaves the state untouched
	assert.Equal(t, StateSelectingRecipients, b.State())
}

func TestBatch_DuplicateRecipientsIgnored(t *testing.T) {
	b := NewBatch("school-1", now())
	require.NoError(t, b.AddRecipient("stu-1"))
	require.NoError(t, b.AddRecipient("stu-1"))
	assert.Equal(t, []string{"stu-1"}, b.Recipients())
}

func TestBatch_RemoveRecipientKeepsOrder(t *testing.T) {
	b := NewBatch("school-1", now())
	require.NoError(t, b.AddRecipient("stu-1"))
	require.NoError(t, b.AddRecipient("stu-2"))
	require.NoError(t, b.AddRecipient("stu-3"))
	require.NoError(t, b.RemoveRecipient("stu-2"))
	assert.Equal(t, []string{"stu-1", "stu-3"}, b.Recipients())
}

func TestBatch_ConfirmAssetRequiresChoice(t *testing.T) {
	b := NewBatch("school-1", now())
	require.NoError(t, b.AddRecipient("stu-1"))
	require.NoError(t, b.ConfirmRecipients())

	err := b.ConfirmAsset()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, StateSelectingAsset, b.State())
}

func TestBatch_AssetChoiceIsExclusive(t *testing.T) {
	b := NewBatch("school-1", now())
	require.NoError(t, b.AddRecipient("stu-1"))
	require.NoError(t, b.ConfirmRecipients())

	require.NoError(t, b.ChooseTemplate("tpl-1"))
	require.NoError(t, b.ChooseImage("staged/img.png"))

	a := b.Asset()
	require.NotNil(t, a)
	assert.Equal(t, AssetImage, a.Kind)
	assert.Empty(t, a.TemplateID)
	assert.Equal(t, "staged/img.png", a.ImageRef)
}

func TestBatch_BeginMintRejectsInFlight(t *testing.T) {
	b := readyBatch(t)
	require.NoError(t, b.BeginMint())

	assert.ErrorIs(t, b.BeginMint(), ErrMintInFlight)
	require.NoError(t, b.MarkSubmitting())
	assert.ErrorIs(t, b.BeginMint(), ErrMintInFlight)
}

func TestBatch_CancelOnlyBeforeMinting(t *testing.T) {
	// cancellable in all three pre-mint states
	b := NewBatch("school-1", now())
	require.NoError(t, b.Cancel())
	assert.Equal(t, StateCancelled, b.State())

	b = readyBatch(t)
	require.NoError(t, b.Cancel())

	// once minting began the submission cannot be withdrawn
	b = readyBatch(t)
	require.NoError(t, b.BeginMint())
	var pErr *PreconditionError
	require.ErrorAs(t, b.Cancel(), &pErr)
	assert.Equal(t, StateMintingUpload, b.State())
}

func TestBatch_FailKeepsPartialResults(t *testing.T) {
	b := readyBatch(t)
	require.NoError(t, b.BeginMint())
	require.NoError(t, b.MarkSubmitting())
	b.RecordMinted(MintedDiploma{StudentID: "stu-1", TxSignature: "sig-1", AssetHash: "ipfs://a"})

	cause := errors.New("submit blew up")
	require.NoError(t, b.Fail(cause))

	assert.Equal(t, StateFailed, b.State())
	assert.Len(t, b.Minted(), 1)
	assert.Equal(t, cause, b.Failure())
}

func TestBatch_FailRequiresMintingState(t *testing.T) {
	b := readyBatch(t)
	var vErr *ValidationError
	require.ErrorAs(t, b.Fail(errors.New("nope")), &vErr)
}

func TestBatch_CompleteWithWarning(t *testing.T) {
	b := readyBatch(t)
	require.NoError(t, b.BeginMint())
	require.NoError(t, b.MarkSubmitting())
	require.NoError(t, b.MarkConfirming())
	require.NoError(t, b.Complete("confirmation timed out"))

	assert.Equal(t, StateCompleted, b.State())
	assert.Equal(t, "confirmation timed out", b.Warning())
}

func TestBatch_ResetOnlyFromTerminalState(t *testing.T) {
	b := readyBatch(t)
	var vErr *ValidationError
	require.ErrorAs(t, b.Reset(now()), &vErr)

	require.NoError(t, b.Cancel())
	require.NoError(t, b.Reset(now().Add(time.Hour)))

	assert.Equal(t, StateSelectingRecipients, b.State())
	assert.Empty(t, b.Recipients())
	assert.Nil(t, b.Asset())
	assert.Empty(t, b.Minted())
}

func TestBatch_RecipientEditsLockedAfterConfirm(t *testing.T) {
	b := NewBatch("school-1", now())
	require.NoError(t, b.AddRecipient("stu-1"))
	require.NoError(t, b.ConfirmRecipients())

	var vErr *ValidationError
	require.ErrorAs(t, b.AddRecipient("stu-2"), &vErr)
	require.ErrorAs(t, b.RemoveRecipient("stu-1"), &vErr)
}

func TestStateHelpers(t *testing.T) {
	assert.True(t, StateMintingUpload.IsMinting())
	assert.True(t, StateMintingSubmit.IsMinting())
	assert.True(t, StateMintingConfirm.IsMinting())
	assert.False(t, StateReadyToMint.IsMinting())

	assert.True(t, StateCompleted.IsTerminal())
	assert.True(t, StateFailed.IsTerminal())
	assert.True(t, StateCancelled.IsTerminal())
	assert.False(t, StateMintingSubmit.IsTerminal())
}
