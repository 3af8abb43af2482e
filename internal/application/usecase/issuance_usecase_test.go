// internal/application/usecase/issuance_usecase_test.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diplomadom "github.com/palukuba/proofchain-schools/internal/domain/diploma"
	issuancedom "github.com/palukuba/proofchain-schools/internal/domain/issuance"
	pricingdom "github.com/palukuba/proofchain-schools/internal/domain/pricing"
	schooldom "github.com/palukuba/proofchain-schools/internal/domain/school"
	studentdom "github.com/palukuba/proofchain-schools/internal/domain/student"
	txdom "github.com/palukuba/proofchain-schools/internal/domain/transaction"
)

// ------------------------------------------------------
// Fakes
// ------------------------------------------------------

type fakePinner struct {
	jsonCalls int
	failJSON  bool
	failFile  bool
}

func (f *fakePinner) PinFile(ctx context.Context, data []byte, name string) (string, error) {
	if f.failFile {
		return "", errors.New("pin file down")
	}
	return "ipfs://file-" + name, nil
}

func (f *fakePinner) PinJSON(ctx context.Context, v any) (string, error) {
	f.jsonCalls++
	if f.failJSON {
		return "", errors.New("pin json down")
	}
	return fmt.Sprintf("ipfs://json-%d", f.jsonCalls), nil
}

type fakeMinter struct {
	mintCalls   int
	failAtCall  int // 1-based; 0 = never fail
	confirmAll  bool
	connectErr  error
	lamports    uint64
	balanceErr  error
}

func (f *fakeMinter) Connected(ctx context.Context) error { return f.connectErr }

func (f *fakeMinter) Balance(ctx context.Context) (uint64, error) {
	if f.balanceErr != nil {
		return 0, f.balanceErr
	}
	return f.lamports, nil
}

func (f *fakeMinter) Mint(ctx context.Context, ownerWallet, name, symbol, uri string) (string, error) {
	f.mintCalls++
	if f.failAtCall > 0 && f.mintCalls == f.failAtCall {
		return "", errors.New("rpc rejected transaction")
	}
	return fmt.Sprintf("sig-%d", f.mintCalls), nil
}

func (f *fakeMinter) Confirmed(ctx context.Context, signature string) (bool, error) {
	return f.confirmAll, nil
}

type fakeAssetStore struct {
	data    map[string][]byte
	err     error
	deleted []string
}

func (f *fakeAssetStore) Get(ctx context.Context, objectPath string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data[objectPath], nil
}

func (f *fakeAssetStore) Delete(ctx context.Context, objectPath string) error {
	f.deleted = append(f.deleted, objectPath)
	return nil
}

type fakeStudents struct {
	profiles map[string]studentdom.Profile
}

func (f *fakeStudents) ListByUserIDs(ctx context.Context, ids []string) ([]studentdom.Profile, error) {
	var out []studentdom.Profile
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeDiplomas struct {
	prior   int
	records []diplomadom.Record
}

func (f *fakeDiplomas) Create(ctx context.Context, r diplomadom.Record) (diplomadom.Record, error) {
	r.ID = fmt.Sprintf("dip-%d", len(f.records)+1)
	f.records = append(f.records, r)
	return r, nil
}

func (f *fakeDiplomas) CountBySchoolID(ctx context.Context, schoolID string) (int, error) {
	return f.prior, nil
}

type fakeSchools struct {
	deltas []float64
}

func (f *fakeSchools) AdjustBalance(ctx context.Context, userID string, delta float64) (schooldom.Profile, error) {
	f.deltas = append(f.deltas, delta)
	return schooldom.Profile{UserID: userID}, nil
}

type fakeTxs struct {
	entries []txdom.Transaction
}

func (f *fakeTxs) Create(ctx context.Context, t txdom.Transaction) (txdom.Transaction, error) {
	f.entries = append(f.entries, t)
	return t, nil
}

type fakePrices struct {
	cfg *pricingdom.PriceConfig
}

func (f *fakePrices) GetLatest(ctx context.Context) (pricingdom.PriceConfig, error) {
	if f.cfg == nil {
		return pricingdom.PriceConfig{}, pricingdom.ErrNotFound
	}
	return *f.cfg, nil
}

type fakeReceipts struct {
	sent []ReceiptData
}

func (f *fakeReceipts) SendIssuanceReceipt(ctx context.Context, to string, r ReceiptData) error {
	f.sent = append(f.sent, r)
	return nil
}

// ------------------------------------------------------
// Harness
// ------------------------------------------------------

type mintHarness struct {
	uc       *IssuanceUsecase
	pinner   *fakePinner
	minter   *fakeMinter
	assets   *fakeAssetStore
	diplomas *fakeDiplomas
	schools  *fakeSchools
	txs      *fakeTxs
	receipts *fakeReceipts
}

func wallet(i int) string {
	return strings.Repeat("A", 40) + fmt.Sprintf("%d", i)
}

func newMintHarness(t *testing.T, recipients int) *mintHarness {
	t.Helper()

	profiles := make(map[string]studentdom.Profile, recipients)
	for i := 1; i <= recipients; i++ {
		id := fmt.Sprintf("stu-%d", i)
		profiles[id] = studentdom.Profile{
			UserID:       id,
			SchoolID:     "school-1",
			FullName:     fmt.Sprintf("Student %d", i),
			Email:        fmt.Sprintf("s%d@example.edu", i),
			PublicWallet: wallet(i),
		}
	}

	h := &mintHarness{
		pinner:   &fakePinner{},
		minter:   &fakeMinter{confirmAll: true, lamports: 100_000_000},
		assets:   &fakeAssetStore{data: map[string][]byte{"staged/img.png": []byte("png")}},
		diplomas: &fakeDiplomas{},
		schools:  &fakeSchools{},
		txs:      &fakeTxs{},
		receipts: &fakeReceipts{},
	}
	h.uc = NewIssuanceUsecase(
		NewBatchStore(),
		h.pinner,
		h.minter,
		h.assets,
		&fakeStudents{profiles: profiles},
		h.diplomas,
		h.schools,
		h.txs,
		&fakePrices{cfg: &pricingdom.PriceConfig{
			BasePrice:           25.00,
			NetworkFeePercent:   2,
			StorageFreeLimit:    1_000_000,
			StoragePricePer1000: 0,
		}},
		h.receipts,
	)
	h.uc.ConfirmAttempts = 2
	h.uc.ConfirmInterval = time.Millisecond
	return h
}

func (h *mintHarness) ready(t *testing.T, recipients int) {
	t.Helper()
	h.uc.StartOrGet("school-1")
	for i := 1; i <= recipients; i++ {
		_, err := h.uc.AddRecipient("school-1", fmt.Sprintf("stu-%d", i))
		require.NoError(t, err)
	}
	_, err := h.uc.ConfirmRecipients("school-1")
	require.NoError(t, err)
	_, err = h.uc.ChooseImage("school-1", "staged/img.png")
	require.NoError(t, err)
	_, err = h.uc.ConfirmAsset("school-1")
	require.NoError(t, err)
}

func testSchool() schooldom.Profile {
	return schooldom.Profile{
		UserID:    "school-1",
		Name:      "Springfield Tech",
		Email:     "admin@springfield.edu",
		KYCStatus: schooldom.KYCApproved,
		Balance:   100.00,
	}
}

// ------------------------------------------------------
// Tests
// ------------------------------------------------------

func TestRunMint_Success(t *testing.T) {
	h := newMintHarness(t, 3)
	h.ready(t, 3)

	result, err := h.uc.RunMint(context.Background(), testSchool())
	require.NoError(t, err)

	assert.Equal(t, issuancedom.StateCompleted, result.State)
	assert.Empty(t, result.Warning)
	assert.Len(t, result.Minted, 3)
	assert.Len(t, h.diplomas.records, 3)

	// every record shares the one pinned asset
	for _, r := range h.diplomas.records {
		assert.Equal(t, "ipfs://file-staged/img.png", r.IPFSHash)
		assert.NotEmpty(t, r.TransactionHash)
	}

	// the staged copy is cleaned up once pinned
	assert.Equal(t, []string{"staged/img.png"}, h.assets.deleted)

	// charged 3 * 0.50, single debit
	require.Len(t, h.schools.deltas, 1)
	assert.InDelta(t, -1.50, h.schools.deltas[0], 1e-9)
	require.Len(t, h.txs.entries, 1)
	assert.Equal(t, txdom.KindNetworkFee, h.txs.entries[0].Kind)

	require.Len(t, h.receipts.sent, 1)
	assert.Equal(t, 3, h.receipts.sent[0].Minted)
}

func TestRunMint_UploadFailureLeavesNoRecords(t *testing.T) {
	h := newMintHarness(t, 2)
	h.ready(t, 2)
	h.pinner.failFile = true

	result, err := h.uc.RunMint(context.Background(), testSchool())

	var xErr *issuancedom.ExternalServiceError
	require.ErrorAs(t, err, &xErr)
	assert.Equal(t, issuancedom.CollaboratorContent, xErr.Collaborator)
	assert.Equal(t, "upload", xErr.Step)

	assert.Equal(t, issuancedom.StateFailed, result.State)
	assert.Empty(t, result.Minted)
	assert.Empty(t, h.diplomas.records)
	assert.Empty(t, h.schools.deltas)

	view, ok := h.uc.Status("school-1")
	require.True(t, ok)
	assert.Equal(t, issuancedom.StateFailed, view.State)
}

func TestRunMint_MidBatchFailureKeepsEarlierRecipients(t *testing.T) {
	h := newMintHarness(t, 3)
	h.ready(t, 3)
	h.minter.failAtCall = 3

	result, err := h.uc.RunMint(context.Background(), testSchool())

	var xErr *issuancedom.ExternalServiceError
	require.ErrorAs(t, err, &xErr)
	assert.Equal(t, issuancedom.CollaboratorWallet, xErr.Collaborator)
	assert.Equal(t, 3, xErr.RecipientIndex)

	// the first two went through and stay persisted
	assert.Equal(t, issuancedom.StateFailed, result.State)
	assert.Len(t, result.Minted, 2)
	assert.Len(t, h.diplomas.records, 2)
	assert.Equal(t, "stu-1", h.diplomas.records[0].StudentID)
	assert.Equal(t, "stu-2", h.diplomas.records[1].StudentID)
}

func TestRunMint_ConfirmationTimeoutCompletesWithWarning(t *testing.T) {
	h := newMintHarness(t, 2)
	h.ready(t, 2)
	h.minter.confirmAll = false

	result, err := h.uc.RunMint(context.Background(), testSchool())
	require.NoError(t, err)

	assert.Equal(t, issuancedom.StateCompleted, result.State)
	assert.NotEmpty(t, result.Warning)
	assert.Len(t, result.Minted, 2)

	// the charge still happens: the mints were submitted
	require.Len(t, h.schools.deltas, 1)
	assert.InDelta(t, -1.00, h.schools.deltas[0], 1e-9)
}

func TestRunMint_InsufficientBalanceIsPrecondition(t *testing.T) {
	h := newMintHarness(t, 3)
	h.ready(t, 3)

	sc := testSchool()
	sc.Balance = 0.25 // needs 1.50

	_, err := h.uc.RunMint(context.Background(), sc)

	var pErr *issuancedom.PreconditionError
	require.ErrorAs(t, err, &pErr)

	// nothing was attempted and the batch is still ready
	assert.Zero(t, h.minter.mintCalls)
	view, ok := h.uc.Status("school-1")
	require.True(t, ok)
	assert.Equal(t, issuancedom.StateReadyToMint, view.State)
}

func TestRunMint_WalletUnreachableIsPrecondition(t *testing.T) {
	h := newMintHarness(t, 1)
	h.ready(t, 1)
	h.minter.connectErr = errors.New("rpc down")

	_, err := h.uc.RunMint(context.Background(), testSchool())

	var pErr *issuancedom.PreconditionError
	require.ErrorAs(t, err, &pErr)
	assert.Zero(t, h.minter.mintCalls)
}

func TestRunMint_RecipientWithoutWalletIsPrecondition(t *testing.T) {
	h := newMintHarness(t, 2)

	// drop stu-2's wallet
	students := &fakeStudents{profiles: map[string]studentdom.Profile{
		"stu-1": {UserID: "stu-1", SchoolID: "school-1", FullName: "Student 1", Email: "s1@example.edu", PublicWallet: wallet(1)},
		"stu-2": {UserID: "stu-2", SchoolID: "school-1", FullName: "Student 2", Email: "s2@example.edu"},
	}}
	h.uc.students = students
	h.ready(t, 2)

	_, err := h.uc.RunMint(context.Background(), testSchool())

	var pErr *issuancedom.PreconditionError
	require.ErrorAs(t, err, &pErr)
	assert.Zero(t, h.minter.mintCalls)
}

func TestRunMint_StorageFeeChargedAboveFreeTier(t *testing.T) {
	h := newMintHarness(t, 3)
	h.uc.prices = &fakePrices{cfg: &pricingdom.PriceConfig{
		BasePrice:           25.00,
		NetworkFeePercent:   2,
		StorageFreeLimit:    100,
		StoragePricePer1000: 10,
	}}
	h.diplomas.prior = 99 // indices 100..102; 101 and 102 are charged
	h.ready(t, 3)

	sc := testSchool()
	result, err := h.uc.RunMint(context.Background(), sc)
	require.NoError(t, err)

	assert.InDelta(t, 1.50, result.NetworkFee, 1e-9)
	assert.InDelta(t, 0.02, result.StorageFee, 1e-9)

	require.Len(t, h.txs.entries, 2)
	assert.Equal(t, txdom.KindNetworkFee, h.txs.entries[0].Kind)
	assert.Equal(t, txdom.KindStorageFee, h.txs.entries[1].Kind)
}

func TestRunMint_NoActiveWorkflow(t *testing.T) {
	h := newMintHarness(t, 1)

	_, err := h.uc.RunMint(context.Background(), testSchool())
	var vErr *issuancedom.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestWorkflow_CancelThenResetStartsClean(t *testing.T) {
	h := newMintHarness(t, 2)
	h.ready(t, 2)

	view, err := h.uc.Cancel("school-1")
	require.NoError(t, err)
	assert.Equal(t, issuancedom.StateCancelled, view.State)

	view, err = h.uc.Reset("school-1")
	require.NoError(t, err)
	assert.Equal(t, issuancedom.StateSelectingRecipients, view.State)
	assert.Empty(t, view.Recipients)
}

func TestWorkflow_AbandonDropsState(t *testing.T) {
	h := newMintHarness(t, 1)
	h.uc.StartOrGet("school-1")
	require.NoError(t, h.uc.Abandon("school-1"))

	_, ok := h.uc.Status("school-1")
	assert.False(t, ok)
}

func TestWorkflow_AbandonRejectedWhileMinting(t *testing.T) {
	h := newMintHarness(t, 1)
	h.ready(t, 1)

	e := h.uc.store.entry("school-1")
	e.mu.Lock()
	require.NoError(t, e.b.BeginMint())
	e.mu.Unlock()

	assert.ErrorIs(t, h.uc.Abandon("school-1"), issuancedom.ErrMintInFlight)

	// the running batch is untouched
	view, ok := h.uc.Status("school-1")
	require.True(t, ok)
	assert.Equal(t, issuancedom.StateMintingUpload, view.State)
}
