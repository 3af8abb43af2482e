// internal/application/usecase/issuance_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	diplomadom "github.com/palukuba/proofchain-schools/internal/domain/diploma"
	issuancedom "github.com/palukuba/proofchain-schools/internal/domain/issuance"
	pricingdom "github.com/palukuba/proofchain-schools/internal/domain/pricing"
	schooldom "github.com/palukuba/proofchain-schools/internal/domain/school"
	studentdom "github.com/palukuba/proofchain-schools/internal/domain/student"
	txdom "github.com/palukuba/proofchain-schools/internal/domain/transaction"
)

// ============================================================
// Ports (minimal interfaces for IssuanceUsecase)
// ============================================================

// issuancePinner pins bytes or JSON to content-addressed storage and
// returns the resulting URI.
type issuancePinner interface {
	PinFile(ctx context.Context, data []byte, name string) (string, error)
	PinJSON(ctx context.Context, v any) (string, error)
}

// issuanceMinter submits mint transactions and reports on them.
type issuanceMinter interface {
	Connected(ctx context.Context) error
	Balance(ctx context.Context) (uint64, error)
	Mint(ctx context.Context, ownerWallet, name, symbol, uri string) (string, error)
	Confirmed(ctx context.Context, signature string) (bool, error)
}

// issuanceAssetStore reads back staged asset bytes and removes them once
// they are pinned.
type issuanceAssetStore interface {
	Get(ctx context.Context, objectPath string) ([]byte, error)
	Delete(ctx context.Context, objectPath string) error
}

type issuanceStudentRepo interface {
	ListByUserIDs(ctx context.Context, userIDs []string) ([]studentdom.Profile, error)
}

type issuanceDiplomaRepo interface {
	Create(ctx context.Context, r diplomadom.Record) (diplomadom.Record, error)
	CountBySchoolID(ctx context.Context, schoolID string) (int, error)
}

type issuanceSchoolRepo interface {
	AdjustBalance(ctx context.Context, userID string, delta float64) (schooldom.Profile, error)
}

type issuanceTransactionRepo interface {
	Create(ctx context.Context, t txdom.Transaction) (txdom.Transaction, error)
}

type issuancePriceRepo interface {
	GetLatest(ctx context.Context) (pricingdom.PriceConfig, error)
}

// ReceiptData feeds the post-issuance receipt mail.
type ReceiptData struct {
	SchoolName string
	BatchSize  int
	Minted     int
	NetworkFee float64
	StorageFee float64
	Total      float64
	IssuedAt   time.Time
}

type issuanceReceiptSender interface {
	SendIssuanceReceipt(ctx context.Context, to string, r ReceiptData) error
}

// ============================================================
// BatchStore
// ============================================================

// batchEntry pairs a workflow batch with the mutex that serializes all
// access to it. The batch itself is not concurrency-safe.
type batchEntry struct {
	mu sync.Mutex
	b  *issuancedom.Batch
}

// BatchStore holds at most one issuance workflow per school. Entries are
// created lazily when a school enters the workflow and dropped when the
// school navigates away.
type BatchStore struct {
	mu      sync.Mutex
	entries map[string]*batchEntry
}

func NewBatchStore() *BatchStore {
	return &BatchStore{entries: make(map[string]*batchEntry)}
}

func (s *BatchStore) entry(schoolID string) *batchEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[schoolID]
	if !ok {
		e = &batchEntry{}
		s.entries[schoolID] = e
	}
	return e
}

// Drop discards the school's workflow state entirely.
func (s *BatchStore) Drop(schoolID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, schoolID)
}

// ============================================================
// View DTOs
// ============================================================

// BatchView is the workflow status payload.
type BatchView struct {
	State      issuancedom.State           `json:"state"`
	Recipients []string                    `json:"recipients"`
	Asset      *issuancedom.AssetSource    `json:"asset,omitempty"`
	Minted     []issuancedom.MintedDiploma `json:"minted"`
	Warning    string                      `json:"warning,omitempty"`
	Failure    string                      `json:"failure,omitempty"`
}

// MintResult is what RunMint returns on any outcome that got past the
// preconditions. On failure Minted holds the partial results that were
// persisted before the batch aborted.
type MintResult struct {
	State      issuancedom.State           `json:"state"`
	Minted     []issuancedom.MintedDiploma `json:"minted"`
	Warning    string                      `json:"warning,omitempty"`
	NetworkFee float64                     `json:"networkFee"`
	StorageFee float64                     `json:"storageFee"`
	Total      float64                     `json:"total"`
}

// ============================================================
// IssuanceUsecase
// ============================================================

type IssuanceUsecase struct {
	store    *BatchStore
	pinner   issuancePinner
	minter   issuanceMinter
	assets   issuanceAssetStore
	students issuanceStudentRepo
	diplomas issuanceDiplomaRepo
	schools  issuanceSchoolRepo
	txs      issuanceTransactionRepo
	prices   issuancePriceRepo
	receipts issuanceReceiptSender

	// Confirmation poll policy. The poll is bounded: after
	// ConfirmAttempts checks ConfirmInterval apart the timeout is
	// downgraded to a completion warning, never a failure.
	ConfirmAttempts int
	ConfirmInterval time.Duration

	// MinAuthorityLamports is the minimum mint-authority balance required
	// before a mint may start.
	MinAuthorityLamports uint64

	now func() time.Time
}

func NewIssuanceUsecase(
	store *BatchStore,
	pinner issuancePinner,
	minter issuanceMinter,
	assets issuanceAssetStore,
	students issuanceStudentRepo,
	diplomas issuanceDiplomaRepo,
	schools issuanceSchoolRepo,
	txs issuanceTransactionRepo,
	prices issuancePriceRepo,
	receipts issuanceReceiptSender,
) *IssuanceUsecase {
	return &IssuanceUsecase{
		store:                store,
		pinner:               pinner,
		minter:               minter,
		assets:               assets,
		students:             students,
		diplomas:             diplomas,
		schools:              schools,
		txs:                  txs,
		prices:               prices,
		receipts:             receipts,
		ConfirmAttempts:      12,
		ConfirmInterval:      5 * time.Second,
		MinAuthorityLamports: 10_000_000,
		now:                  time.Now,
	}
}

// ------------------------------------------------------
// Session operations (short, run under the entry lock)
// ------------------------------------------------------

// StartOrGet opens the school's workflow, creating a fresh batch when
// none exists, and returns its current view.
func (u *IssuanceUsecase) StartOrGet(schoolID string) BatchView {
	e := u.store.entry(schoolID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.b == nil {
		e.b = issuancedom.NewBatch(schoolID, u.now())
	}
	return viewOf(e.b)
}

// Status returns the current workflow view without creating a batch.
func (u *IssuanceUsecase) Status(schoolID string) (BatchView, bool) {
	e := u.store.entry(schoolID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.b == nil {
		return BatchView{}, false
	}
	return viewOf(e.b), true
}

func (u *IssuanceUsecase) AddRecipient(schoolID, studentID string) (BatchView, error) {
	return u.mutate(schoolID, func(b *issuancedom.Batch) error {
		return b.AddRecipient(studentID)
	})
}

func (u *IssuanceUsecase) RemoveRecipient(schoolID, studentID string) (BatchView, error) {
	return u.mutate(schoolID, func(b *issuancedom.Batch) error {
		return b.RemoveRecipient(studentID)
	})
}

func (u *IssuanceUsecase) ConfirmRecipients(schoolID string) (BatchView, error) {
	return u.mutate(schoolID, func(b *issuancedom.Batch) error {
		return b.ConfirmRecipients()
	})
}

func (u *IssuanceUsecase) ChooseTemplate(schoolID, templateID string) (BatchView, error) {
	return u.mutate(schoolID, func(b *issuancedom.Batch) error {
		return b.ChooseTemplate(templateID)
	})
}

func (u *IssuanceUsecase) ChooseImage(schoolID, imageRef string) (BatchView, error) {
	return u.mutate(schoolID, func(b *issuancedom.Batch) error {
		return b.ChooseImage(imageRef)
	})
}

func (u *IssuanceUsecase) ConfirmAsset(schoolID string) (BatchView, error) {
	return u.mutate(schoolID, func(b *issuancedom.Batch) error {
		return b.ConfirmAsset()
	})
}

func (u *IssuanceUsecase) Cancel(schoolID string) (BatchView, error) {
	return u.mutate(schoolID, func(b *issuancedom.Batch) error {
		return b.Cancel()
	})
}

func (u *IssuanceUsecase) Reset(schoolID string) (BatchView, error) {
	return u.mutate(schoolID, func(b *issuancedom.Batch) error {
		return b.Reset(u.now())
	})
}

// Abandon destroys the workflow state (navigation away from the page).
// Rejected while a mint is running: the running mint still owns the
// entry, and dropping it would let the school start a second concurrent
// mint on a fresh batch.
func (u *IssuanceUsecase) Abandon(schoolID string) error {
	e := u.store.entry(schoolID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.b != nil && e.b.State().IsMinting() {
		return issuancedom.ErrMintInFlight
	}
	u.store.Drop(schoolID)
	return nil
}

func (u *IssuanceUsecase) mutate(schoolID string, fn func(*issuancedom.Batch) error) (BatchView, error) {
	e := u.store.entry(schoolID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.b == nil {
		return BatchView{}, &issuancedom.ValidationError{Reason: "no active workflow"}
	}
	if err := fn(e.b); err != nil {
		return viewOf(e.b), err
	}
	return viewOf(e.b), nil
}

func viewOf(b *issuancedom.Batch) BatchView {
	v := BatchView{
		State:      b.State(),
		Recipients: b.Recipients(),
		Asset:      b.Asset(),
		Minted:     b.Minted(),
		Warning:    b.Warning(),
	}
	if err := b.Failure(); err != nil {
		v.Failure = err.Error()
	}
	return v
}

// ------------------------------------------------------
// RunMint
// ------------------------------------------------------

// diplomaMetadata is the per-recipient JSON document pinned alongside the
// shared asset.
type diplomaMetadata struct {
	Name        string            `json:"name"`
	Symbol      string            `json:"symbol"`
	Description string            `json:"description"`
	Image       string            `json:"image"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// templateDescriptor is what gets pinned when the batch uses a stored
// template instead of an uploaded image.
type templateDescriptor struct {
	Kind       string `json:"kind"`
	TemplateID string `json:"templateId"`
	SchoolID   string `json:"schoolId"`
}

// RunMint drives the full minting sequence for the school's batch:
// preconditions, asset upload, per-recipient submission, bounded
// confirmation, charge, receipt. One mint transaction is submitted per
// recipient; all of them reference the same pinned asset.
//
// Failures during upload or submission move the batch to Failed, keeping
// whatever recipients were already persisted. A confirmation timeout is
// downgraded to a completion warning because the submissions cannot be
// withdrawn.
func (u *IssuanceUsecase) RunMint(ctx context.Context, sc schooldom.Profile) (MintResult, error) {
	schoolID := strings.TrimSpace(sc.UserID)
	e := u.store.entry(schoolID)

	// Phase 1: preconditions and transition into minting, under the lock.
	e.mu.Lock()
	b := e.b
	if b == nil {
		e.mu.Unlock()
		return MintResult{}, &issuancedom.ValidationError{Reason: "no active workflow"}
	}
	if b.State().IsMinting() {
		e.mu.Unlock()
		return MintResult{}, issuancedom.ErrMintInFlight
	}
	recipients := b.Recipients()
	asset := b.Asset()

	prior, cfg, quote, err := u.quoteFor(ctx, schoolID, len(recipients))
	if err != nil {
		e.mu.Unlock()
		return MintResult{}, err
	}
	profiles, err := u.resolveRecipients(ctx, recipients)
	if err != nil {
		e.mu.Unlock()
		return MintResult{}, err
	}
	if err := u.checkPreconditions(ctx, sc, quote); err != nil {
		e.mu.Unlock()
		return MintResult{}, err
	}
	if err := b.BeginMint(); err != nil {
		e.mu.Unlock()
		return MintResult{}, err
	}
	e.mu.Unlock()

	// Phase 2: upload the shared asset.
	assetHash, err := u.pinAsset(ctx, schoolID, asset)
	if err != nil {
		cause := &issuancedom.ExternalServiceError{
			Collaborator: issuancedom.CollaboratorContent,
			Step:         "upload",
			Err:          err,
		}
		return u.fail(e, cause)
	}
	if _, err := u.transition(e, (*issuancedom.Batch).MarkSubmitting); err != nil {
		return MintResult{}, err
	}

	// Phase 3: one mint transaction per recipient. The diploma record is
	// persisted right after each submission so a mid-batch failure keeps
	// the recipients that already went through.
	templateID := ""
	if asset != nil && asset.Kind == issuancedom.AssetTemplate {
		templateID = asset.TemplateID
	}
	for i, p := range profiles {
		idx := i + 1

		uri, err := u.pinner.PinJSON(ctx, diplomaMetadata{
			Name:        fmt.Sprintf("Diploma - %s", p.FullName),
			Symbol:      "DIPLOMA",
			Description: fmt.Sprintf("Diploma issued by %s", sc.Name),
			Image:       assetHash,
			Attributes: map[string]string{
				"school":  sc.Name,
				"student": p.FullName,
			},
		})
		if err != nil {
			return u.fail(e, &issuancedom.ExternalServiceError{
				Collaborator:   issuancedom.CollaboratorContent,
				Step:           "submit",
				RecipientIndex: idx,
				Err:            err,
			})
		}

		sig, err := u.minter.Mint(ctx, p.PublicWallet, fmt.Sprintf("Diploma - %s", p.FullName), "DIPLOMA", uri)
		if err != nil {
			return u.fail(e, &issuancedom.ExternalServiceError{
				Collaborator:   issuancedom.CollaboratorWallet,
				Step:           "submit",
				RecipientIndex: idx,
				Err:            err,
			})
		}

		rec, err := diplomadom.New(schoolID, p.UserID, templateID, assetHash, sig, map[string]string{
			"metadataUri": uri,
			"studentName": p.FullName,
		}, u.now())
		if err == nil {
			rec.StudentName = p.FullName
			_, err = u.diplomas.Create(ctx, rec)
		}
		if err != nil {
			return u.fail(e, &issuancedom.ExternalServiceError{
				Collaborator:   issuancedom.CollaboratorStorage,
				Step:           "persist",
				RecipientIndex: idx,
				Err:            err,
			})
		}

		e.mu.Lock()
		e.b.RecordMinted(issuancedom.MintedDiploma{
			StudentID:   p.UserID,
			TxSignature: sig,
			AssetHash:   assetHash,
		})
		e.mu.Unlock()
	}

	if _, err := u.transition(e, (*issuancedom.Batch).MarkConfirming); err != nil {
		return MintResult{}, err
	}

	// Phase 4: bounded confirmation poll.
	warning := ""
	e.mu.Lock()
	minted := e.b.Minted()
	e.mu.Unlock()
	if err := u.awaitConfirmations(ctx, minted); err != nil {
		if errors.Is(err, issuancedom.ErrConfirmationTimeout) {
			log.Printf("[issuance] confirmation timed out school=%s minted=%d", schoolID, len(minted))
			warning = "confirmation timed out; the mint was submitted and may confirm later"
		} else {
			log.Printf("[issuance] confirmation poll aborted school=%s err=%v", schoolID, err)
			warning = "confirmation could not be verified; the mint was submitted"
		}
	}

	// Phase 5: charge for what was actually minted. Billing failures are
	// logged for reconciliation, never fatal at this point.
	chargeQuote := u.charge(ctx, sc, prior, len(minted), cfg)

	e.mu.Lock()
	if err := e.b.Complete(warning); err != nil {
		e.mu.Unlock()
		return MintResult{}, err
	}
	e.mu.Unlock()

	u.sendReceipt(ctx, sc, len(recipients), len(minted), chargeQuote)

	return MintResult{
		State:      issuancedom.StateCompleted,
		Minted:     minted,
		Warning:    warning,
		NetworkFee: pricingdom.RoundDisplay(chargeQuote.NetworkFee),
		StorageFee: pricingdom.RoundDisplay(chargeQuote.StorageFee),
		Total:      pricingdom.RoundDisplay(chargeQuote.Total),
	}, nil
}

// ------------------------------------------------------
// RunMint helpers
// ------------------------------------------------------

func (u *IssuanceUsecase) quoteFor(ctx context.Context, schoolID string, batchSize int) (int, pricingdom.PriceConfig, pricingdom.FeeQuote, error) {
	if batchSize <= 0 {
		return 0, pricingdom.PriceConfig{}, pricingdom.FeeQuote{},
			&issuancedom.ValidationError{Reason: "no recipients selected"}
	}

	prior, err := u.diplomas.CountBySchoolID(ctx, schoolID)
	if err != nil {
		return 0, pricingdom.PriceConfig{}, pricingdom.FeeQuote{}, &issuancedom.ExternalServiceError{
			Collaborator: issuancedom.CollaboratorStorage,
			Step:         "quote",
			Err:          err,
		}
	}

	cfg, err := u.prices.GetLatest(ctx)
	if err != nil {
		if !errors.Is(err, pricingdom.ErrNotFound) {
			return 0, pricingdom.PriceConfig{}, pricingdom.FeeQuote{}, &issuancedom.ExternalServiceError{
				Collaborator: issuancedom.CollaboratorStorage,
				Step:         "quote",
				Err:          err,
			}
		}
		log.Printf("[issuance] no price config stored, using defaults")
		cfg = pricingdom.DefaultConfig()
	}

	quote, err := pricingdom.CalculateFees(prior, batchSize, &cfg)
	if err != nil {
		return 0, pricingdom.PriceConfig{}, pricingdom.FeeQuote{}, err
	}
	return prior, cfg, quote, nil
}

// resolveRecipients loads the recipient profiles and requires every one
// of them to have a delivery wallet. Checked before BeginMint so a bad
// roster never leaves the batch in a minting state.
func (u *IssuanceUsecase) resolveRecipients(ctx context.Context, ids []string) ([]studentdom.Profile, error) {
	profiles, err := u.students.ListByUserIDs(ctx, ids)
	if err != nil {
		return nil, &issuancedom.ExternalServiceError{
			Collaborator: issuancedom.CollaboratorStorage,
			Step:         "resolve",
			Err:          err,
		}
	}

	byID := make(map[string]studentdom.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.UserID] = p
	}

	out := make([]studentdom.Profile, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, &issuancedom.ValidationError{Reason: fmt.Sprintf("unknown recipient %q", id)}
		}
		if strings.TrimSpace(p.PublicWallet) == "" {
			return nil, &issuancedom.PreconditionError{
				Reason: fmt.Sprintf("recipient %s has no wallet address", p.FullName),
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (u *IssuanceUsecase) checkPreconditions(ctx context.Context, sc schooldom.Profile, quote pricingdom.FeeQuote) error {
	if err := u.minter.Connected(ctx); err != nil {
		return &issuancedom.PreconditionError{Reason: "wallet service is not reachable"}
	}
	lamports, err := u.minter.Balance(ctx)
	if err != nil {
		return &issuancedom.PreconditionError{Reason: "mint authority balance could not be read"}
	}
	if lamports < u.MinAuthorityLamports {
		return &issuancedom.PreconditionError{Reason: "mint authority balance is too low"}
	}
	if sc.Balance < quote.Total {
		return &issuancedom.PreconditionError{
			Reason: fmt.Sprintf("insufficient balance: have %.2f, need %.2f", sc.Balance, quote.Total),
		}
	}
	return nil
}

// pinAsset uploads the shared batch asset and returns its content hash.
func (u *IssuanceUsecase) pinAsset(ctx context.Context, schoolID string, asset *issuancedom.AssetSource) (string, error) {
	if asset == nil {
		return "", errors.New("no asset chosen")
	}
	switch asset.Kind {
	case issuancedom.AssetImage:
		data, err := u.assets.Get(ctx, asset.ImageRef)
		if err != nil {
			return "", fmt.Errorf("read staged image: %w", err)
		}
		hash, err := u.pinner.PinFile(ctx, data, asset.ImageRef)
		if err != nil {
			return "", err
		}
		// the staged copy is redundant once the bytes are pinned
		if err := u.assets.Delete(ctx, asset.ImageRef); err != nil {
			log.Printf("[issuance] staged asset cleanup failed ref=%s err=%v", asset.ImageRef, err)
		}
		return hash, nil
	case issuancedom.AssetTemplate:
		return u.pinner.PinJSON(ctx, templateDescriptor{
			Kind:       "template",
			TemplateID: asset.TemplateID,
			SchoolID:   schoolID,
		})
	default:
		return "", fmt.Errorf("unknown asset kind %q", asset.Kind)
	}
}

// awaitConfirmations polls the chain for every submitted signature with a
// fixed attempt budget. Returns ErrConfirmationTimeout when the budget is
// spent with signatures still unconfirmed.
func (u *IssuanceUsecase) awaitConfirmations(ctx context.Context, minted []issuancedom.MintedDiploma) error {
	pending := make(map[string]struct{}, len(minted))
	for _, m := range minted {
		pending[m.TxSignature] = struct{}{}
	}

	attempts := u.ConfirmAttempts
	if attempts <= 0 {
		attempts = 1
	}
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(u.ConfirmInterval):
			}
		}
		for sig := range pending {
			ok, err := u.minter.Confirmed(ctx, sig)
			if err != nil {
				log.Printf("[issuance] confirmation check failed sig=%s err=%v", sig, err)
				continue
			}
			if ok {
				delete(pending, sig)
			}
		}
		if len(pending) == 0 {
			return nil
		}
	}
	return issuancedom.ErrConfirmationTimeout
}

// charge debits the school's stored balance and writes the ledger
// entries. Errors are logged; the diplomas are already on chain, so the
// batch outcome does not depend on billing.
func (u *IssuanceUsecase) charge(ctx context.Context, sc schooldom.Profile, prior, minted int, cfg pricingdom.PriceConfig) pricingdom.FeeQuote {
	if minted <= 0 {
		return pricingdom.FeeQuote{}
	}

	quote, err := pricingdom.CalculateFees(prior, minted, &cfg)
	if err != nil {
		log.Printf("[issuance] charge quote failed school=%s err=%v", sc.UserID, err)
		return pricingdom.FeeQuote{}
	}

	if _, err := u.schools.AdjustBalance(ctx, sc.UserID, -quote.Total); err != nil {
		log.Printf("[issuance] balance debit failed school=%s amount=%.4f err=%v", sc.UserID, quote.Total, err)
	}

	now := u.now()
	if t, err := txdom.New(sc.UserID, txdom.KindNetworkFee, quote.NetworkFee,
		fmt.Sprintf("Network fee for %d diploma(s)", minted), txdom.StatusPaid, now); err == nil {
		if _, err := u.txs.Create(ctx, t); err != nil {
			log.Printf("[issuance] network fee entry failed school=%s err=%v", sc.UserID, err)
		}
	}
	if quote.StorageFee > 0 {
		charged := pricingdom.ChargedUnits(prior, minted, cfg.StorageFreeLimit)
		if t, err := txdom.New(sc.UserID, txdom.KindStorageFee, quote.StorageFee,
			fmt.Sprintf("Storage fee for %d diploma(s)", charged), txdom.StatusPaid, now); err == nil {
			if _, err := u.txs.Create(ctx, t); err != nil {
				log.Printf("[issuance] storage fee entry failed school=%s err=%v", sc.UserID, err)
			}
		}
	}
	return quote
}

// sendReceipt mails the fee receipt best-effort.
func (u *IssuanceUsecase) sendReceipt(ctx context.Context, sc schooldom.Profile, batchSize, minted int, quote pricingdom.FeeQuote) {
	if u.receipts == nil || strings.TrimSpace(sc.Email) == "" {
		return
	}
	err := u.receipts.SendIssuanceReceipt(ctx, sc.Email, ReceiptData{
		SchoolName: sc.Name,
		BatchSize:  batchSize,
		Minted:     minted,
		NetworkFee: pricingdom.RoundDisplay(quote.NetworkFee),
		StorageFee: pricingdom.RoundDisplay(quote.StorageFee),
		Total:      pricingdom.RoundDisplay(quote.Total),
		IssuedAt:   u.now(),
	})
	if err != nil {
		log.Printf("[issuance] receipt mail failed school=%s err=%v", sc.UserID, err)
	}
}

// fail moves the batch to Failed and returns the partial result.
func (u *IssuanceUsecase) fail(e *batchEntry, cause error) (MintResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.b.Fail(cause); err != nil {
		return MintResult{}, err
	}
	return MintResult{
		State:  issuancedom.StateFailed,
		Minted: e.b.Minted(),
	}, cause
}

// transition applies a state transition under the entry lock.
func (u *IssuanceUsecase) transition(e *batchEntry, fn func(*issuancedom.Batch) error) (MintResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(e.b); err != nil {
		return MintResult{}, err
	}
	return MintResult{State: e.b.State(), Minted: e.b.Minted()}, nil
}
