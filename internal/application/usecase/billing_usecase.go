// internal/application/usecase/billing_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	pricingdom "github.com/palukuba/proofchain-schools/internal/domain/pricing"
	schooldom "github.com/palukuba/proofchain-schools/internal/domain/school"
	txdom "github.com/palukuba/proofchain-schools/internal/domain/transaction"
)

// ============================================================
// Ports (minimal interfaces for BillingUsecase)
// ============================================================

type billingSchoolRepo interface {
	GetByUserID(ctx context.Context, userID string) (schooldom.Profile, error)
}

type billingTransactionRepo interface {
	ListBySchoolID(ctx context.Context, schoolID string) ([]txdom.Transaction, error)
}

type billingDiplomaRepo interface {
	CountBySchoolID(ctx context.Context, schoolID string) (int, error)
}

type billingPriceRepo interface {
	GetLatest(ctx context.Context) (pricingdom.PriceConfig, error)
}

// ============================================================
// View DTOs
// ============================================================

// LedgerView is the billing page payload. Balance and transaction history
// load independently: one failing does not blank the other, each carries
// its own error slot instead.
type LedgerView struct {
	Balance      *float64             `json:"balance,omitempty"`
	BalanceError string               `json:"balanceError,omitempty"`

	Transactions      []txdom.Transaction `json:"transactions"`
	TransactionsError string              `json:"transactionsError,omitempty"`
}

// QuoteView is a fee quote with display-rounded amounts.
type QuoteView struct {
	BatchSize        int     `json:"batchSize"`
	PriorIssuedCount int     `json:"priorIssuedCount"`
	NetworkFee       float64 `json:"networkFee"`
	StorageFee       float64 `json:"storageFee"`
	Total            float64 `json:"total"`
	UnitNetworkFee   float64 `json:"unitNetworkFee"`
	UsedDefaults     bool    `json:"usedDefaults"`
}

// ============================================================
// BillingUsecase
// ============================================================

type BillingUsecase struct {
	schools  billingSchoolRepo
	txs      billingTransactionRepo
	diplomas billingDiplomaRepo
	prices   billingPriceRepo
}

func NewBillingUsecase(
	schools billingSchoolRepo,
	txs billingTransactionRepo,
	diplomas billingDiplomaRepo,
	prices billingPriceRepo,
) *BillingUsecase {
	return &BillingUsecase{
		schools:  schools,
		txs:      txs,
		diplomas: diplomas,
		prices:   prices,
	}
}

// Ledger loads the billing page data for the school. The two halves fail
// independently so a transaction-history outage never hides the balance
// and vice versa.
func (u *BillingUsecase) Ledger(ctx context.Context, schoolID string) (LedgerView, error) {
	schoolID = strings.TrimSpace(schoolID)
	if schoolID == "" {
		return LedgerView{}, errors.New("billing: empty schoolId")
	}

	view := LedgerView{Transactions: []txdom.Transaction{}}

	if p, err := u.schools.GetByUserID(ctx, schoolID); err != nil {
		log.Printf("[billing] balance load failed school=%s err=%v", schoolID, err)
		view.BalanceError = "balance unavailable"
	} else {
		bal := p.Balance
		view.Balance = &bal
	}

	if txs, err := u.txs.ListBySchoolID(ctx, schoolID); err != nil {
		log.Printf("[billing] transactions load failed school=%s err=%v", schoolID, err)
		view.TransactionsError = "transaction history unavailable"
	} else if txs != nil {
		view.Transactions = txs
	}

	return view, nil
}

// Quote computes the fee quote for minting batchSize diplomas. The prior
// issued count comes from the diploma registry; a missing price config
// falls back to the documented defaults, logged.
func (u *BillingUsecase) Quote(ctx context.Context, schoolID string, batchSize int) (QuoteView, error) {
	schoolID = strings.TrimSpace(schoolID)
	if schoolID == "" {
		return QuoteView{}, errors.New("billing: empty schoolId")
	}

	prior, err := u.diplomas.CountBySchoolID(ctx, schoolID)
	if err != nil {
		return QuoteView{}, err
	}

	cfg, usedDefaults, err := u.loadConfig(ctx)
	if err != nil {
		return QuoteView{}, err
	}

	quote, err := pricingdom.CalculateFees(prior, batchSize, &cfg)
	if err != nil {
		return QuoteView{}, err
	}

	return QuoteView{
		BatchSize:        batchSize,
		PriorIssuedCount: prior,
		NetworkFee:       pricingdom.RoundDisplay(quote.NetworkFee),
		StorageFee:       pricingdom.RoundDisplay(quote.StorageFee),
		Total:            pricingdom.RoundDisplay(quote.Total),
		UnitNetworkFee:   pricingdom.RoundDisplay(quote.UnitNetworkFee),
		UsedDefaults:     usedDefaults,
	}, nil
}

// loadConfig returns the latest stored price config, or the defaults when
// none exists. The fallback is logged so operators notice a bare install.
func (u *BillingUsecase) loadConfig(ctx context.Context) (pricingdom.PriceConfig, bool, error) {
	cfg, err := u.prices.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, pricingdom.ErrNotFound) {
			log.Printf("[billing] no price config stored, using defaults")
			return pricingdom.DefaultConfig(), true, nil
		}
		return pricingdom.PriceConfig{}, false, err
	}
	return cfg, false, nil
}
