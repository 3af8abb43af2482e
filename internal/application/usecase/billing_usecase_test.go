// internal/application/usecase/billing_usecase_test.go
package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pricingdom "github.com/palukuba/proofchain-schools/internal/domain/pricing"
	schooldom "github.com/palukuba/proofchain-schools/internal/domain/school"
	txdom "github.com/palukuba/proofchain-schools/internal/domain/transaction"
)

type billingSchools struct {
	profile schooldom.Profile
	err     error
}

func (f *billingSchools) GetByUserID(ctx context.Context, userID string) (schooldom.Profile, error) {
	if f.err != nil {
		return schooldom.Profile{}, f.err
	}
	return f.profile, nil
}

type billingTxs struct {
	list []txdom.Transaction
	err  error
}

func (f *billingTxs) ListBySchoolID(ctx context.Context, schoolID string) ([]txdom.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func sampleTxs(t *testing.T) []txdom.Transaction {
	t.Helper()
	when := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a, err := txdom.New("school-1", txdom.KindNetworkFee, 1.50, "Network fee for 3 diploma(s)", txdom.StatusPaid, when)
	require.NoError(t, err)
	b, err := txdom.New("school-1", txdom.KindStorageFee, 0.02, "Storage fee for 2 diploma(s)", txdom.StatusPaid, when)
	require.NoError(t, err)
	return []txdom.Transaction{a, b}
}

func TestLedger_LoadsBalanceAndHistory(t *testing.T) {
	uc := NewBillingUsecase(
		&billingSchools{profile: schooldom.Profile{UserID: "school-1", Balance: 42.50}},
		&billingTxs{list: sampleTxs(t)},
		&fakeDiplomas{},
		&fakePrices{},
	)

	view, err := uc.Ledger(context.Background(), "school-1")
	require.NoError(t, err)

	require.NotNil(t, view.Balance)
	assert.InDelta(t, 42.50, *view.Balance, 1e-9)
	assert.Empty(t, view.BalanceError)
	assert.Len(t, view.Transactions, 2)
	assert.Empty(t, view.TransactionsError)
}

func TestLedger_BalanceFailureKeepsHistory(t *testing.T) {
	uc := NewBillingUsecase(
		&billingSchools{err: errors.New("firestore down")},
		&billingTxs{list: sampleTxs(t)},
		&fakeDiplomas{},
		&fakePrices{},
	)

	view, err := uc.Ledger(context.Background(), "school-1")
	require.NoError(t, err)

	assert.Nil(t, view.Balance)
	assert.NotEmpty(t, view.BalanceError)
	assert.Len(t, view.Transactions, 2)
	assert.Empty(t, view.TransactionsError)
}

func TestLedger_HistoryFailureKeepsBalance(t *testing.T) {
	uc := NewBillingUsecase(
		&billingSchools{profile: schooldom.Profile{UserID: "school-1", Balance: 10}},
		&billingTxs{err: errors.New("pg down")},
		&fakeDiplomas{},
		&fakePrices{},
	)

	view, err := uc.Ledger(context.Background(), "school-1")
	require.NoError(t, err)

	require.NotNil(t, view.Balance)
	assert.NotEmpty(t, view.TransactionsError)
	// history degrades to an empty list, never nil
	assert.NotNil(t, view.Transactions)
	assert.Empty(t, view.Transactions)
}

func TestLedger_EmptySchoolID(t *testing.T) {
	uc := NewBillingUsecase(&billingSchools{}, &billingTxs{}, &fakeDiplomas{}, &fakePrices{})

	_, err := uc.Ledger(context.Background(), "  ")
	assert.Error(t, err)
}

func TestQuote_UsesStoredConfig(t *testing.T) {
	uc := NewBillingUsecase(
		&billingSchools{},
		&billingTxs{},
		&fakeDiplomas{prior: 99},
		&fakePrices{cfg: &pricingdom.PriceConfig{
			BasePrice:           25.00,
			NetworkFeePercent:   2,
			StorageFreeLimit:    100,
			StoragePricePer1000: 10,
		}},
	)

	view, err := uc.Quote(context.Background(), "school-1", 3)
	require.NoError(t, err)

	assert.Equal(t, 3, view.BatchSize)
	assert.Equal(t, 99, view.PriorIssuedCount)
	assert.InDelta(t, 0.50, view.UnitNetworkFee, 1e-9)
	assert.InDelta(t, 1.50, view.NetworkFee, 1e-9)
	// indices 100..102, the limit itself is free
	assert.InDelta(t, 0.02, view.StorageFee, 1e-9)
	assert.InDelta(t, 1.52, view.Total, 1e-9)
	assert.False(t, view.UsedDefaults)
}

func TestQuote_FallsBackToDefaults(t *testing.T) {
	uc := NewBillingUsecase(
		&billingSchools{},
		&billingTxs{},
		&fakeDiplomas{prior: 500},
		&fakePrices{}, // no stored config
	)

	view, err := uc.Quote(context.Background(), "school-1", 4)
	require.NoError(t, err)

	assert.True(t, view.UsedDefaults)
	assert.InDelta(t, 2.00, view.NetworkFee, 1e-9)
	assert.Zero(t, view.StorageFee)
}

func TestQuote_RejectsInvalidBatchSize(t *testing.T) {
	uc := NewBillingUsecase(&billingSchools{}, &billingTxs{}, &fakeDiplomas{}, &fakePrices{})

	_, err := uc.Quote(context.Background(), "school-1", 0)
	assert.ErrorIs(t, err, pricingdom.ErrInvalidBatchSize)
}
