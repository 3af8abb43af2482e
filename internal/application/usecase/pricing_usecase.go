// internal/application/usecase/pricing_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	pricingdom "github.com/palukuba/proofchain-schools/internal/domain/pricing"
)

// ============================================================
// PricingUsecase
// ============================================================

// PricingUsecase reads and updates the platform-wide price config.
// Updates append a new snapshot so the pricing history stays auditable.
type PricingUsecase struct {
	prices pricingdom.Repository
	now    func() time.Time
}

func NewPricingUsecase(prices pricingdom.Repository) *PricingUsecase {
	return &PricingUsecase{prices: prices, now: time.Now}
}

// Current returns the latest config, falling back to the documented
// defaults (logged) when nothing has been stored yet.
func (u *PricingUsecase) Current(ctx context.Context) (pricingdom.PriceConfig, error) {
	cfg, err := u.prices.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, pricingdom.ErrNotFound) {
			log.Printf("[pricing] no price config stored, serving defaults")
			return pricingdom.DefaultConfig(), nil
		}
		return pricingdom.PriceConfig{}, err
	}
	return cfg, nil
}

// UpdateInput is the admin-facing update payload.
type UpdatePricingInput struct {
	BasePrice           float64 `json:"basePrice"`
	NetworkFeePercent   float64 `json:"networkFeePercent"`
	StorageFreeLimit    int     `json:"storageFreeLimit"`
	StoragePricePer1000 float64 `json:"storagePricePer1000"`
}

// Update appends a new pricing snapshot authored by updatedBy.
func (u *PricingUsecase) Update(ctx context.Context, updatedBy string, in UpdatePricingInput) (pricingdom.PriceConfig, error) {
	cfg := pricingdom.PriceConfig{
		BasePrice:           in.BasePrice,
		NetworkFeePercent:   in.NetworkFeePercent,
		StorageFreeLimit:    in.StorageFreeLimit,
		StoragePricePer1000: in.StoragePricePer1000,
		UpdatedAt:           u.now().UTC(),
		UpdatedBy:           strings.TrimSpace(updatedBy),
	}
	if err := cfg.Validate(); err != nil {
		return pricingdom.PriceConfig{}, err
	}
	return u.prices.Append(ctx, cfg)
}
