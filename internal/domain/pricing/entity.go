// internal/domain/pricing/entity.go
package pricing

import (
	"errors"
	"math"
	"time"
)

// ------------------------------------------------------
// Entity: PriceConfig (priceConfig テーブル 1 レコード)
// ------------------------------------------------------
//
// Platform-wide pricing snapshot. Admin-owned; schools only read it.
// Updates append a new row (latest-by-updatedAt wins), the existing
// rows are never mutated.
type PriceConfig struct {
	ID                  string    `json:"id"`
	BasePrice           float64   `json:"basePrice"`           // per-diploma base price (USD)
	NetworkFeePercent   float64   `json:"networkFeePercent"`   // e.g. 2 = 2% of BasePrice
	StorageFreeLimit    int       `json:"storageFreeLimit"`    // leading diploma indices exempt from storage fees
	StoragePricePer1000 float64   `json:"storagePricePer1000"` // USD per 1000 pinned diplomas
	UpdatedAt           time.Time `json:"updatedAt"`
	UpdatedBy           string    `json:"updatedBy,omitempty"`
}

// FeeQuote is derived, never persisted; recomputed on every quantity change.
type FeeQuote struct {
	NetworkFee     float64 `json:"networkFee"`
	StorageFee     float64 `json:"storageFee"`
	Total          float64 `json:"total"`
	UnitNetworkFee float64 `json:"unitNetworkFee"`
}

// ------------------------------------------------------
// Errors
// ------------------------------------------------------

var (
	ErrInvalidBatchSize   = errors.New("pricing: batchSize must be positive")
	ErrInvalidPriorCount  = errors.New("pricing: priorIssuedCount must be non-negative")
	ErrInvalidBasePrice   = errors.New("pricing: basePrice must be non-negative")
	ErrInvalidFeePercent  = errors.New("pricing: networkFeePercent must be non-negative")
	ErrInvalidFreeLimit   = errors.New("pricing: storageFreeLimit must be non-negative")
	ErrInvalidStoragePer  = errors.New("pricing: storagePricePer1000 must be non-negative")
	ErrNotFound           = errors.New("pricing: price config not found")
)

// Validate checks the config invariants. Monetary values are non-negative.
func (c PriceConfig) Validate() error {
	if c.BasePrice < 0 {
		return ErrInvalidBasePrice
	}
	if c.NetworkFeePercent < 0 {
		return ErrInvalidFeePercent
	}
	if c.StorageFreeLimit < 0 {
		return ErrInvalidFreeLimit
	}
	if c.StoragePricePer1000 < 0 {
		return ErrInvalidStoragePer
	}
	return nil
}

// DefaultConfig is the documented fallback used when no price config has
// been stored yet: network fee only (0.50/unit), no storage fee. Callers
// falling back to it must log that they did.
func DefaultConfig() PriceConfig {
	return PriceConfig{
		ID:                  "default",
		BasePrice:           25.00,
		NetworkFeePercent:   2, // 25.00 * 2% = 0.50 per diploma
		StorageFreeLimit:    math.MaxInt32,
		StoragePricePer1000: 0,
	}
}
