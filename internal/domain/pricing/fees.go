// internal/domain/pricing/fees.go
package pricing

import "math"

// CalculateFees computes the network and storage fees for a batch of
// batchSize diplomas, given that the school has already issued
// priorIssuedCount diplomas.
//
// The i-th diploma of the batch (i = 1..batchSize) has global index
// priorIssuedCount + i (1-based). The network fee is flat per unit:
//
//	unitNetworkFee = basePrice * networkFeePercent / 100
//
// The storage fee applies only to diplomas whose global index exceeds
// storageFreeLimit, at storagePricePer1000 / 1000 per unit.
//
// Pure function: no side effects, identical inputs yield identical output.
// Accumulation is done in full precision; two-decimal rounding belongs to
// the presentation layer (RoundDisplay), not here.
func CalculateFees(priorIssuedCount, batchSize int, cfg *PriceConfig) (FeeQuote, error) {
	if batchSize <= 0 {
		return FeeQuote{}, ErrInvalidBatchSize
	}
	if priorIssuedCount < 0 {
		return FeeQuote{}, ErrInvalidPriorCount
	}

	c := DefaultConfig()
	if cfg != nil {
		if err := cfg.Validate(); err != nil {
			return FeeQuote{}, err
		}
		c = *cfg
	}

	unitNetworkFee := c.BasePrice * c.NetworkFeePercent / 100
	networkFee := unitNetworkFee * float64(batchSize)

	unitStorageFee := c.StoragePricePer1000 / 1000

	storageFee := 0.0
	for i := 1; i <= batchSize; i++ {
		globalIndex := priorIssuedCount + i
		if globalIndex > c.StorageFreeLimit {
			storageFee += unitStorageFee
		}
	}

	return FeeQuote{
		NetworkFee:     networkFee,
		StorageFee:     storageFee,
		Total:          networkFee + storageFee,
		UnitNetworkFee: unitNetworkFee,
	}, nil
}

// ChargedUnits returns how many diplomas of the batch fall above the free
// tier. Exposed for transaction bookkeeping (network vs storage split).
func ChargedUnits(priorIssuedCount, batchSize, storageFreeLimit int) int {
	if batchSize <= 0 {
		return 0
	}
	charged := 0
	for i := 1; i <= batchSize; i++ {
		if priorIssuedCount+i > storageFreeLimit {
			charged++
		}
	}
	return charged
}

// RoundDisplay rounds a monetary value to two decimals for presentation.
// Never used during accumulation.
func RoundDisplay(v float64) float64 {
	return math.Round(v*100) / 100
}
