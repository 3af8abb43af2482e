// internal/adapters/out/firestore/priceConfig_repository_fs.go
package firestore

import (
	"context"
	"strings"
	"time"

	pricingdom "github.com/palukuba/proofchain-schools/internal/domain/pricing"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// PriceConfigRepositoryFS is the Firestore implementation of
// pricing.Repository. Configs are append-only snapshots; the latest by
// updatedAt wins.
type PriceConfigRepositoryFS struct {
	client *firestore.Client
}

var _ pricingdom.Repository = (*PriceConfigRepositoryFS)(nil)

func NewPriceConfigRepositoryFS(client *firestore.Client) *PriceConfigRepositoryFS {
	return &PriceConfigRepositoryFS{client: client}
}

type priceConfigDoc struct {
	ID                  string    `firestore:"id"`
	BasePrice           float64   `firestore:"basePrice"`
	NetworkFeePercent   float64   `firestore:"networkFeePercent"`
	StorageFreeLimit    int       `firestore:"storageFreeLimit"`
	StoragePricePer1000 float64   `firestore:"storagePricePer1000"`
	UpdatedAt           time.Time `firestore:"updatedAt"`
	UpdatedBy           string    `firestore:"updatedBy"`
}

func (r *PriceConfigRepositoryFS) collection() *firestore.CollectionRef {
	return r.client.Collection("priceConfig")
}

func (r *PriceConfigRepositoryFS) GetLatest(ctx context.Context) (pricingdom.PriceConfig, error) {
	iter := r.collection().
		OrderBy("updatedAt", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return pricingdom.PriceConfig{}, pricingdom.ErrNotFound
	}
	if err != nil {
		return pricingdom.PriceConfig{}, err
	}

	var d priceConfigDoc
	if err := snap.DataTo(&d); err != nil {
		return pricingdom.PriceConfig{}, err
	}
	if strings.TrimSpace(d.ID) == "" {
		d.ID = snap.Ref.ID
	}

	cfg := pricingdom.PriceConfig{
		ID:                  d.ID,
		BasePrice:           d.BasePrice,
		NetworkFeePercent:   d.NetworkFeePercent,
		StorageFreeLimit:    d.StorageFreeLimit,
		StoragePricePer1000: d.StoragePricePer1000,
		UpdatedAt:           d.UpdatedAt.UTC(),
		UpdatedBy:           strings.TrimSpace(d.UpdatedBy),
	}
	if err := cfg.Validate(); err != nil {
		return pricingdom.PriceConfig{}, err
	}
	return cfg, nil
}

func (r *PriceConfigRepositoryFS) Append(ctx context.Context, cfg pricingdom.PriceConfig) (pricingdom.PriceConfig, error) {
	if err := cfg.Validate(); err != nil {
		return pricingdom.PriceConfig{}, err
	}

	ref := r.collection().NewDoc()
	cfg.ID = ref.ID
	if cfg.UpdatedAt.IsZero() {
		cfg.UpdatedAt = time.Now().UTC()
	}

	if _, err := ref.Create(ctx, priceConfigDoc{
		ID:                  cfg.ID,
		BasePrice:           cfg.BasePrice,
		NetworkFeePercent:   cfg.NetworkFeePercent,
		StorageFreeLimit:    cfg.StorageFreeLimit,
		StoragePricePer1000: cfg.StoragePricePer1000,
		UpdatedAt:           cfg.UpdatedAt.UTC(),
		UpdatedBy:           cfg.UpdatedBy,
	}); err != nil {
		return pricingdom.PriceConfig{}, err
	}
	return cfg, nil
}
