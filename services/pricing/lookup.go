package pricing

import (
	"context"

	"detailbook/models"

	"go.uber.org/zap"
)

// ServicePriceLookup resolves the price of a service for one vehicle size.
// ok is false when no price exists or the lookup failed.
type ServicePriceLookup interface {
	Lookup(ctx context.Context, serviceID string, size models.VehicleSize) (price float64, ok bool)
}

// PricingStore reads per-size price rows. A missing row is (nil, nil).
type PricingStore interface {
	GetByServiceID(ctx context.Context, serviceID string) (*models.ServicePricing, error)
}

// RepositoryLookup reads the pricing table directly.
type RepositoryLookup struct {
	store  PricingStore
	logger *zap.Logger
}

func NewRepositoryLookup(store PricingStore, logger *zap.Logger) *RepositoryLookup {
	return &RepositoryLookup{store: store, logger: logger}
}

func (l *RepositoryLookup) Lookup(ctx context.Context, serviceID string, size models.VehicleSize) (float64, bool) {
	if !size.Valid() {
		return 0, false
	}
	row, err := l.store.GetByServiceID(ctx, serviceID)
	if err != nil {
		l.logger.Error("service price lookup failed",
			zap.String("serviceId", serviceID),
			zap.String("column", size.Column()),
			zap.Error(err))
		return 0, false
	}
	if row == nil {
		return 0, false
	}
	return row.PriceFor(size)
}
