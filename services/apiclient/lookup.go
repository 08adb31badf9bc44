package apiclient

import (
	"context"

	"detailbook/models"

	"go.uber.org/zap"
)

// PriceLookup serves per-size prices from the remote API so the in-process
// calculator can price against a remote catalogue.
type PriceLookup struct {
	client *Client
	logger *zap.Logger
}

func NewPriceLookup(client *Client, logger *zap.Logger) *PriceLookup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceLookup{client: client, logger: logger}
}

func (l *PriceLookup) Lookup(ctx context.Context, serviceID string, size models.VehicleSize) (float64, bool) {
	price, ok, err := l.client.ServicePrice(ctx, serviceID, size)
	if err != nil {
		l.logger.Error("remote price lookup failed",
			zap.String("serviceId", serviceID),
			zap.String("size", string(size)),
			zap.Error(err))
		return 0, false
	}
	return price, ok
}
