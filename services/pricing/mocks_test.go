package pricing

import (
	"context"

	"detailbook/models"

	"github.com/stretchr/testify/mock"
)

type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) Lookup(ctx context.Context, serviceID string, size models.VehicleSize) (float64, bool) {
	args := m.Called(ctx, serviceID, size)
	return args.Get(0).(float64), args.Bool(1)
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, postcode string) (DistanceResult, error) {
	args := m.Called(ctx, postcode)
	return args.Get(0).(DistanceResult), args.Error(1)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Locate(ctx context.Context, postcode string) (Coordinates, error) {
	args := m.Called(ctx, postcode)
	return args.Get(0).(Coordinates), args.Error(1)
}

type fakePricingStore struct {
	rows map[string]*models.ServicePricing
	err  error
}

func (f *fakePricingStore) GetByServiceID(ctx context.Context, serviceID string) (*models.ServicePricing, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[serviceID], nil
}

func price(v float64) *float64 {
	return &v
}
