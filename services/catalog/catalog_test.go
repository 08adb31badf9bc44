package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"detailbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockServiceRepo struct{ mock.Mock }

func (m *MockServiceRepo) ListActive(ctx context.Context) ([]models.Service, error) {
	args := m.Called(ctx)
	services, _ := args.Get(0).([]models.Service)
	return services, args.Error(1)
}

func (m *MockServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	args := m.Called(ctx, id)
	svc, _ := args.Get(0).(*models.Service)
	return svc, args.Error(1)
}

func (m *MockServiceRepo) Upsert(ctx context.Context, service *models.Service) error {
	return m.Called(ctx, service).Error(0)
}

type MockPricingRepo struct{ mock.Mock }

func (m *MockPricingRepo) GetByServiceID(ctx context.Context, serviceID string) (*models.ServicePricing, error) {
	args := m.Called(ctx, serviceID)
	row, _ := args.Get(0).(*models.ServicePricing)
	return row, args.Error(1)
}

func (m *MockPricingRepo) Upsert(ctx context.Context, pricing *models.ServicePricing) error {
	return m.Called(ctx, pricing).Error(0)
}

type MockPricer struct{ mock.Mock }

func (m *MockPricer) Quote(ctx context.Context, service models.Service, size models.VehicleSize) models.PriceQuote {
	return m.Called(ctx, service, size).Get(0).(models.PriceQuote)
}

func (m *MockPricer) Calculate(ctx context.Context, service models.Service, vehicle models.Vehicle, address models.Address) models.PriceBreakdown {
	return m.Called(ctx, service, vehicle, address).Get(0).(models.PriceBreakdown)
}

var fullValet = &models.Service{ID: "svc-full", Name: "Full Valet", BasePrice: 40, Duration: 120, Active: true}

func newTestService() (*Service, *MockServiceRepo, *MockPricingRepo, *MockPricer) {
	services, pricing, pricer := &MockServiceRepo{}, &MockPricingRepo{}, &MockPricer{}
	return NewService(services, pricing, pricer, nil), services, pricing, pricer
}

func ptr(v float64) *float64 { return &v }

func TestService_Get(t *testing.T) {
	svc, services, _, _ := newTestService()
	ctx := context.Background()
	services.On("GetByID", ctx, "svc-full").Return(fullValet, nil)
	services.On("GetByID", ctx, "svc-missing").Return(nil, nil)

	got, err := svc.Get(ctx, " svc-full ")
	require.NoError(t, err)
	assert.Equal(t, "Full Valet", got.Name)

	_, err = svc.Get(ctx, "svc-missing")
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestService_Quote(t *testing.T) {
	svc, services, _, pricer := newTestService()
	ctx := context.Background()
	services.On("GetByID", ctx, "svc-full").Return(fullValet, nil)
	want := models.PriceQuote{BasePrice: 40, SizeMultiplier: 1, ServicePrice: 52, FinalPrice: 52, Currency: "GBP"}
	pricer.On("Quote", ctx, *fullValet, models.VehicleSizeLarge).Return(want)

	got, err := svc.Quote(ctx, "svc-full", models.VehicleSizeLarge)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = svc.Quote(ctx, "svc-full", "XXL")
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestService_ServicePrice(t *testing.T) {
	svc, _, pricing, _ := newTestService()
	ctx := context.Background()
	pricing.On("GetByServiceID", ctx, "svc-full").Return(&models.ServicePricing{
		ServiceID: "svc-full", Small: ptr(35), ExtraLarge: ptr(60),
	}, nil)
	pricing.On("GetByServiceID", ctx, "svc-none").Return(nil, nil)

	got, err := svc.ServicePrice(ctx, "svc-full", models.VehicleSizeExtraLarge)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"extra_large": 60}, got)

	_, err = svc.ServicePrice(ctx, "svc-full", models.VehicleSizeMedium)
	assert.ErrorIs(t, err, ErrPriceNotFound)

	_, err = svc.ServicePrice(ctx, "svc-none", models.VehicleSizeSmall)
	assert.ErrorIs(t, err, ErrPriceNotFound)
}

func TestService_Breakdown(t *testing.T) {
	svc, services, _, pricer := newTestService()
	ctx := context.Background()
	services.On("GetByID", ctx, "svc-full").Return(fullValet, nil)
	want := models.PriceBreakdown{ServicePrice: 52, TravelSurcharge: 8, TotalPrice: 60, FinalPrice: 60}
	pricer.On("Calculate", ctx, *fullValet,
		models.Vehicle{Size: models.VehicleSizeLarge},
		models.Address{Postcode: "GU2 7XH"}).Return(want)

	got, err := svc.Breakdown(ctx, models.BreakdownRequest{ServiceID: "svc-full", VehicleSize: models.VehicleSizeLarge, Postcode: "gu2 7xh"})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = svc.Breakdown(ctx, models.BreakdownRequest{ServiceID: "svc-full", VehicleSize: models.VehicleSizeLarge, Postcode: "nowhere"})
	assert.ErrorIs(t, err, ErrInvalidPostcode)
}

func TestService_Seed(t *testing.T) {
	svc, services, pricing, _ := newTestService()
	ctx := context.Background()
	services.On("Upsert", ctx, mock.MatchedBy(func(s *models.Service) bool { return s.ID == "svc-full" })).Return(nil)
	pricing.On("Upsert", ctx, mock.MatchedBy(func(p *models.ServicePricing) bool {
		return p.ServiceID == "svc-full" && p.Small != nil && *p.Small == 35
	})).Return(nil)

	err := svc.Seed(ctx, []SeedEntry{{Service: *fullValet, Pricing: models.ServicePricing{Small: ptr(35)}}})
	require.NoError(t, err)
	services.AssertExpectations(t)
	pricing.AssertExpectations(t)

	err = svc.Seed(ctx, []SeedEntry{{Service: models.Service{Name: "No id"}}})
	assert.Error(t, err)
}

func TestService_Seed_StopsOnStoreError(t *testing.T) {
	svc, services, pricing, _ := newTestService()
	ctx := context.Background()
	services.On("Upsert", ctx, mock.Anything).Return(errors.New("mongo down"))

	err := svc.Seed(ctx, []SeedEntry{{Service: *fullValet}})
	assert.EqualError(t, err, "mongo down")
	pricing.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"service": {"id": "svc-mini", "name": "Mini Valet", "basePrice": 25, "duration": 60, "active": true},
		 "pricing": {"small": 25, "medium": 30}}
	]`), 0o600))

	entries, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Mini Valet", entries[0].Service.Name)
	price, ok := entries[0].Pricing.PriceFor(models.VehicleSizeMedium)
	assert.True(t, ok)
	assert.Equal(t, 30.0, price)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
