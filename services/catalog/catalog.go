package catalog

import (
	"context"
	"strings"

	catalogRepo "detailbook/database/repository/catalog"
	"detailbook/models"

	"go.uber.org/zap"
)

var (
	ErrServiceNotFound = models.NewAPIError(models.CodeNotFound, "Service not found")
	ErrPriceNotFound   = models.NewAPIError(models.CodeNotFound, "No price is set for this service and vehicle size")
	ErrInvalidSize     = models.NewAPIError(models.CodeValidation, "Vehicle size must be one of S, M, L or XL")
	ErrInvalidPostcode = models.NewAPIError(models.CodeValidation, "Please enter a valid UK postcode")
)

// Pricer is the part of the pricing calculator the catalogue exposes.
type Pricer interface {
	Quote(ctx context.Context, service models.Service, size models.VehicleSize) models.PriceQuote
	Calculate(ctx context.Context, service models.Service, vehicle models.Vehicle, address models.Address) models.PriceBreakdown
}

// Service answers catalogue and pricing questions for the booking API.
type Service struct {
	services catalogRepo.ServiceRepository
	pricing  catalogRepo.PricingRepository
	pricer   Pricer
	logger   *zap.Logger
}

func NewService(services catalogRepo.ServiceRepository, pricing catalogRepo.PricingRepository, pricer Pricer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{services: services, pricing: pricing, pricer: pricer, logger: logger}
}

func (s *Service) ListActive(ctx context.Context) ([]models.Service, error) {
	return s.services.ListActive(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (models.Service, error) {
	svc, err := s.services.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return models.Service{}, err
	}
	if svc == nil {
		return models.Service{}, ErrServiceNotFound
	}
	return *svc, nil
}

// Quote prices a service for a vehicle size, without travel.
func (s *Service) Quote(ctx context.Context, serviceID string, size models.VehicleSize) (models.PriceQuote, error) {
	if !size.Valid() {
		return models.PriceQuote{}, ErrInvalidSize
	}
	svc, err := s.Get(ctx, serviceID)
	if err != nil {
		return models.PriceQuote{}, err
	}
	return s.pricer.Quote(ctx, svc, size), nil
}

// ServicePrice returns the raw price table entry as {column: price}.
func (s *Service) ServicePrice(ctx context.Context, serviceID string, size models.VehicleSize) (map[string]float64, error) {
	if !size.Valid() {
		return nil, ErrInvalidSize
	}
	row, err := s.pricing.GetByServiceID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrPriceNotFound
	}
	price, ok := row.PriceFor(size)
	if !ok {
		return nil, ErrPriceNotFound
	}
	return map[string]float64{size.Column(): price}, nil
}

// Breakdown runs the full calculator, travel included.
func (s *Service) Breakdown(ctx context.Context, req models.BreakdownRequest) (models.PriceBreakdown, error) {
	if !req.VehicleSize.Valid() {
		return models.PriceBreakdown{}, ErrInvalidSize
	}
	if !models.ValidUKPostcode(req.Postcode) {
		return models.PriceBreakdown{}, ErrInvalidPostcode
	}
	svc, err := s.Get(ctx, req.ServiceID)
	if err != nil {
		return models.PriceBreakdown{}, err
	}
	breakdown := s.pricer.Calculate(ctx, svc,
		models.Vehicle{Size: req.VehicleSize},
		models.Address{Postcode: models.NormalizePostcode(req.Postcode)})
	if breakdown.Degraded {
		s.logger.Warn("price breakdown degraded",
			zap.String("serviceId", svc.ID),
			zap.String("reason", breakdown.DegradedReason))
	}
	return breakdown, nil
}
