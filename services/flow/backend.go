package flow

import (
	"context"

	"detailbook/models"
)

// Backend is the booking API as seen from the wizard. Implementations return
// *models.APIError for failures the API reported itself.
type Backend interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	QuotePrice(ctx context.Context, serviceID string, size models.VehicleSize) (models.PriceQuote, error)
	ValidateUser(ctx context.Context, email, phone string) (models.UserLookup, error)
	AvailableSlots(ctx context.Context, q models.SlotQuery) ([]models.TimeSlot, error)
	GetBooking(ctx context.Context, bookingID string) (models.BookingDetail, error)
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (models.CreateBookingResponse, error)
}

// PriceCalculator prices a service once the customer's address is known.
type PriceCalculator interface {
	Calculate(ctx context.Context, service models.Service, vehicle models.Vehicle, address models.Address) models.PriceBreakdown
}

type CatalogService interface {
	ListActive(ctx context.Context) ([]models.Service, error)
	Quote(ctx context.Context, serviceID string, size models.VehicleSize) (models.PriceQuote, error)
}

type CustomerService interface {
	ValidateUser(ctx context.Context, email, phone string) (models.UserLookup, error)
}

type SlotService interface {
	Availability(ctx context.Context, q models.SlotQuery) ([]models.TimeSlot, error)
}

type BookingService interface {
	Get(ctx context.Context, bookingID string) (models.BookingDetail, error)
	Create(ctx context.Context, req models.CreateBookingRequest) (models.CreateBookingResponse, error)
}

// LocalBackend serves the wizard from services running in the same process.
type LocalBackend struct {
	catalog   CatalogService
	customers CustomerService
	slots     SlotService
	bookings  BookingService
}

func NewLocalBackend(catalog CatalogService, customers CustomerService, slots SlotService, bookings BookingService) *LocalBackend {
	return &LocalBackend{catalog: catalog, customers: customers, slots: slots, bookings: bookings}
}

func (b *LocalBackend) ListServices(ctx context.Context) ([]models.Service, error) {
	return b.catalog.ListActive(ctx)
}

func (b *LocalBackend) QuotePrice(ctx context.Context, serviceID string, size models.VehicleSize) (models.PriceQuote, error) {
	return b.catalog.Quote(ctx, serviceID, size)
}

func (b *LocalBackend) ValidateUser(ctx context.Context, email, phone string) (models.UserLookup, error) {
	return b.customers.ValidateUser(ctx, email, phone)
}

func (b *LocalBackend) AvailableSlots(ctx context.Context, q models.SlotQuery) ([]models.TimeSlot, error) {
	return b.slots.Availability(ctx, q)
}

func (b *LocalBackend) GetBooking(ctx context.Context, bookingID string) (models.BookingDetail, error) {
	return b.bookings.Get(ctx, bookingID)
}

func (b *LocalBackend) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (models.CreateBookingResponse, error) {
	return b.bookings.Create(ctx, req)
}
