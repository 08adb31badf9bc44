package flow

import (
	"context"

	"detailbook/models"

	"github.com/stretchr/testify/mock"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListServices(ctx context.Context) ([]models.Service, error) {
	args := m.Called(ctx)
	services, _ := args.Get(0).([]models.Service)
	return services, args.Error(1)
}

func (m *MockBackend) QuotePrice(ctx context.Context, serviceID string, size models.VehicleSize) (models.PriceQuote, error) {
	args := m.Called(ctx, serviceID, size)
	return args.Get(0).(models.PriceQuote), args.Error(1)
}

func (m *MockBackend) ValidateUser(ctx context.Context, email, phone string) (models.UserLookup, error) {
	args := m.Called(ctx, email, phone)
	return args.Get(0).(models.UserLookup), args.Error(1)
}

func (m *MockBackend) AvailableSlots(ctx context.Context, q models.SlotQuery) ([]models.TimeSlot, error) {
	args := m.Called(ctx, q)
	slots, _ := args.Get(0).([]models.TimeSlot)
	return slots, args.Error(1)
}

func (m *MockBackend) GetBooking(ctx context.Context, bookingID string) (models.BookingDetail, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(models.BookingDetail), args.Error(1)
}

func (m *MockBackend) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (models.CreateBookingResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.CreateBookingResponse), args.Error(1)
}

type MockCalculator struct {
	mock.Mock
}

func (m *MockCalculator) Calculate(ctx context.Context, service models.Service, vehicle models.Vehicle, address models.Address) models.PriceBreakdown {
	args := m.Called(ctx, service, vehicle, address)
	return args.Get(0).(models.PriceBreakdown)
}

func testService() *models.Service {
	return &models.Service{ID: "svc-full", Name: "Full Valet", BasePrice: 40, Duration: 120, Active: true}
}

func testVehicle() *models.Vehicle {
	return &models.Vehicle{Make: "Volvo", Model: "XC90", Size: models.VehicleSizeLarge}
}

func testSlot() *models.SlotSelection {
	return &models.SlotSelection{SlotID: "slot-1", Date: "2026-11-02", StartTime: "09:00", EndTime: "11:00", Duration: 120}
}

func testAddress() *models.Address {
	return &models.Address{Line1: "1 High Street", City: "Guildford", Postcode: "GU2 7XH"}
}

func testUser() *models.UserDetails {
	return &models.UserDetails{Email: "sam@example.com", Phone: "07700900123", Name: "Sam Taylor", Password: "s3cret-pass"}
}

func completeForm() models.FormData {
	return models.FormData{
		Service: testService(),
		Vehicle: testVehicle(),
		Slot:    testSlot(),
		Address: testAddress(),
		User:    testUser(),
	}
}
